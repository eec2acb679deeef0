package fetch

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a fetch failure so callers can tell terminal failures
// (never retried, frontier entry kept as ERROR) from transient ones (left for
// a later explicit retry).
type ErrorKind int

const (
	// KindTransient covers network errors, timeouts, HTTP 429 and 5xx.
	KindTransient ErrorKind = iota
	// KindNotFound covers HTTP 404 and 410: the resource is permanently gone.
	KindNotFound
	// KindParse means the body could not be parsed into a document.
	KindParse
	// KindRobotsDenied means robots.txt disallows the path for our user agent.
	KindRobotsDenied
)

// Error is a typed fetch failure.
type Error struct {
	Kind   ErrorKind
	URL    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("fetch %s: gone (status %d)", e.URL, e.Status)
	case KindParse:
		return fmt.Sprintf("fetch %s: parse failure: %v", e.URL, e.Err)
	case KindRobotsDenied:
		return fmt.Sprintf("fetch %s: disallowed by robots.txt", e.URL)
	default:
		return fmt.Sprintf("fetch %s: transient failure: %v", e.URL, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Terminal reports whether err is a fetch failure that should never be
// retried automatically. Wrapped fetch errors are unwrapped; non-fetch
// errors are treated as transient.
func Terminal(err error) bool {
	var fe *Error
	if !errors.As(err, &fe) {
		return false
	}
	return fe.Kind == KindNotFound || fe.Kind == KindParse || fe.Kind == KindRobotsDenied
}
