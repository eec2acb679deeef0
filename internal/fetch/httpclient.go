package fetch

import (
	"hash/fnv"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"bookscout/common"
)

// HTTP timeouts so a single hung request doesn't hold a crawl slot
// indefinitely.
const (
	connectTimeout        = 10 * time.Second
	responseHeaderTimeout = 25 * time.Second // time to first response header
	totalTimeout          = 30 * time.Second // total request (connect + headers + body)
)

// SelectProxyFromPool returns one URL from pool (comma-separated) by hashing
// hostname, so each replica picks a deterministic proxy for multi-egress.
// Empty pool or hostname yields "".
func SelectProxyFromPool(pool, hostname string) string {
	parts := strings.Split(strings.TrimSpace(pool), ",")
	var valid []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return ""
	}
	if hostname == "" {
		hostname = "0"
	}
	h := fnv.New32a()
	h.Write([]byte(hostname))
	idx := int(h.Sum32()) % len(valid)
	if idx < 0 {
		idx = -idx
	}
	return valid[idx]
}

// BuildHTTPClient returns an http.Client for page fetches. If PROXY_URL is
// set, uses that proxy; if PROXY_POOL is set (comma-separated URLs), picks
// one by HOSTNAME (e.g. pod name) so replicas spread across proxies.
func BuildHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
		ResponseHeaderTimeout: responseHeaderTimeout,
	}
	proxyURL := common.GetEnv("PROXY_URL", "")
	pool := common.GetEnv("PROXY_POOL", "")
	if proxyURL == "" && pool != "" {
		hostname := os.Getenv("HOSTNAME")
		proxyURL = SelectProxyFromPool(pool, hostname)
		if proxyURL != "" {
			log.Printf("fetch proxy from pool: hostname=%s proxy=%s", hostname, proxyURL)
		}
	}
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			log.Printf("invalid PROXY_URL/PROXY_POOL: %v", err)
		} else {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Transport: transport,
		Timeout:   totalTimeout,
	}
}
