package models

// ResourceKind describes the category of remote item a path or page represents.
type ResourceKind string

const (
	KindBook          ResourceKind = "book"
	KindBookReview    ResourceKind = "book_review"
	KindBookAuthor    ResourceKind = "book_author"
	KindBookPublisher ResourceKind = "book_publisher"
	KindPagination    ResourceKind = "pagination"
	KindURL           ResourceKind = "url"
)
