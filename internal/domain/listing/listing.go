// Package listing holds the entities returned by the vector storage listing calls.
package listing

import (
	"time"

	"github.com/kailas-cloud/vecbrowse/internal/domain/document"
)

// Bucket is a top-level container for vector indexes.
type Bucket struct {
	Name      string
	ARN       string
	CreatedAt time.Time
}

// Index is a named vector collection inside a bucket.
type Index struct {
	Name       string
	BucketName string
	ARN        string
	CreatedAt  time.Time
}

// Vector is a stored embedding. Data is empty when the service returned no
// vector data; Metadata is nil when the vector has none.
type Vector struct {
	Key      string
	Data     []float32
	Metadata document.Value
}

// Cursor addresses a single listing page.
type Cursor struct {
	MaxResults int32  // 0 = service default
	NextToken  string // continue after a previous page
}

// PageRequest controls how much of a listing is fetched.
// The zero value fetches the first page with the service's default page size.
type PageRequest struct {
	Cursor
	All bool // follow continuation tokens until exhausted
}

// Page is one or more listing pages folded together.
// NextToken is non-empty when the service has more items.
type Page[T any] struct {
	Items     []T
	NextToken string
}

// HasMore reports whether a continuation token is outstanding.
func (p Page[T]) HasMore() bool { return p.NextToken != "" }
