package listing

import (
	"context"
	"fmt"

	domlisting "github.com/kailas-cloud/vecbrowse/internal/domain/listing"
)

// Service lists buckets, indexes and vectors, optionally following
// continuation tokens.
type Service struct {
	repo     Repository
	maxPages int
}

// New creates a listing service. maxPages bounds how many pages a single
// PageRequest with All set may fetch; values below 1 mean 1.
func New(repo Repository, maxPages int) *Service {
	if maxPages < 1 {
		maxPages = 1
	}
	return &Service{repo: repo, maxPages: maxPages}
}

// ListBuckets returns the vector buckets visible in region.
func (s *Service) ListBuckets(
	ctx context.Context, region string, req domlisting.PageRequest,
) (domlisting.Page[domlisting.Bucket], error) {
	page, err := collect(ctx, req, s.maxPages,
		func(ctx context.Context, cur domlisting.Cursor) (domlisting.Page[domlisting.Bucket], error) {
			return s.repo.ListBuckets(ctx, region, cur)
		})
	if err != nil {
		return domlisting.Page[domlisting.Bucket]{}, fmt.Errorf("list buckets: %w", err)
	}
	return page, nil
}

// ListIndexes returns the indexes of bucket.
func (s *Service) ListIndexes(
	ctx context.Context, region, bucket string, req domlisting.PageRequest,
) (domlisting.Page[domlisting.Index], error) {
	page, err := collect(ctx, req, s.maxPages,
		func(ctx context.Context, cur domlisting.Cursor) (domlisting.Page[domlisting.Index], error) {
			return s.repo.ListIndexes(ctx, region, bucket, cur)
		})
	if err != nil {
		return domlisting.Page[domlisting.Index]{}, fmt.Errorf("list indexes: %w", err)
	}
	return page, nil
}

// ListVectors returns the vectors of bucket/index with data and metadata.
func (s *Service) ListVectors(
	ctx context.Context, region, bucket, index string, req domlisting.PageRequest,
) (domlisting.Page[domlisting.Vector], error) {
	page, err := collect(ctx, req, s.maxPages,
		func(ctx context.Context, cur domlisting.Cursor) (domlisting.Page[domlisting.Vector], error) {
			return s.repo.ListVectors(ctx, region, bucket, index, cur)
		})
	if err != nil {
		return domlisting.Page[domlisting.Vector]{}, fmt.Errorf("list vectors: %w", err)
	}
	return page, nil
}

// collect fetches the first page at req.Cursor and, when req.All is set,
// keeps following tokens until none is left or maxPages pages were read.
// The returned NextToken is whatever the last fetched page reported.
func collect[T any](
	ctx context.Context,
	req domlisting.PageRequest,
	maxPages int,
	fetch func(context.Context, domlisting.Cursor) (domlisting.Page[T], error),
) (domlisting.Page[T], error) {
	cur := req.Cursor
	items := []T{}

	for pages := 0; pages < maxPages; pages++ {
		if pages > 0 {
			if err := ctx.Err(); err != nil {
				return domlisting.Page[T]{}, fmt.Errorf("page %d: %w", pages+1, err)
			}
		}

		page, err := fetch(ctx, cur)
		if err != nil {
			return domlisting.Page[T]{}, err
		}
		items = append(items, page.Items...)

		// A token that does not advance would loop forever.
		if !req.All || !page.HasMore() || page.NextToken == cur.NextToken {
			return domlisting.Page[T]{Items: items, NextToken: page.NextToken}, nil
		}
		cur.NextToken = page.NextToken
	}

	return domlisting.Page[T]{Items: items, NextToken: cur.NextToken}, nil
}
