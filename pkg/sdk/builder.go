package bizlist

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/bizlist/internal/domain"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/filter"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/selection"
	listinguc "github.com/kailas-cloud/bizlist/internal/usecase/listing"
)

// ListBuilder is a fluent builder for listing queries.
// Only approved businesses are ever returned.
type ListBuilder struct {
	svc listingUseCase
	obs *observer

	filters map[string]any
	limit   int
	random  bool
	orderBy string
	desc    bool
}

// Category keeps businesses whose main category equals c.
func (b *ListBuilder) Category(c string) *ListBuilder {
	b.filters[string(filter.Category)] = c
	return b
}

// Tag keeps businesses carrying t as a tag or a type.
func (b *ListBuilder) Tag(t string) *ListBuilder {
	b.filters[string(filter.Tag)] = t
	return b
}

// Chain keeps businesses deployed on chain.
func (b *ListBuilder) Chain(chain string) *ListBuilder {
	b.filters[string(filter.Chain)] = chain
	return b
}

// HasPhoto keeps businesses with at least one media of the configured source.
func (b *ListBuilder) HasPhoto() *ListBuilder {
	b.filters[string(filter.HasPhoto)] = true
	return b
}

// Limit sets the maximum number of businesses. Required, at least 1.
func (b *ListBuilder) Limit(n int) *ListBuilder {
	b.limit = n
	return b
}

// OrderBy sorts by id, name or created_at. id breaks ties.
// Ignored by Random.
func (b *ListBuilder) OrderBy(field string, desc bool) *ListBuilder {
	b.orderBy = field
	b.desc = desc
	return b
}

// Random draws a uniform sample instead of an ordered page.
func (b *ListBuilder) Random() *ListBuilder {
	b.random = true
	return b
}

// Do runs the listing. It returns either every row or an error, never part of a page.
func (b *ListBuilder) Do(ctx context.Context) (out []Business, err error) {
	op := "businesses.list"
	if b.random {
		op = "businesses.random"
	}
	start := time.Now()
	defer func() { b.obs.observe(op, start, err) }()

	q, err := b.query()
	if err != nil {
		return nil, err
	}
	rows, err := b.svc.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	return fromRows(rows), nil
}

func (b *ListBuilder) query() (listinguc.Query, error) {
	if b.limit < 1 {
		return listinguc.Query{}, domain.Validationf("limit is required and must be at least 1, got %d", b.limit)
	}
	set, err := filter.New(b.filters)
	if err != nil {
		return listinguc.Query{}, err
	}
	q := listinguc.Query{Filters: set, Limit: b.limit, Sample: b.random}
	if !b.random {
		dir := "asc"
		if b.desc {
			dir = "desc"
		}
		q.Order, err = selection.ParseOrder(b.orderBy, dir)
		if err != nil {
			return listinguc.Query{}, err
		}
	}
	return q, nil
}
