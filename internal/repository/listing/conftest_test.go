package listing

import (
	"context"

	"github.com/kailas-cloud/bizlist/internal/domain/business"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/selection"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	queryParentsFn  func(ctx context.Context, sel selection.Selection) ([]business.Business, error)
	queryChildrenFn func(ctx context.Context, ids []int64, pred selection.ChildPredicate) ([]media.Media, error)

	parentCalls, childCalls int
}

func (m *mockStore) QueryParents(ctx context.Context, sel selection.Selection) ([]business.Business, error) {
	m.parentCalls++
	if m.queryParentsFn != nil {
		return m.queryParentsFn(ctx, sel)
	}
	return []business.Business{}, nil
}

func (m *mockStore) QueryChildren(
	ctx context.Context, ids []int64, pred selection.ChildPredicate,
) ([]media.Media, error) {
	m.childCalls++
	if m.queryChildrenFn != nil {
		return m.queryChildrenFn(ctx, ids, pred)
	}
	return []media.Media{}, nil
}
