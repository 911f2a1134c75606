package bizlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/bizlist/internal/domain"
	"github.com/kailas-cloud/bizlist/internal/domain/business"
	domlisting "github.com/kailas-cloud/bizlist/internal/domain/listing"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/selection"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
	listinguc "github.com/kailas-cloud/bizlist/internal/usecase/listing"
)

func TestListBuilder_Chaining(t *testing.T) {
	var got listinguc.Query
	c := testClient(&mockListingUC{
		listFn: func(_ context.Context, q listinguc.Query) ([]domlisting.Row, error) {
			got = q
			return nil, nil
		},
	})

	_, err := c.Businesses().
		Category("defi").
		Chain("solana").
		HasPhoto().
		OrderBy("created_at", true).
		Limit(7).
		Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cat, ok := got.Filters.Category(); !ok || cat != "defi" {
		t.Errorf("category = (%q, %v), want defi", cat, ok)
	}
	if chain, ok := got.Filters.Chain(); !ok || chain != "solana" {
		t.Errorf("chain = (%q, %v), want solana", chain, ok)
	}
	if hp, ok := got.Filters.HasPhoto(); !ok || !hp {
		t.Errorf("has_photo = (%v, %v), want true", hp, ok)
	}
	if _, ok := got.Filters.Tag(); ok {
		t.Error("tag should be unset")
	}
	if got.Limit != 7 {
		t.Errorf("Limit = %d, want 7", got.Limit)
	}
	if got.Sample {
		t.Error("Sample should be false")
	}
	want := selection.Order{Field: selection.FieldCreatedAt, Desc: true}
	if got.Order != want {
		t.Errorf("Order = %+v, want %+v", got.Order, want)
	}
}

func TestListBuilder_Defaults(t *testing.T) {
	var got listinguc.Query
	c := testClient(&mockListingUC{
		listFn: func(_ context.Context, q listinguc.Query) ([]domlisting.Row, error) {
			got = q
			return nil, nil
		},
	})

	if _, err := c.Businesses().Limit(20).Do(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Limit != 20 {
		t.Errorf("Limit = %d, want 20", got.Limit)
	}
	if !got.Filters.IsEmpty() {
		t.Errorf("Filters = %s, want empty", got.Filters)
	}
	if got.Order != (selection.Order{Field: selection.FieldID}) {
		t.Errorf("Order = %+v, want id asc", got.Order)
	}
}

func TestListBuilder_Random(t *testing.T) {
	var got listinguc.Query
	c := testClient(&mockListingUC{
		listFn: func(_ context.Context, q listinguc.Query) ([]domlisting.Row, error) {
			got = q
			return nil, nil
		},
	})

	// order is irrelevant to a sample and must not be validated
	_, err := c.Businesses().Tag("nft").OrderBy("rating", false).Random().Limit(3).Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Sample {
		t.Error("Sample should be true")
	}
	if tag, _ := got.Filters.Tag(); tag != "nft" {
		t.Errorf("tag = %q, want nft", tag)
	}
}

func TestListBuilder_ValidationErrors(t *testing.T) {
	called := false
	c := testClient(&mockListingUC{
		listFn: func(_ context.Context, _ listinguc.Query) ([]domlisting.Row, error) {
			called = true
			return nil, nil
		},
	})

	tests := []struct {
		name string
		b    *ListBuilder
	}{
		{"missing limit", c.Businesses().Category("defi")},
		{"missing limit on random", c.Businesses().Random()},
		{"zero limit", c.Businesses().Limit(0)},
		{"empty category", c.Businesses().Category("").Limit(5)},
		{"bad order field", c.Businesses().OrderBy("rating", false).Limit(5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b.Do(context.Background())
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
	if called {
		t.Error("use case should not be called on invalid input")
	}
}

func TestListBuilder_StoreError(t *testing.T) {
	c := testClient(&mockListingUC{
		listFn: func(_ context.Context, _ listinguc.Query) ([]domlisting.Row, error) {
			return nil, domain.NewStoreError(domain.StoreConnectionFailure, "query_parents", errors.New("refused"))
		},
	})

	got, err := c.Businesses().Limit(10).Do(context.Background())
	if !errors.Is(err, ErrStore) {
		t.Fatalf("err = %v, want ErrStore", err)
	}
	if !IsUnavailable(err) {
		t.Error("connection failure should be unavailable")
	}
	if got != nil {
		t.Errorf("got %v, want nil on error", got)
	}
}

func TestListBuilder_ConvertsRows(t *testing.T) {
	created := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	c := testClient(&mockListingUC{
		listFn: func(_ context.Context, _ listinguc.Query) ([]domlisting.Row, error) {
			return []domlisting.Row{{
				Business: business.Business{
					ID: 2, Name: "Magic Eden", Category: "nft", CreatedAt: created,
					Chains: []string{"solana"}, Status: business.Approved,
				},
				Media: []media.Media{{ID: 6, BusinessID: 2, Source: media.Photo, URL: "https://cdn.example.com/me/1.png"}},
			}}, nil
		},
	})

	got, err := c.Businesses().Limit(10).Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	b := got[0]
	if b.ID != 2 || b.Slug != "magic-eden" || !b.CreatedAt.Equal(created) {
		t.Errorf("business = %+v", b)
	}
	if len(b.Media) != 1 || b.Media[0].Source != "Photo" || b.Media[0].ID != 6 {
		t.Errorf("media = %+v", b.Media)
	}
}
