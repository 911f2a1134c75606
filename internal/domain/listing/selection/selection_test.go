package selection

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kailas-cloud/bizlist/internal/domain"
	"github.com/kailas-cloud/bizlist/internal/domain/business"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/filter"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
)

func signature(s Selection) string {
	parts := make([]string, 0, len(s.Clauses()))
	for _, c := range s.Clauses() {
		parts = append(parts, fmt.Sprintf("%s:%s%s", c.Kind(), c.Value(), c.Source()))
	}
	return strings.Join(parts, ",")
}

func TestCompose_EmptySetIsStatusOnly(t *testing.T) {
	sel := Compose(filter.Set{}, media.Photo)
	clauses := sel.Clauses()
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d", len(clauses))
	}
	if clauses[0].Kind() != KindStatus || clauses[0].Value() != "approved" {
		t.Errorf("unexpected clause %s:%s", clauses[0].Kind(), clauses[0].Value())
	}
	if _, ok := sel.HasChild(); ok {
		t.Error("unexpected has-child clause")
	}
	if _, ok := sel.Sampling(); ok {
		t.Error("composed selection must not carry a sampling")
	}
}

func TestCompose_DistinctClauseListPerSubset(t *testing.T) {
	seen := make(map[string]int)
	for mask := 0; mask < 16; mask++ {
		set := filter.Set{}
		if mask&1 != 0 {
			set = set.WithCategory("defi")
		}
		if mask&2 != 0 {
			set = set.WithTag("nft")
		}
		if mask&4 != 0 {
			set = set.WithChain("solana")
		}
		if mask&8 != 0 {
			set = set.WithHasPhoto(true)
		}
		sel := Compose(set, media.Photo)

		clauses := sel.Clauses()
		if clauses[0].Kind() != KindStatus {
			t.Errorf("mask %04b: first clause is %s", mask, clauses[0].Kind())
		}
		wantLen := 1
		for b := mask; b != 0; b >>= 1 {
			wantLen += b & 1
		}
		if len(clauses) != wantLen {
			t.Errorf("mask %04b: %d clauses, want %d", mask, len(clauses), wantLen)
		}
		sig := signature(sel)
		if prev, dup := seen[sig]; dup {
			t.Errorf("mask %04b and %04b compose to the same clauses %q", mask, prev, sig)
		}
		seen[sig] = mask
	}
	if len(seen) != 16 {
		t.Errorf("expected 16 distinct clause lists, got %d", len(seen))
	}
}

func TestCompose_HasPhotoFalseAddsNothing(t *testing.T) {
	sel := Compose(filter.Set{}.WithHasPhoto(false), media.Photo)
	if len(sel.Clauses()) != 1 {
		t.Errorf("expected status clause only, got %q", signature(sel))
	}
}

func TestCompose_HasChildCarriesSource(t *testing.T) {
	sel := Compose(filter.Set{}.WithHasPhoto(true), media.Photo)
	src, ok := sel.HasChild()
	if !ok || src != media.Photo {
		t.Errorf("HasChild() = %q, %v", src, ok)
	}
}

func TestClausesReturnsCopy(t *testing.T) {
	sel := Compose(filter.Set{}.WithTag("nft"), media.Photo)
	c := sel.Clauses()
	c[0] = Clause{kind: KindChain, value: "x"}
	if sel.Clauses()[0].Kind() != KindStatus {
		t.Error("Clauses() exposed internal slice")
	}
}

func TestMatches(t *testing.T) {
	withPhoto := map[int64]bool{1: true}
	hasChild := func(id int64, src media.Source) bool { return src == media.Photo && withPhoto[id] }

	approved := business.Business{
		ID: 1, Status: business.Approved, Category: "defi",
		Tags: []string{"nft"}, Types: []string{"dex"}, Chains: []string{"solana"},
	}
	pending := approved
	pending.Status = business.Pending
	noPhoto := approved
	noPhoto.ID = 2

	tests := []struct {
		name string
		set  filter.Set
		b    business.Business
		want bool
	}{
		{"no filters", filter.Set{}, approved, true},
		{"pending never matches", filter.Set{}, pending, false},
		{"category hit", filter.Set{}.WithCategory("defi"), approved, true},
		{"category miss", filter.Set{}.WithCategory("games"), approved, false},
		{"tag in tags", filter.Set{}.WithTag("nft"), approved, true},
		{"tag in types", filter.Set{}.WithTag("dex"), approved, true},
		{"tag miss", filter.Set{}.WithTag("dao"), approved, false},
		{"chain hit", filter.Set{}.WithChain("solana"), approved, true},
		{"chain miss", filter.Set{}.WithChain("ethereum"), approved, false},
		{"has photo", filter.Set{}.WithHasPhoto(true), approved, true},
		{"has no photo", filter.Set{}.WithHasPhoto(true), noPhoto, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(tt.set, media.Photo).Matches(tt.b, hasChild)
			if got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSample_LimitMandatory(t *testing.T) {
	sel := Compose(filter.Set{}, media.Photo)
	for _, limit := range []int{0, -1} {
		_, err := Sample(sel, Sampling{Limit: limit})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("limit %d: expected ErrValidation, got %v", limit, err)
		}
		_, err = Sample(sel, Sampling{Random: true, Limit: limit})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("random limit %d: expected ErrValidation, got %v", limit, err)
		}
	}
}

func TestSample_DefaultsOrderToID(t *testing.T) {
	sel, err := Sample(Compose(filter.Set{}, media.Photo), Sampling{Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := sel.Sampling()
	if !ok {
		t.Fatal("expected sampling")
	}
	if s.Random || s.Order.Field != FieldID || s.Order.Desc || s.Limit != 5 {
		t.Errorf("unexpected sampling %+v", s)
	}
}

func TestSample_RandomDropsOrder(t *testing.T) {
	sel, err := Sample(Compose(filter.Set{}.WithTag("nft"), media.Photo), Sampling{
		Random: true,
		Order:  Order{Field: FieldName, Desc: true},
		Limit:  3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, _ := sel.Sampling()
	if !s.Random || s.Order != (Order{}) {
		t.Errorf("unexpected sampling %+v", s)
	}
	if len(sel.Clauses()) != 2 {
		t.Error("sampling must keep the filters")
	}
}

func TestSample_InvalidField(t *testing.T) {
	_, err := Sample(Compose(filter.Set{}, media.Photo), Sampling{Order: Order{Field: "rating"}, Limit: 1})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		field, dir string
		want       Order
		wantErr    bool
	}{
		{"", "", Order{Field: FieldID}, false},
		{"name", "desc", Order{Field: FieldName, Desc: true}, false},
		{"CREATED_AT", "ASC", Order{Field: FieldCreatedAt}, false},
		{"rating", "", Order{}, true},
		{"id", "sideways", Order{}, true},
	}
	for _, tt := range tests {
		got, err := ParseOrder(tt.field, tt.dir)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("ParseOrder(%q, %q): expected ErrValidation, got %v", tt.field, tt.dir, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseOrder(%q, %q): %v", tt.field, tt.dir, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOrder(%q, %q) = %+v, want %+v", tt.field, tt.dir, got, tt.want)
		}
	}
}
