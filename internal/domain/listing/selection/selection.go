// Package selection turns a filter set into backend-neutral listing clauses.
package selection

import (
	"github.com/kailas-cloud/bizlist/internal/domain/business"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/filter"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
)

// Kind tags a Clause variant.
type Kind int

// Clause kinds.
const (
	KindStatus Kind = iota + 1
	KindCategory
	KindTag
	KindChain
	KindHasChild
)

func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindCategory:
		return "category"
	case KindTag:
		return "tag"
	case KindChain:
		return "chain"
	case KindHasChild:
		return "has_child"
	default:
		return "unknown"
	}
}

// Clause is one conjunct of a Selection.
type Clause struct {
	kind   Kind
	value  string
	source media.Source
}

// Kind returns the clause variant.
func (c Clause) Kind() Kind { return c.kind }

// Value returns the compared value (status, category, tag or chain).
func (c Clause) Value() string { return c.value }

// Source returns the child source of a KindHasChild clause.
func (c Clause) Source() media.Source { return c.source }

// Selection is an immutable conjunction of clauses plus an optional sampling.
// Backends must refuse a Selection that was not passed through Sample.
type Selection struct {
	clauses  []Clause
	sampling *Sampling
}

// Compose folds a filter set into a Selection.
// The approved-status clause is always first; absent filters add nothing.
// child is the media source a present has_photo=true filter requires.
func Compose(set filter.Set, child media.Source) Selection {
	clauses := []Clause{{kind: KindStatus, value: string(business.Approved)}}

	if v, ok := set.Category(); ok {
		clauses = append(clauses, Clause{kind: KindCategory, value: v})
	}
	if v, ok := set.Tag(); ok {
		clauses = append(clauses, Clause{kind: KindTag, value: v})
	}
	if v, ok := set.Chain(); ok {
		clauses = append(clauses, Clause{kind: KindChain, value: v})
	}
	if v, ok := set.HasPhoto(); ok && v {
		clauses = append(clauses, Clause{kind: KindHasChild, source: child})
	}
	return Selection{clauses: clauses}
}

// Clauses returns a copy of the clause list.
func (s Selection) Clauses() []Clause {
	out := make([]Clause, len(s.clauses))
	copy(out, s.clauses)
	return out
}

// HasChild returns the child source when the selection requires one.
func (s Selection) HasChild() (media.Source, bool) {
	for _, c := range s.clauses {
		if c.kind == KindHasChild {
			return c.source, true
		}
	}
	return "", false
}

// Sampling returns the ordering and limit, if the selection was sampled.
func (s Selection) Sampling() (Sampling, bool) {
	if s.sampling == nil {
		return Sampling{}, false
	}
	return *s.sampling, true
}

// Matches evaluates the clauses against one business in memory.
// hasChild reports whether the business owns at least one media of the source.
func (s Selection) Matches(b business.Business, hasChild func(id int64, src media.Source) bool) bool {
	for _, c := range s.clauses {
		switch c.kind {
		case KindStatus:
			if string(b.Status) != c.value {
				return false
			}
		case KindCategory:
			if b.Category != c.value {
				return false
			}
		case KindTag:
			if !b.HasTag(c.value) {
				return false
			}
		case KindChain:
			if !b.OnChain(c.value) {
				return false
			}
		case KindHasChild:
			if hasChild == nil || !hasChild(b.ID, c.source) {
				return false
			}
		}
	}
	return true
}

// ChildPredicate narrows the batched child query.
type ChildPredicate struct {
	Source media.Source
	// PerParent is the cap a backend may push down. Zero means no pushdown.
	PerParent int
}
