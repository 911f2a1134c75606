// Package filter holds the optional listing predicates supplied by a caller.
package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/bizlist/internal/domain"
)

// Name identifies a recognized filter.
type Name string

// Recognized filter names.
const (
	Category Name = "category"
	Tag      Name = "tag"
	Chain    Name = "chain"
	HasPhoto Name = "has_photo"
)

// Names lists the recognized filters in composition order.
var Names = []Name{Category, Tag, Chain, HasPhoto}

// IsValid checks if the name is a recognized filter.
func (n Name) IsValid() bool {
	return n == Category || n == Tag || n == Chain || n == HasPhoto
}

// Set maps recognized filter names to optional values.
// A missing entry means the filter is absent and constrains nothing.
type Set struct {
	category *string
	tag      *string
	chain    *string
	hasPhoto *bool
}

// New validates raw name/value pairs and builds a Set.
// A nil value (or nil pointer) is treated as absent.
func New(values map[string]any) (Set, error) {
	var s Set
	// sorted for a stable first error
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := Name(k)
		if !name.IsValid() {
			return Set{}, domain.Validationf("unknown filter %q", k)
		}
		v := values[k]
		if v == nil {
			continue
		}
		if name == HasPhoto {
			b, ok, err := asBool(name, v)
			if err != nil {
				return Set{}, err
			}
			if ok {
				s.hasPhoto = &b
			}
			continue
		}
		str, ok, err := asString(name, v)
		if err != nil {
			return Set{}, err
		}
		if !ok {
			continue
		}
		switch name {
		case Category:
			s.category = &str
		case Tag:
			s.tag = &str
		case Chain:
			s.chain = &str
		}
	}
	return s, nil
}

func asString(name Name, v any) (string, bool, error) {
	var str string
	switch t := v.(type) {
	case string:
		str = t
	case *string:
		if t == nil {
			return "", false, nil
		}
		str = *t
	default:
		return "", false, domain.Validationf("filter %q expects a string, got %T", name, v)
	}
	if strings.TrimSpace(str) == "" {
		return "", false, domain.Validationf("filter %q must not be empty", name)
	}
	return str, true, nil
}

func asBool(name Name, v any) (bool, bool, error) {
	switch t := v.(type) {
	case bool:
		return t, true, nil
	case *bool:
		if t == nil {
			return false, false, nil
		}
		return *t, true, nil
	default:
		return false, false, domain.Validationf("filter %q expects a boolean, got %T", name, v)
	}
}

// Category returns the category filter value if present.
func (s Set) Category() (string, bool) { return deref(s.category) }

// Tag returns the tag filter value if present.
func (s Set) Tag() (string, bool) { return deref(s.tag) }

// Chain returns the chain filter value if present.
func (s Set) Chain() (string, bool) { return deref(s.chain) }

// HasPhoto returns the has_photo filter value if present.
func (s Set) HasPhoto() (bool, bool) {
	if s.hasPhoto == nil {
		return false, false
	}
	return *s.hasPhoto, true
}

// Has reports whether the named filter is present.
func (s Set) Has(n Name) bool {
	switch n {
	case Category:
		return s.category != nil
	case Tag:
		return s.tag != nil
	case Chain:
		return s.chain != nil
	case HasPhoto:
		return s.hasPhoto != nil
	}
	return false
}

// IsEmpty reports whether no filter is present.
func (s Set) IsEmpty() bool {
	return s.category == nil && s.tag == nil && s.chain == nil && s.hasPhoto == nil
}

// WithCategory returns a copy with the category filter set.
func (s Set) WithCategory(v string) Set {
	s.category = &v
	return s
}

// WithTag returns a copy with the tag filter set.
func (s Set) WithTag(v string) Set {
	s.tag = &v
	return s
}

// WithChain returns a copy with the chain filter set.
func (s Set) WithChain(v string) Set {
	s.chain = &v
	return s
}

// WithHasPhoto returns a copy with the has_photo filter set.
func (s Set) WithHasPhoto(v bool) Set {
	s.hasPhoto = &v
	return s
}

// Without returns a copy with the named filter removed.
func (s Set) Without(n Name) Set {
	switch n {
	case Category:
		s.category = nil
	case Tag:
		s.tag = nil
	case Chain:
		s.chain = nil
	case HasPhoto:
		s.hasPhoto = nil
	}
	return s
}

func (s Set) String() string {
	var parts []string
	if v, ok := s.Category(); ok {
		parts = append(parts, fmt.Sprintf("category=%s", v))
	}
	if v, ok := s.Tag(); ok {
		parts = append(parts, fmt.Sprintf("tag=%s", v))
	}
	if v, ok := s.Chain(); ok {
		parts = append(parts, fmt.Sprintf("chain=%s", v))
	}
	if v, ok := s.HasPhoto(); ok {
		parts = append(parts, fmt.Sprintf("has_photo=%t", v))
	}
	return strings.Join(parts, "&")
}

func deref(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}
