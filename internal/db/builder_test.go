package db

import (
	"testing"
)

func TestIndexBuilder_Businesses(t *testing.T) {
	idx := NewIndex("biz-idx").
		Prefix("biz:b:").
		Tag("status").
		TagWithOpts("tags", "|", true).
		SortableNumeric("id").
		SortableText("name").
		MustBuild()

	if idx.Name != "biz-idx" {
		t.Errorf("name = %q, want biz-idx", idx.Name)
	}
	if len(idx.Fields) != 4 {
		t.Fatalf("fields count = %d, want 4", len(idx.Fields))
	}
	tags := idx.Fields[1]
	if tags.Type != IndexFieldTag || tags.TagSeparator != "|" || !tags.TagCaseSensitive {
		t.Errorf("tags field = %+v", tags)
	}
	if !idx.Fields[2].Sortable || idx.Fields[2].Type != IndexFieldNumeric {
		t.Errorf("id field = %+v, want sortable NUMERIC", idx.Fields[2])
	}
}

func TestIndexBuilder_BuildReturnsCopy(t *testing.T) {
	b := NewIndex("idx").Tag("a")
	first := b.MustBuild()
	b.Tag("b")
	if len(first.Fields) != 1 {
		t.Errorf("built definition changed after builder reuse: %d fields", len(first.Fields))
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		b    *IndexBuilder
	}{
		{"empty name", NewIndex("").Tag("a")},
		{"bad name", NewIndex("biz idx").Tag("a")},
		{"no fields", NewIndex("idx")},
		{"empty field name", NewIndex("idx").Tag("")},
		{"duplicate field", NewIndex("idx").Tag("a").Numeric("a")},
		{"long separator", NewIndex("idx").TagWithOpts("a", "||", false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.b.Build(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestIndexBuilder_MustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewIndex("").MustBuild()
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("media-idx").
		Prefix("biz:m:").
		Tag("source").
		SortableNumeric("id").
		MustBuild()

	want := "FT.CREATE media-idx ON HASH PREFIX biz:m: SCHEMA source TAG id NUMERIC SORTABLE"
	if got := idx.String(); got != want {
		t.Errorf("String() =\n%q\nwant\n%q", got, want)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"biz", "biz:idx", "a_b-c", "X9"}
	for _, s := range valid {
		if !IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = false", s)
		}
	}
	invalid := []string{"", "a b", "a/b", "ü"}
	for _, s := range invalid {
		if IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = true", s)
		}
	}
}
