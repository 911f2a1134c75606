package sqldb

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/bizlist/internal/db"
	"github.com/kailas-cloud/bizlist/internal/domain"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/filter"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/selection"
	"github.com/kailas-cloud/bizlist/internal/domain/media"
)

func sampledSel(t *testing.T, set filter.Set, sm selection.Sampling) selection.Selection {
	t.Helper()
	sel, err := selection.Sample(selection.Compose(set, media.Photo), sm)
	require.NoError(t, err)
	return sel
}

func TestBuildParentQuery_Postgres(t *testing.T) {
	set := filter.Set{}.WithCategory("defi").WithTag("nft").WithChain("solana").WithHasPhoto(true)
	st, err := buildParentQuery(Postgres{}, sampledSel(t, set, selection.Sampling{
		Order: selection.Order{Field: selection.FieldName, Desc: true},
		Limit: 5,
	}))
	require.NoError(t, err)

	assert.Contains(t, st.SQL, "JOIN media m ON m.business_id = b.id AND m.source = $6")
	assert.Contains(t, st.SQL, "WHERE b.status = $1\n  AND b.main_category = $2\n  AND ($3 = ANY(b.tags) OR $4 = ANY(b.types))\n  AND $5 = ANY(b.chains)")
	assert.Contains(t, st.SQL, "GROUP BY b.id")
	assert.True(t, strings.HasSuffix(st.SQL, "ORDER BY b.name DESC, b.id DESC\nLIMIT $7"), st.SQL)
	assert.Equal(t, []any{"approved", "defi", "nft", "nft", "solana", "Photo", 5}, st.Args)
}

func TestBuildParentQuery_NoFilters(t *testing.T) {
	st, err := buildParentQuery(SQLite{}, sampledSel(t, filter.Set{}, selection.Sampling{Limit: 3}))
	require.NoError(t, err)

	assert.NotContains(t, st.SQL, "JOIN")
	assert.NotContains(t, st.SQL, "GROUP BY")
	assert.Contains(t, st.SQL, "WHERE b.status = ?\nORDER BY b.id ASC\nLIMIT ?")
	assert.Equal(t, []any{"approved", 3}, st.Args)
}

func TestBuildParentQuery_Random(t *testing.T) {
	st, err := buildParentQuery(SQLite{}, sampledSel(t, filter.Set{}.WithTag("dex"), selection.Sampling{Random: true, Limit: 2}))
	require.NoError(t, err)

	assert.Contains(t, st.SQL, "json_each(b.tags)")
	assert.Contains(t, st.SQL, "json_each(b.types)")
	assert.Contains(t, st.SQL, "ORDER BY RANDOM()")
}

func TestBuildParentQuery_Unsampled(t *testing.T) {
	_, err := buildParentQuery(Postgres{}, selection.Compose(filter.Set{}, media.Photo))
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.True(t, errors.Is(err, db.ErrNotSampled))
}

func TestBuildChildQuery(t *testing.T) {
	pg := buildChildQuery(Postgres{}, []int64{3, 1}, selection.ChildPredicate{Source: media.Photo, PerParent: 3})
	assert.Contains(t, pg.SQL, "m.business_id = ANY($1::bigint[])\n  AND m.source = $2")
	assert.Contains(t, pg.SQL, "ROW_NUMBER() OVER (PARTITION BY m.business_id ORDER BY m.id)")
	assert.Contains(t, pg.SQL, "WHERE rn <= 3")
	assert.True(t, strings.HasSuffix(pg.SQL, "ORDER BY business_id, id"))
	assert.Equal(t, []any{[]int64{3, 1}, "Photo"}, pg.Args)

	lite := buildChildQuery(SQLite{}, []int64{3, 1}, selection.ChildPredicate{Source: media.Photo})
	assert.Contains(t, lite.SQL, "m.business_id IN (?, ?)")
	assert.NotContains(t, lite.SQL, "ROW_NUMBER")
	assert.Equal(t, []any{int64(3), int64(1), "Photo"}, lite.Args)
}

func TestDialectFor(t *testing.T) {
	for _, name := range []string{"postgres", "pgx", "sqlite"} {
		_, err := DialectFor(name)
		assert.NoError(t, err, name)
	}
	_, err := DialectFor("mysql")
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)", sqliteDSN(":memory:"))
	assert.Equal(t, "file:x.db?mode=rw&_pragma=foreign_keys(1)", sqliteDSN("file:x.db?mode=rw"))
	assert.Equal(t, "x.db?_pragma=foreign_keys(0)", sqliteDSN("x.db?_pragma=foreign_keys(0)"))
}
