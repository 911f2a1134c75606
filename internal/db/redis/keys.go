package redis

import (
	"strconv"

	"github.com/kailas-cloud/bizlist/internal/db"
)

// tagSep joins multi-valued fields inside a hash and the TAG index.
const tagSep = "|"

type keyspace struct {
	prefix string
}

func newKeyspace(prefix string) keyspace {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return keyspace{prefix: prefix}
}

func (k keyspace) businessPrefix() string { return k.prefix + "b:" }
func (k keyspace) mediaPrefix() string    { return k.prefix + "m:" }
func (k keyspace) businessIndex() string  { return k.prefix + "idx:business" }
func (k keyspace) mediaIndex() string     { return k.prefix + "idx:media" }

func (k keyspace) business(id int64) string {
	return k.businessPrefix() + strconv.FormatInt(id, 10)
}

func (k keyspace) media(id int64) string {
	return k.mediaPrefix() + strconv.FormatInt(id, 10)
}

func (k keyspace) businessSchema() *db.IndexDefinition {
	return db.NewIndex(k.businessIndex()).
		Prefix(k.businessPrefix()).
		TagWithOpts(fieldBID, tagSep, true).
		TagWithOpts(fieldStatus, tagSep, true).
		TagWithOpts(fieldCategory, tagSep, true).
		TagWithOpts(fieldTagSet, tagSep, true).
		TagWithOpts(fieldChains, tagSep, true).
		SortableNumeric(fieldID).
		SortableNumeric(fieldCreatedAt).
		SortableText(fieldName).
		MustBuild()
}

func (k keyspace) mediaSchema() *db.IndexDefinition {
	return db.NewIndex(k.mediaIndex()).
		Prefix(k.mediaPrefix()).
		TagWithOpts(fieldBusinessID, tagSep, true).
		TagWithOpts(fieldSource, tagSep, true).
		SortableNumeric(fieldID).
		MustBuild()
}
