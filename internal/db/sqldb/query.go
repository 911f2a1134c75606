package sqldb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/bizlist/internal/db"
	"github.com/kailas-cloud/bizlist/internal/domain"
	"github.com/kailas-cloud/bizlist/internal/domain/listing/selection"
)

// statement is rendered SQL with its positional arguments.
type statement struct {
	SQL  string
	Args []any
}

type binder struct {
	d    Dialect
	args []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	return b.d.Placeholder(len(b.args))
}

var orderColumns = map[selection.Field]string{
	selection.FieldID:        "b.id",
	selection.FieldName:      "b.name",
	selection.FieldCreatedAt: "b.created_at",
}

func businessColumns(d Dialect) string {
	return strings.Join([]string{
		"b.id",
		"b.created_at",
		"b.name",
		"b.overview",
		"COALESCE(b.token, '')",
		"COALESCE(b.logo, '')",
		"COALESCE(b.website, '')",
		"COALESCE(b.whitepaper_url, '')",
		"COALESCE(b.contract_address, '')",
		"b.main_category",
		d.ArrayJSON("b.tags"),
		d.ArrayJSON("b.types"),
		d.ArrayJSON("b.chains"),
		"b.status",
	}, ",\n       ")
}

// buildParentQuery renders a sampled selection. A has-child clause joins
// media and collapses duplicates with GROUP BY on the business key.
func buildParentQuery(d Dialect, sel selection.Selection) (statement, error) {
	sm, ok := sel.Sampling()
	if !ok {
		return statement{}, fmt.Errorf("%w: %w", domain.ErrValidation, db.ErrNotSampled)
	}

	b := &binder{d: d}
	var (
		join  string
		conds []string
	)
	for _, c := range sel.Clauses() {
		switch c.Kind() {
		case selection.KindStatus:
			conds = append(conds, "b.status = "+b.bind(c.Value()))
		case selection.KindCategory:
			conds = append(conds, "b.main_category = "+b.bind(c.Value()))
		case selection.KindTag:
			conds = append(conds, "("+d.ArrayContains("b.tags", b.bind(c.Value()))+
				" OR "+d.ArrayContains("b.types", b.bind(c.Value()))+")")
		case selection.KindChain:
			conds = append(conds, d.ArrayContains("b.chains", b.bind(c.Value())))
		case selection.KindHasChild:
			join = "\nJOIN media m ON m.business_id = b.id AND m.source = " + b.bind(string(c.Source()))
		default:
			return statement{}, fmt.Errorf("unsupported clause %s", c.Kind())
		}
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(businessColumns(d))
	sb.WriteString("\nFROM business b")
	sb.WriteString(join)
	if len(conds) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(conds, "\n  AND "))
	}
	if join != "" {
		sb.WriteString("\nGROUP BY b.id")
	}
	sb.WriteString("\nORDER BY ")
	sb.WriteString(orderBy(d, sm))
	sb.WriteString("\nLIMIT ")
	sb.WriteString(b.bind(sm.Limit))

	return statement{SQL: sb.String(), Args: b.args}, nil
}

func orderBy(d Dialect, sm selection.Sampling) string {
	if sm.Random {
		return d.Random()
	}
	dir := " ASC"
	if sm.Order.Desc {
		dir = " DESC"
	}
	col, ok := orderColumns[sm.Order.Field]
	if !ok || col == "b.id" {
		return "b.id" + dir
	}
	return col + dir + ", b.id" + dir
}

// buildChildQuery renders the single batched media query. With a cap, the
// ranking window keeps only the lowest PerParent ids of every business.
func buildChildQuery(d Dialect, ids []int64, pred selection.ChildPredicate) statement {
	b := &binder{d: d}
	where := d.InInt64("m.business_id", ids, b.bind) + "\n  AND m.source = " + b.bind(string(pred.Source))

	const cols = "m.id, m.business_id, m.source, m.url, COALESCE(m.path, '') AS path, m.created_at"
	if pred.PerParent <= 0 {
		return statement{
			SQL: "SELECT " + cols + "\nFROM media m\nWHERE " + where +
				"\nORDER BY m.business_id, m.id",
			Args: b.args,
		}
	}

	sql := "SELECT id, business_id, source, url, path, created_at\nFROM (\n" +
		"  SELECT " + cols + ",\n" +
		"         ROW_NUMBER() OVER (PARTITION BY m.business_id ORDER BY m.id) AS rn\n" +
		"  FROM media m\n  WHERE " + where + "\n) ranked\n" +
		"WHERE rn <= " + strconv.Itoa(pred.PerParent) +
		"\nORDER BY business_id, id"
	return statement{SQL: sql, Args: b.args}
}
