package redis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/bizlist/internal/domain/listing/selection"
)

type searchEntry struct {
	Key    string
	Fields map[string]string
}

// parseListResult reads an FT.SEARCH reply: [total, key1, fields1, key2, fields2, ...].
func parseListResult(raw []rueidis.RedisMessage) (int, []searchEntry, error) {
	if len(raw) == 0 {
		return 0, nil, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, nil, fmt.Errorf("parse total: %w", err)
	}

	entries := make([]searchEntry, 0, len(raw)/2)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		entries = append(entries, searchEntry{Key: key, Fields: parseFieldPairs(fields)})
	}
	return int(total), entries, nil
}

// parseAggregateRows reads an FT.AGGREGATE reply: [total, row1, row2, ...]
// where each row is a flat field/value array.
func parseAggregateRows(raw []rueidis.RedisMessage) ([]map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if _, err := raw[0].AsInt64(); err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	rows := make([]map[string]string, 0, len(raw)-1)
	for _, m := range raw[1:] {
		fields, err := m.ToArray()
		if err != nil {
			continue
		}
		rows = append(rows, parseFieldPairs(fields))
	}
	return rows, nil
}

// parseCursorReply reads an FT.AGGREGATE WITHCURSOR or FT.CURSOR READ reply:
// [[total, row1, row2, ...], cursor]. A zero cursor means the scan is done.
func parseCursorReply(raw []rueidis.RedisMessage) ([]map[string]string, int64, error) {
	if len(raw) != 2 {
		return nil, 0, fmt.Errorf("unexpected cursor reply length %d", len(raw))
	}
	page, err := raw[0].ToArray()
	if err != nil {
		return nil, 0, fmt.Errorf("parse cursor page: %w", err)
	}
	rows, err := parseAggregateRows(page)
	if err != nil {
		return nil, 0, err
	}
	cursor, err := raw[1].AsInt64()
	if err != nil {
		return nil, 0, fmt.Errorf("parse cursor id: %w", err)
	}
	return rows, cursor, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Query building ---

// buildParentQuery renders the filter clauses of a selection as an FT.SEARCH query.
// The has-child clause is resolved separately and passed in as owner ids.
func buildParentQuery(sel selection.Selection, owners []int64) string {
	var parts []string
	for _, c := range sel.Clauses() {
		switch c.Kind() {
		case selection.KindStatus:
			parts = append(parts, buildTagFilter(fieldStatus, c.Value()))
		case selection.KindCategory:
			parts = append(parts, buildTagFilter(fieldCategory, c.Value()))
		case selection.KindTag:
			parts = append(parts, buildTagFilter(fieldTagSet, c.Value()))
		case selection.KindChain:
			parts = append(parts, buildTagFilter(fieldChains, c.Value()))
		case selection.KindHasChild:
			parts = append(parts, buildIDSetFilter(fieldBID, owners))
		}
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

func buildTagFilter(key, value string) string {
	return fmt.Sprintf("@%s:{%s}", key, tagEscaper.Replace(value))
}

func buildIDSetFilter(key string, ids []int64) string {
	vals := make([]string, len(ids))
	for i, id := range ids {
		vals[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("@%s:{%s}", key, strings.Join(vals, " | "))
}

func sortArgs(o selection.Order) []string {
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	if o.Field == selection.FieldID || o.Field == "" {
		return []string{"SORTBY", "2", "@" + fieldID, dir}
	}
	return []string{"SORTBY", "4", "@" + string(o.Field), dir, "@" + fieldID, dir}
}

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)
