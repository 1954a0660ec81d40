package store

import (
	"fmt"
	"strings"
)

// WhereBuilder assembles a parameterized WHERE clause for PostgreSQL.
// Placeholders are numbered in the order conditions are added.
type WhereBuilder struct {
	conditions []string
	args       []any
	argIndex   int
}

// NewWhereBuilder returns a builder whose first placeholder is $1.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{argIndex: 1}
}

// Add appends "column = $n". Empty values are skipped so optional filters
// can be passed straight through.
func (w *WhereBuilder) Add(column string, value string) {
	if value == "" {
		return
	}
	w.conditions = append(w.conditions, fmt.Sprintf("%s = $%d", column, w.argIndex))
	w.args = append(w.args, value)
	w.argIndex++
}

// AddSearch appends a case-insensitive substring match over one or more SQL
// expressions, OR-ed together and sharing a single placeholder. LIKE
// metacharacters in query are escaped.
func (w *WhereBuilder) AddSearch(query string, exprs ...string) {
	query = strings.TrimSpace(query)
	if query == "" || len(exprs) == 0 {
		return
	}

	parts := make([]string, len(exprs))
	for i, expr := range exprs {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", expr, w.argIndex)
	}
	w.conditions = append(w.conditions, "("+strings.Join(parts, " OR ")+")")
	w.args = append(w.args, "%"+escapeLike(query)+"%")
	w.argIndex++
}

// NextArgIndex returns the number the next placeholder will use.
func (w *WhereBuilder) NextArgIndex() int {
	return w.argIndex
}

// Build returns the clause, with a leading space, and its arguments.
// With no conditions it returns "" and nil.
func (w *WhereBuilder) Build() (string, []any) {
	if len(w.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(w.conditions, " AND "), w.args
}

// quoteIdentifier quotes a PostgreSQL identifier, doubling embedded quotes.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
