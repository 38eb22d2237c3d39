// Package sqlbuilder holds the goqu helpers shared by the repositories.
// Every statement is built for the postgres dialect with prepared
// placeholders so values never end up inside the SQL text.
package sqlbuilder

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the dialect
	"github.com/doug-martin/goqu/v9/exp"

	"library-backend/internal/shared/pagination"
)

const dialectPostgres = "postgres"

// Dialect is the statement builder used by every repository.
var Dialect = goqu.Dialect(dialectPostgres)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE wildcards in s so that it matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ContainsFold is a case-insensitive substring match on col. Blank values
// return nil so callers can append unconditionally.
func ContainsFold(col exp.IdentifierExpression, value string) exp.Expression {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return col.ILike("%" + EscapeLike(value) + "%")
}

// Where appends the non-nil expressions to ds as one AND-ed predicate.
func Where(ds *goqu.SelectDataset, exprs ...exp.Expression) *goqu.SelectDataset {
	kept := make([]exp.Expression, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		return ds
	}
	return ds.Where(goqu.And(kept...))
}

// Page applies the limit and offset of p.
func Page(ds *goqu.SelectDataset, p pagination.Params) *goqu.SelectDataset {
	return ds.Limit(uint(p.Limit)).Offset(uint(p.Skip))
}

// NewestFirst orders by created_at DESC then id DESC on table.
func NewestFirst(ds *goqu.SelectDataset, table string) *goqu.SelectDataset {
	t := goqu.T(table)
	return ds.Order(t.Col("created_at").Desc(), t.Col("id").Desc())
}

// ToSQL renders a prepared statement and its arguments.
func ToSQL(ds *goqu.SelectDataset) (string, []interface{}, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build query: %w", err)
	}
	return query, args, nil
}
