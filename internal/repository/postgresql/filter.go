package postgresql

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/pagination"
)

// columnSet maps logical filter fields to qualified SQL columns. Fields not in
// the set are rejected so filters never reach SQL unescaped.
type columnSet map[string]string

func (c columnSet) column(field string) (string, error) {
	col, ok := c[field]
	if !ok {
		return "", fmt.Errorf("unknown filter field %q", field)
	}
	return col, nil
}

// buildWhere renders the filter as a WHERE clause, appending its arguments to
// args and numbering placeholders after them.
func buildWhere(filter *pagination.Filter, columns columnSet, args []interface{}) (string, []interface{}, error) {
	conds := filter.Conditions()
	if len(conds) == 0 {
		return "", args, nil
	}

	clauses := make([]string, 0, len(conds))
	for _, c := range conds {
		if c.Op == pagination.OpSearch {
			args = append(args, "%"+escapeLike(c.Value.(string))+"%")
			argIdx := len(args)

			parts := make([]string, 0, len(c.Fields))
			for _, field := range c.Fields {
				col, err := columns.column(field)
				if err != nil {
					return "", nil, err
				}
				parts = append(parts, fmt.Sprintf("%s ILIKE $%d", col, argIdx))
			}
			clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
			continue
		}

		col, err := columns.column(c.Field)
		if err != nil {
			return "", nil, err
		}

		switch c.Op {
		case pagination.OpEqual:
			args = append(args, c.Value)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", col, len(args)))
		case pagination.OpGreaterOrEqual:
			args = append(args, c.Value)
			clauses = append(clauses, fmt.Sprintf("%s >= $%d", col, len(args)))
		case pagination.OpLessOrEqual:
			args = append(args, c.Value)
			clauses = append(clauses, fmt.Sprintf("%s <= $%d", col, len(args)))
		case pagination.OpBetween:
			args = append(args, c.Value, c.Upper)
			clauses = append(clauses, fmt.Sprintf("%s BETWEEN $%d AND $%d", col, len(args)-1, len(args)))
		default:
			return "", nil, fmt.Errorf("unsupported filter operator %q", c.Op)
		}
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// buildOrderBy renders orders, falling back when none are given.
func buildOrderBy(orders []pagination.Order, columns columnSet, fallback string) (string, error) {
	if len(orders) == 0 {
		return " ORDER BY " + fallback, nil
	}

	parts := make([]string, 0, len(orders))
	for _, o := range orders {
		col, err := columns.column(o.Field)
		if err != nil {
			return "", err
		}
		dir := "ASC"
		if o.Direction == pagination.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// buildLimit renders LIMIT/OFFSET for bounded queries.
func buildLimit(q pagination.Query, args []interface{}) (string, []interface{}) {
	if q.Take <= 0 {
		return "", args
	}
	args = append(args, q.Take, q.Skip)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
