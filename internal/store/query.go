package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

const baseComponentsSelect = `SELECT id, sku, description, brand, unit_cost_minor, created_at, updated_at
FROM components`

const countComponentsSelect = "SELECT COUNT(*) FROM components"

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for a
// component query. It returns two SQL strings (one for the data query,
// one for the count query) and the positional parameters.
func (q *ComponentQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.Brand != nil {
		conditions = append(conditions, fmt.Sprintf("brand = $%d", paramIdx))
		args = append(args, *q.Brand)
		paramIdx++
	}

	if q.SKU != nil {
		conditions = append(conditions, fmt.Sprintf("sku ILIKE $%d", paramIdx))
		args = append(args, "%"+*q.SKU+"%")
		paramIdx++ //nolint:wastedassign // keeps numbering correct if filters are added
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY sku LIMIT %d OFFSET %d",
		baseComponentsSelect, whereClause, limit, offset,
	)

	countSQL = countComponentsSelect + whereClause

	return dataSQL, countSQL, args
}
