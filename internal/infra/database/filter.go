package database

import (
	"fmt"
	"strings"

	"github.com/xavierca1/buyerleads/internal/entity"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildBuyerWhere renders filter as a WHERE clause (empty when the filter
// matches everything) with positional args starting at $1. It must stay
// equivalent to entity.BuyerFilter.Match.
func buildBuyerWhere(filter entity.BuyerFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	eq := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s::text = $%d", column, len(args)))
	}

	eq("city", filter.City)
	eq("property_type", filter.PropertyType)
	eq("status", filter.Status)
	eq("timeline", filter.Timeline)

	if filter.Query != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Query)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(full_name ILIKE $%d ESCAPE '\' OR phone ILIKE $%d ESCAPE '\' OR email ILIKE $%d ESCAPE '\')`,
			n, n, n,
		))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
