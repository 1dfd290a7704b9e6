package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/producthub/internal/domain/product"
)

var ErrInvalidSort = errors.New("invalid sort")

// sortable maps accepted sort fields to their column names.
var sortable = map[string]string{
	"id":      "id",
	"name":    "name",
	"price":   "price",
	"sku":     "sku",
	"barcode": "barcode",
}

func DefaultSort() []product.SortOrder {
	return []product.SortOrder{{Field: "name"}}
}

// ParseSort accepts repeated "field[,asc|desc]" values. An empty input yields
// the default ordering by name ascending.
func ParseSort(values []string) ([]product.SortOrder, error) {
	orders := make([]product.SortOrder, 0, len(values))
	seen := make(map[string]bool, len(values))

	for _, raw := range values {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		field, dir, _ := strings.Cut(raw, ",")
		field = strings.ToLower(strings.TrimSpace(field))
		dir = strings.ToLower(strings.TrimSpace(dir))

		if _, ok := sortable[field]; !ok {
			return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidSort, field)
		}

		var desc bool
		switch dir {
		case "", "asc":
		case "desc":
			desc = true
		default:
			return nil, fmt.Errorf("%w: unknown direction %q", ErrInvalidSort, dir)
		}

		if seen[field] {
			continue
		}
		seen[field] = true

		orders = append(orders, product.SortOrder{Field: field, Desc: desc})
	}

	if len(orders) == 0 {
		return DefaultSort(), nil
	}

	return orders, nil
}

// SortColumn returns the column for a validated field.
func SortColumn(field string) (string, bool) {
	col, ok := sortable[field]
	return col, ok
}

// OrderByClause renders validated orders as SQL, always ending on id so pages
// stay stable when the sort key has duplicates.
func OrderByClause(orders []product.SortOrder, qualifier string) string {
	parts := make([]string, 0, len(orders)+1)
	hasID := false

	for _, o := range orders {
		col, ok := SortColumn(o.Field)
		if !ok {
			continue
		}
		if col == "id" {
			hasID = true
		}

		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, qualifier+col+" "+dir)
	}

	if !hasID {
		parts = append(parts, qualifier+"id ASC")
	}

	return strings.Join(parts, ", ")
}
