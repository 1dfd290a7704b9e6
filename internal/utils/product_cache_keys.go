package utils

import (
	"strconv"
	"strings"

	"github.com/geocoder89/producthub/internal/domain/product"
)

func BuildProductCacheKey(id int64) string {
	return "products:get:v1:id=" + strconv.FormatInt(id, 10)
}

// BuildProductsPageCacheKey composes page number, size and sort order, so two
// requests share an entry only when they would run the same query.
func BuildProductsPageCacheKey(req product.PageRequest) string {
	return "products:list:v1:page=" + strconv.Itoa(req.Page) +
		":size=" + strconv.Itoa(req.Size) +
		":sort=" + FormatSort(req.Sort)
}

// FormatSort renders orders the way they are accepted on the query string,
// e.g. "name,asc;price,desc".
func FormatSort(orders []product.SortOrder) string {
	parts := make([]string, 0, len(orders))

	for _, o := range orders {
		dir := "asc"
		if o.Desc {
			dir = "desc"
		}
		parts = append(parts, o.Field+","+dir)
	}

	return strings.Join(parts, ";")
}
