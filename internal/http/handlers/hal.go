package handlers

import (
	"net/url"
	"strconv"

	"github.com/geocoder89/producthub/internal/domain/product"
	"github.com/geocoder89/producthub/internal/utils"
	"github.com/gin-gonic/gin"
)

const productsPath = "/api/products"

type Link struct {
	Href string `json:"href"`
}

type Links map[string]Link

type ProductModel struct {
	product.Product
	Links Links `json:"_links"`
}

type PageMetadata struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

type ProductsEmbedded struct {
	Products []ProductModel `json:"products"`
}

type PageModel struct {
	Embedded ProductsEmbedded `json:"_embedded"`
	Links    Links            `json:"_links"`
	Page     PageMetadata     `json:"page"`
}

// baseURL is scheme://host of the incoming request. X-Forwarded-Proto wins
// over the connection state when a proxy terminates TLS.
func baseURL(ctx *gin.Context) string {
	scheme := "http"
	if ctx.Request.TLS != nil {
		scheme = "https"
	}
	if proto := ctx.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}

	return scheme + "://" + ctx.Request.Host
}

func productHref(base string, id int64) string {
	return base + productsPath + "/" + strconv.FormatInt(id, 10)
}

func toProductModel(base string, p product.Product) ProductModel {
	return ProductModel{
		Product: p,
		Links: Links{
			"self":     {Href: productHref(base, p.ID)},
			"products": {Href: base + productsPath},
		},
	}
}

func pageHref(base string, number, size int, sort []product.SortOrder) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(number))
	q.Set("size", strconv.Itoa(size))

	for _, s := range splitSort(sort) {
		q.Add("sort", s)
	}

	return base + productsPath + "?" + q.Encode()
}

func splitSort(orders []product.SortOrder) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, utils.FormatSort([]product.SortOrder{o}))
	}
	return out
}

func toPageModel(base string, page product.Page, sort []product.SortOrder) PageModel {
	items := make([]ProductModel, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, toProductModel(base, p))
	}

	links := Links{
		"self": {Href: pageHref(base, page.Number, page.Size, sort)},
	}

	if page.TotalPages > 0 {
		links["first"] = Link{Href: pageHref(base, 0, page.Size, sort)}
		links["last"] = Link{Href: pageHref(base, page.TotalPages-1, page.Size, sort)}
	}
	if page.HasPrevious() {
		prev := min(page.Number-1, max(page.TotalPages-1, 0))
		links["prev"] = Link{Href: pageHref(base, prev, page.Size, sort)}
	}
	if page.HasNext() {
		links["next"] = Link{Href: pageHref(base, page.Number+1, page.Size, sort)}
	}

	return PageModel{
		Embedded: ProductsEmbedded{Products: items},
		Links:    links,
		Page: PageMetadata{
			Size:          page.Size,
			TotalElements: page.TotalElements,
			TotalPages:    page.TotalPages,
			Number:        page.Number,
		},
	}
}
