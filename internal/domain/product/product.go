package product

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound         = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrBarcodeTaken     = errors.New("barcode already in use")
	ErrCategoryExists   = errors.New("category already exists")
)

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Product struct {
	ID          int64    `json:"id"`
	SKU         string   `json:"sku,omitempty"`
	Barcode     string   `json:"barcode"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Category    Category `json:"category"`
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required,notblank,max=100"`
}

// ProductRequest is the full replacement payload for create and update. The
// struct-level rule that one of sku or barcode is present is registered on the
// binding validator by the HTTP layer.
type ProductRequest struct {
	Name        string           `json:"name" binding:"required,notblank,max=255"`
	Price       float64          `json:"price" binding:"min=0,max=99999999.99"`
	Description string           `json:"description" binding:"max=255"`
	SKU         string           `json:"sku" binding:"max=64"`
	Barcode     string           `json:"barcode" binding:"max=64"`
	Category    *CategoryRequest `json:"category" binding:"required"`
}

// HasSKUOrBarcode reports whether at least one identifier is non-blank.
func (r ProductRequest) HasSKUOrBarcode() bool {
	return strings.TrimSpace(r.SKU) != "" || strings.TrimSpace(r.Barcode) != ""
}

// PageRequest selects one page of products. Sort is already validated and
// normalised by the caller.
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

// PageCount is the number of pages total rows fill at this page size.
func (r PageRequest) PageCount(total int) int {
	if r.Size <= 0 || total <= 0 {
		return 0
	}
	return (total-1)/r.Size + 1
}

// Offset returns the first row of the page, and false when the page lies past
// the last row. It never multiplies an out-of-range page number.
func (r PageRequest) Offset(total int) (int, bool) {
	if r.Page < 0 || r.Page >= r.PageCount(total) {
		return 0, false
	}
	return r.Page * r.Size, true
}

type SortOrder struct {
	Field string
	Desc  bool
}

type Page struct {
	Items         []Product `json:"items"`
	Number        int       `json:"number"`
	Size          int       `json:"size"`
	TotalElements int       `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
}

func NewPage(items []Product, req PageRequest, total int) Page {
	if items == nil {
		items = []Product{}
	}

	return Page{
		Items:         items,
		Number:        req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    req.PageCount(total),
	}
}

func (p Page) HasNext() bool {
	return p.Number < p.TotalPages-1
}

func (p Page) HasPrevious() bool {
	return p.Number > 0
}
