package product

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage_Totals(t *testing.T) {
	tests := []struct {
		name      string
		req       PageRequest
		total     int
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{name: "first of two", req: PageRequest{Page: 0, Size: 3}, total: 5, wantPages: 2, wantNext: true},
		{name: "last of two", req: PageRequest{Page: 1, Size: 3}, total: 5, wantPages: 2, wantPrev: true},
		{name: "exact fit", req: PageRequest{Page: 0, Size: 5}, total: 5, wantPages: 1},
		{name: "empty", req: PageRequest{Page: 0, Size: 10}, total: 0, wantPages: 0},
		{name: "last possible page number", req: PageRequest{Page: math.MaxInt, Size: 1}, total: 5, wantPages: 5, wantPrev: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage(nil, tt.req, tt.total)

			assert.NotNil(t, p.Items)
			assert.Equal(t, tt.total, p.TotalElements)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantNext, p.HasNext())
			assert.Equal(t, tt.wantPrev, p.HasPrevious())
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	tests := []struct {
		name       string
		req        PageRequest
		total      int
		wantOffset int
		wantOK     bool
	}{
		{name: "first page", req: PageRequest{Page: 0, Size: 10}, total: 3, wantOffset: 0, wantOK: true},
		{name: "partial last page", req: PageRequest{Page: 1, Size: 3}, total: 5, wantOffset: 3, wantOK: true},
		{name: "one past the end", req: PageRequest{Page: 2, Size: 3}, total: 6},
		{name: "no rows", req: PageRequest{Page: 0, Size: 10}, total: 0},
		{name: "page times size overflows", req: PageRequest{Page: math.MaxInt/10 + 1, Size: 10}, total: 3},
		{name: "max page number", req: PageRequest{Page: math.MaxInt, Size: 100}, total: 3},
		{name: "zero size", req: PageRequest{Page: 0, Size: 0}, total: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, ok := tt.req.Offset(tt.total)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestHasSKUOrBarcode(t *testing.T) {
	assert.True(t, ProductRequest{SKU: "S-1"}.HasSKUOrBarcode())
	assert.True(t, ProductRequest{Barcode: "123"}.HasSKUOrBarcode())
	assert.False(t, ProductRequest{SKU: "  ", Barcode: "\t"}.HasSKUOrBarcode())
}

func TestNewFromRequest_TrimsAndRounds(t *testing.T) {
	p := NewFromRequest(ProductRequest{
		Name:    "  Phone ",
		Price:   19.999,
		SKU:     " S-1 ",
		Barcode: "123",
	}, Category{ID: 7, Name: "Electronics"})

	assert.Zero(t, p.ID)
	assert.Equal(t, "Phone", p.Name)
	assert.Equal(t, "S-1", p.SKU)
	assert.Equal(t, 20.0, p.Price)
	assert.Equal(t, int64(7), p.Category.ID)
}
