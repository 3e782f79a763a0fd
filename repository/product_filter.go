package repository

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ProductFilter narrows the catalogue listing. Zero values mean "no filter".
type ProductFilter struct {
	Search      string
	CategoryID  string
	MinPrice    *float64
	MaxPrice    *float64
	InStockOnly bool
	SortBy      string // created_at | price | name
	Order       string // asc | desc
	Limit       int
	Offset      int
}

const maxPageSize = 100

var sortColumns = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"name":       "name",
}

// ParseProductFilter reads the listing query string. Unknown sort columns
// fall back to created_at; bad numbers are rejected with ErrInvalidInput.
func ParseProductFilter(q url.Values) (ProductFilter, error) {
	f := ProductFilter{
		Search:      strings.TrimSpace(q.Get("search")),
		CategoryID:  strings.TrimSpace(q.Get("category_id")),
		InStockOnly: q.Get("in_stock") == "true",
		SortBy:      q.Get("sort_by"),
		Order:       strings.ToLower(q.Get("order")),
	}

	for key, dst := range map[string]**float64{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
		if v := q.Get(key); v != "" {
			p, err := strconv.ParseFloat(v, 64)
			if err != nil || p < 0 {
				return f, fmt.Errorf("invalid %s: %w", key, ErrInvalidInput)
			}
			*dst = &p
		}
	}
	for key, dst := range map[string]*int{"limit": &f.Limit, "offset": &f.Offset} {
		if v := q.Get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return f, fmt.Errorf("invalid %s: %w", key, ErrInvalidInput)
			}
			*dst = n
		}
	}

	f.normalize()
	return f, nil
}

func (f *ProductFilter) normalize() {
	if _, ok := sortColumns[f.SortBy]; !ok {
		f.SortBy = "created_at"
	}
	if f.Order != "asc" && f.Order != "desc" {
		f.Order = "desc"
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
}

// OrderClause is safe to hand to gorm: both parts come from allow-lists.
func (f ProductFilter) OrderClause() string {
	f.normalize()
	return fmt.Sprintf("%s %s", sortColumns[f.SortBy], f.Order)
}

// Key is a canonical string for the filter, used as a cache key.
func (f ProductFilter) Key() string {
	f.normalize()
	price := func(p *float64) string {
		if p == nil {
			return ""
		}
		return strconv.FormatFloat(*p, 'f', -1, 64)
	}
	return fmt.Sprintf("s=%s|c=%s|min=%s|max=%s|stock=%t|sort=%s|limit=%d|offset=%d",
		strings.ToLower(f.Search), f.CategoryID, price(f.MinPrice), price(f.MaxPrice),
		f.InStockOnly, f.OrderClause(), f.Limit, f.Offset)
}
