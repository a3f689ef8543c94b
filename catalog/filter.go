// Package catalog filters, sorts and caches the product catalog for the
// storefront.
package catalog

import (
	"sort"
	"strings"

	models "furnisure/model"
)

const (
	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"

	// CategoryAll matches every category.
	CategoryAll = "all"

	DefaultMaxPrice = 100000
)

// Filter is the browse page state. Values within one facet are ORed, facets
// are ANDed. The price range is inclusive.
type Filter struct {
	Search    string
	Category  string
	Materials []string
	Storage   []string
	Brands    []string
	MinPrice  float64
	MaxPrice  float64
	Sort      string
}

// NewFilter returns the cleared filter: any category, [0, 100000], by name.
func NewFilter() Filter {
	return Filter{Category: CategoryAll, MaxPrice: DefaultMaxPrice, Sort: SortName}
}

// ActiveCount counts applied filters the way the sidebar badge does: one per
// selected facet value, one each for search, category and a narrowed price range.
func (f Filter) ActiveCount() int {
	n := len(f.Materials) + len(f.Storage) + len(f.Brands)
	if f.Search != "" {
		n++
	}
	if f.Category != "" && f.Category != CategoryAll {
		n++
	}
	if f.MinPrice > 0 || (f.MaxPrice > 0 && f.MaxPrice < DefaultMaxPrice) {
		n++
	}
	return n
}

func (f Filter) match(p models.Product) bool {
	if q := strings.ToLower(f.Search); q != "" &&
		!strings.Contains(strings.ToLower(p.Name), q) &&
		!strings.Contains(strings.ToLower(p.Brand), q) &&
		!strings.Contains(strings.ToLower(p.RoomType), q) {
		return false
	}
	if f.Category != "" && f.Category != CategoryAll && p.Category != f.Category {
		return false
	}
	if !oneOf(f.Materials, p.PrimaryMaterial) || !oneOf(f.Storage, p.Storage) || !oneOf(f.Brands, p.Brand) {
		return false
	}
	if p.Price < f.MinPrice {
		return false
	}
	// a zero MaxPrice leaves the range open
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	return true
}

func oneOf(selected []string, v string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == v {
			return true
		}
	}
	return false
}

// Apply returns the matching products in the filter's sort order. The input
// slice is left untouched.
func Apply(products []models.Product, f Filter) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.match(p) {
			out = append(out, p)
		}
	}

	var less func(a, b models.Product) bool
	switch f.Sort {
	case SortPriceLow:
		less = func(a, b models.Product) bool { return a.Price < b.Price }
	case SortPriceHigh:
		less = func(a, b models.Product) bool { return a.Price > b.Price }
	case SortRating:
		less = func(a, b models.Product) bool { return a.ProductRating > b.ProductRating }
	default:
		less = func(a, b models.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Facets lists the distinct values the sidebar offers.
type Facets struct {
	Materials []string
	Storage   []string
	Brands    []string
}

func FacetsOf(products []models.Product) Facets {
	return Facets{
		Materials: distinct(products, func(p models.Product) string { return p.PrimaryMaterial }),
		Storage:   distinct(products, func(p models.Product) string { return p.Storage }),
		Brands:    distinct(products, func(p models.Product) string { return p.Brand }),
	}
}

func distinct(products []models.Product, field func(models.Product) string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range products {
		v := field(p)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Suggested picks up to n other products: same category first, then same
// room type, then anything else, each in catalog order.
func Suggested(products []models.Product, current models.Product, n int) []models.Product {
	if n <= 0 {
		return nil
	}
	out := make([]models.Product, 0, n)
	taken := map[string]bool{current.ID: true}
	pass := func(keep func(models.Product) bool) {
		for _, p := range products {
			if len(out) >= n {
				return
			}
			if !taken[p.ID] && keep(p) {
				taken[p.ID] = true
				out = append(out, p)
			}
		}
	}
	pass(func(p models.Product) bool { return p.Category == current.Category })
	pass(func(p models.Product) bool { return p.RoomType == current.RoomType })
	pass(func(models.Product) bool { return true })
	return out
}
