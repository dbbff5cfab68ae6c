// Package domain holds the storefront's catalog, settings and cart types,
// and the cart engine that mutates carts.
package domain

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultSize is the size offered by products that declare none.
const DefaultSize = "Única"

// MediaType tells the front end how to render a product's media.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Valid reports whether m is a known media type.
func (m MediaType) Valid() bool { return m == MediaImage || m == MediaVideo }

// Category groups products on the storefront. Categories are listed by Order.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"img"`
	Color       string `json:"color"`
	Order       int    `json:"order"`
}

// Product is a catalog item.
type Product struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	MediaURL    string          `json:"media_url"`
	MediaType   MediaType       `json:"media_type"`
	Sizes       []string        `json:"sizes"`
}

// AvailableSizes returns the sizes a shopper may pick, falling back to the
// single DefaultSize when the product declares none.
func (p *Product) AvailableSizes() []string {
	if len(p.Sizes) == 0 {
		return []string{DefaultSize}
	}
	return p.Sizes
}

// DefaultSize is the size preselected for the product.
func (p *Product) DefaultSize() string {
	return p.AvailableSizes()[0]
}

// HasSize reports whether size is one of AvailableSizes.
func (p *Product) HasSize(size string) bool {
	return slices.Contains(p.AvailableSizes(), size)
}

// NormalizeSizes trims entries, drops blanks and duplicates, keeping the
// first occurrence order.
func NormalizeSizes(sizes []string) []string {
	out := make([]string, 0, len(sizes))
	for _, s := range sizes {
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ParseSizes splits a comma separated list such as "S, M, L".
func ParseSizes(csv string) []string {
	return NormalizeSizes(strings.Split(csv, ","))
}

// Catalog is the storefront view: ordered categories plus their products.
type Catalog struct {
	Categories []Category            `json:"categories"`
	Products   map[string][]*Product `json:"products"`
}

// GroupProducts indexes products by category id, keeping input order.
// Every category gets an entry, even when empty.
func GroupProducts(categories []Category, products []*Product) Catalog {
	grouped := make(map[string][]*Product, len(categories))
	for _, c := range categories {
		grouped[c.ID] = []*Product{}
	}
	for _, p := range products {
		grouped[p.CategoryID] = append(grouped[p.CategoryID], p)
	}
	return Catalog{Categories: categories, Products: grouped}
}
