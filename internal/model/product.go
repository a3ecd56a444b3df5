package model

import "github.com/shopspring/decimal"

// Product is a catalog item. Price is stored as decimal(18,2).
type Product struct {
	ID           int64
	Name         string
	Price        decimal.Decimal
	Associations []UserProduct
}

const (
	// ProductNameMinLen is the minimum length of a product name accepted on create/update.
	ProductNameMinLen = 3
	// PriceScale is the number of fractional digits persisted for a price.
	PriceScale = 2
)

// Linked reports whether any user still references the product.
func (p Product) Linked() bool {
	return len(p.Associations) > 0
}
