// Package view projects persisted entities into external representations.
// Views carry no back-references: a ProductView never names its users and
// no association rows are exposed.
package view

import (
	"fmt"

	"github.com/shopspring/decimal"

	"catalogapi/internal/apperr"
	"catalogapi/internal/model"
)

// ProductView is the external shape of a Product.
type ProductView struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// UserView is the external shape of a User with its linked products.
type UserView struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Products []ProductView `json:"products"`
}

// Product projects a single product.
func Product(p model.Product) ProductView {
	return ProductView{ID: p.ID, Name: p.Name, Price: p.Price}
}

// Products projects a product list. A nil input yields an empty, non-nil slice.
func Products(ps []model.Product) []ProductView {
	out := make([]ProductView, 0, len(ps))
	for _, p := range ps {
		out = append(out, Product(p))
	}
	return out
}

// User projects u, resolving its associations against g.
//
// Every visible user must have at least one product: a user whose resolved
// product list is empty is reported as an integrity error rather than a view
// with no products. An association pointing at a product missing from g is
// an integrity error as well.
func User(u model.User, g *model.Graph) (UserView, error) {
	products := make([]ProductView, 0, len(u.Associations))
	for _, a := range u.Associations {
		if g == nil {
			break
		}
		p, ok := g.Product(a.ProductID)
		if !ok {
			return UserView{}, apperr.Integrity(fmt.Sprintf("user %d references unknown product %d", u.ID, a.ProductID))
		}
		products = append(products, Product(p))
	}
	if len(products) == 0 {
		return UserView{}, apperr.Integrity(fmt.Sprintf("user %d has no products", u.ID))
	}

	return UserView{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Products: products,
	}, nil
}

// Users projects every user in g, in load order. The first integrity
// violation aborts the projection; no partial list is returned.
func Users(g *model.Graph) ([]UserView, error) {
	if g == nil {
		return []UserView{}, nil
	}
	out := make([]UserView, 0, len(g.Users))
	for _, u := range g.Users {
		v, err := User(u, g)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
