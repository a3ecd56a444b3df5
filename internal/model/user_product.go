package model

// UserProduct links one User and one Product. It carries ids only: the
// endpoints are looked up through a Graph, never embedded, so the object
// graph stays acyclic. (UserID, ProductID) is unique.
type UserProduct struct {
	UserID    int64
	ProductID int64
}

// Graph is an id-indexed arena of users and the products their associations
// reference. Users keeps load order; Products is keyed by product id.
type Graph struct {
	Users    []User
	Products map[int64]Product
}

// NewGraph returns an empty Graph ready for loading.
func NewGraph() *Graph {
	return &Graph{Products: make(map[int64]Product)}
}

// Product looks up a product by id.
func (g *Graph) Product(id int64) (Product, bool) {
	p, ok := g.Products[id]
	return p, ok
}
