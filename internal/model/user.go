package model

// User is a catalog member. A User owns its association rows; the rows are
// loaded on demand and are empty unless the repository resolved them.
type User struct {
	ID           int64
	Name         string
	Email        string
	Associations []UserProduct
}

// ProductIDs returns the ids of the products linked to the user, in load order.
func (u User) ProductIDs() []int64 {
	ids := make([]int64, 0, len(u.Associations))
	for _, a := range u.Associations {
		ids = append(ids, a.ProductID)
	}
	return ids
}
