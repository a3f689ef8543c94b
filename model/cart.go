package models

// LineKey identifies a cart line: the same product with and without the set
// option are separate lines.
type LineKey struct {
	ProductID   string
	SelectedSet bool
}

type CartItem struct {
	Product     Product `json:"product"`
	Quantity    int     `json:"quantity"`
	SelectedSet bool    `json:"selected_set"`
}

func (c CartItem) Key() LineKey {
	return LineKey{ProductID: c.Product.ID, SelectedSet: c.SelectedSet}
}

// UnitPrice is the set price when the set is selected and priced, else the list price.
func (c CartItem) UnitPrice() float64 {
	if c.SelectedSet && c.Product.SetPrice != nil && *c.Product.SetPrice != 0 {
		return *c.Product.SetPrice
	}
	return c.Product.Price
}

func (c CartItem) LineTotal() float64 {
	return c.UnitPrice() * float64(c.Quantity)
}
