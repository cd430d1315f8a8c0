package models

// CartItem represents a single line in a shopper's cart.
type CartItem struct {
	Product  Product `json:"product" bson:"product"`
	Quantity int     `json:"quantity" bson:"quantity" validate:"gte=1"`
}

// Subtotal is the discounted unit price times quantity.
func (c CartItem) Subtotal() float64 {
	return c.Product.FinalPrice() * float64(c.Quantity)
}

// CartView is the cart as returned to clients.
type CartView struct {
	Items []CartItem `json:"items"`
	Count int        `json:"count"`
	Total float64    `json:"total"`
}
