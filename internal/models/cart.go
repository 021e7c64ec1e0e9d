package models

// CartLine is a product in the cart with its quantity. Quantity never
// drops below 1 through the quantity control; removal is explicit.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is the line total: unit price times quantity.
func (l CartLine) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

// Cart is the in-memory cart for one browsing session. Nothing persists
// it; a reload starts empty.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Subtotal sums all line totals.
func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, l := range c.Lines {
		sum += l.Subtotal()
	}
	return sum
}

// Count is the total number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}
