package models

// CartItem is one product line in the cart. Quantity is always >= 1 inside
// the engine; an entry dropping to zero is removed instead of stored.
type CartItem struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

// Subtotal returns the line total for this item.
func (i CartItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// CartSnapshot is the immutable cart state handed to subscribers and
// read-side callers. Total and ItemCount are derived, never stored.
type CartSnapshot struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}
