package models

import "github.com/shopspring/decimal"

// CartLine is one product-and-quantity entry in the cart.
// Product is a snapshot taken when the line was created.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity" validate:"gte=1"`
}

// Subtotal returns price × quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartState is the full cart. Subtotal and ItemCount are caches that are
// recomputed from Lines after every transition.
type CartState struct {
	Lines     []CartLine      `json:"lines"`
	IsOpen    bool            `json:"isOpen"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"itemCount"`
}

// Line returns the line holding productID, if any.
func (s CartState) Line(productID int64) (CartLine, bool) {
	for _, l := range s.Lines {
		if l.Product.ID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}

// IsEmpty reports whether the cart has no lines.
func (s CartState) IsEmpty() bool {
	return len(s.Lines) == 0
}
