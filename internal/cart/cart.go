// Package cart holds the cart state machine. Apply is a pure transition
// function: it never mutates its input and always returns a state whose
// totals were recomputed from its lines.
package cart

import (
	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// Command is a cart mutation. The set of commands is closed.
type Command interface {
	command()
}

// AddToCart adds one unit of Product, merging with an existing line.
type AddToCart struct {
	Product models.Product
}

// RemoveFromCart deletes the line for ID. Removing an absent id is a no-op.
type RemoveFromCart struct {
	ID int64
}

// UpdateQuantity sets the quantity of the line for ID.
// A quantity of zero or less removes the line.
type UpdateQuantity struct {
	ID       int64
	Quantity int
}

// ClearCart empties the cart and keeps the panel visibility.
type ClearCart struct{}

// ToggleCartPanel flips the panel visibility flag.
type ToggleCartPanel struct{}

func (AddToCart) command()       {}
func (RemoveFromCart) command()  {}
func (UpdateQuantity) command()  {}
func (ClearCart) command()       {}
func (ToggleCartPanel) command() {}

// Totals are the values derived from cart lines.
type Totals struct {
	Subtotal  decimal.Decimal
	ItemCount int
}

// Empty returns the initial cart state.
func Empty() models.CartState {
	return models.CartState{
		Lines:    []models.CartLine{},
		Subtotal: decimal.Zero,
	}
}

// Derive recomputes the totals from scratch.
func Derive(lines []models.CartLine) Totals {
	t := Totals{Subtotal: decimal.Zero}
	for _, l := range lines {
		t.Subtotal = t.Subtotal.Add(l.Subtotal())
		t.ItemCount += l.Quantity
	}
	return t
}

// Apply returns the state that results from applying cmd to state.
// Unknown commands leave the state unchanged apart from refreshed totals.
func Apply(state models.CartState, cmd Command) models.CartState {
	next := models.CartState{
		Lines:  cloneLines(state.Lines),
		IsOpen: state.IsOpen,
	}

	switch c := cmd.(type) {
	case AddToCart:
		next.Lines = addProduct(next.Lines, c.Product)
	case RemoveFromCart:
		next.Lines = removeLine(next.Lines, c.ID)
	case UpdateQuantity:
		next.Lines = updateQuantity(next.Lines, c.ID, c.Quantity)
	case ClearCart:
		next.Lines = []models.CartLine{}
	case ToggleCartPanel:
		next.IsOpen = !next.IsOpen
	}

	totals := Derive(next.Lines)
	next.Subtotal = totals.Subtotal
	next.ItemCount = totals.ItemCount
	return next
}

func addProduct(lines []models.CartLine, p models.Product) []models.CartLine {
	for i := range lines {
		if lines[i].Product.ID == p.ID {
			lines[i].Quantity++
			return lines
		}
	}
	return append(lines, models.CartLine{Product: p, Quantity: 1})
}

func removeLine(lines []models.CartLine, id int64) []models.CartLine {
	out := lines[:0]
	for _, l := range lines {
		if l.Product.ID != id {
			out = append(out, l)
		}
	}
	return out
}

func updateQuantity(lines []models.CartLine, id int64, quantity int) []models.CartLine {
	if quantity <= 0 {
		return removeLine(lines, id)
	}
	for i := range lines {
		if lines[i].Product.ID == id {
			lines[i].Quantity = quantity
			break
		}
	}
	return lines
}

func cloneLines(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, len(lines))
	copy(out, lines)
	return out
}
