package repositories

import (
	"context"
	"errors"
)

// DefaultSlot is the key under which the cart snapshot is stored.
const DefaultSlot = "cart"

var ErrSlotEmpty = errors.New("storage slot is empty")

// SlotStore holds a single opaque cart snapshot under a fixed key.
// Load returns ErrSlotEmpty when nothing has been saved yet.
type SlotStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}
