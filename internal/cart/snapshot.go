package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// SnapshotVersion is the schema version written by Encode.
const SnapshotVersion = 1

var (
	ErrEmptySnapshot   = errors.New("snapshot is empty")
	ErrUnknownVersion  = errors.New("unknown snapshot version")
	ErrDuplicateLine   = errors.New("duplicate product in snapshot")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

var snapshotValidator = models.NewValidator()

type snapshot struct {
	Version   int               `json:"version"`
	Lines     []models.CartLine `json:"lines" validate:"dive"`
	IsOpen    bool              `json:"isOpen"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	ItemCount int               `json:"itemCount"`
}

// Encode serializes state for the storage slot. Totals are written as a
// cache only; Decode never trusts them.
func Encode(state models.CartState) ([]byte, error) {
	totals := Derive(state.Lines)
	lines := state.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	data, err := json.Marshal(snapshot{
		Version:   SnapshotVersion,
		Lines:     lines,
		IsOpen:    state.IsOpen,
		Subtotal:  totals.Subtotal,
		ItemCount: totals.ItemCount,
	})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}
	return data, nil
}

// Decode parses a stored snapshot and recomputes its totals.
func Decode(data []byte) (models.CartState, error) {
	if len(data) == 0 {
		return models.CartState{}, ErrEmptySnapshot
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.CartState{}, fmt.Errorf("json.Unmarshal: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return models.CartState{}, fmt.Errorf("%w: %d", ErrUnknownVersion, snap.Version)
	}
	if err := snapshotValidator.Struct(snap); err != nil {
		return models.CartState{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	seen := make(map[int64]struct{}, len(snap.Lines))
	for _, l := range snap.Lines {
		if _, ok := seen[l.Product.ID]; ok {
			return models.CartState{}, fmt.Errorf("%w: product %d", ErrDuplicateLine, l.Product.ID)
		}
		seen[l.Product.ID] = struct{}{}
	}

	state := models.CartState{
		Lines:  snap.Lines,
		IsOpen: snap.IsOpen,
	}
	if state.Lines == nil {
		state.Lines = []models.CartLine{}
	}
	totals := Derive(state.Lines)
	state.Subtotal = totals.Subtotal
	state.ItemCount = totals.ItemCount
	return state, nil
}

// Restore is Decode that falls back to the empty cart on any failure.
func Restore(data []byte) (models.CartState, error) {
	state, err := Decode(data)
	if err != nil {
		return Empty(), err
	}
	return state, nil
}
