package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ProductLookup resolves a product id to its current catalog entry.
type ProductLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

// CartService owns the single cart. Every mutation goes through Dispatch,
// which applies the command under a lock and then writes the new snapshot to
// the storage slot.
type CartService struct {
	store   repositories.SlotStore
	catalog ProductLookup
	logger  *zap.Logger

	mu      sync.RWMutex
	state   models.CartState
	version uint64

	saveMu sync.Mutex
	saved  uint64
}

// NewCartService creates a CartService and restores the cart from store.
// A missing or unreadable snapshot starts an empty cart.
func NewCartService(ctx context.Context, store repositories.SlotStore, catalog ProductLookup, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CartService{
		store:   store,
		catalog: catalog,
		logger:  logger,
	}
	s.state = s.restore(ctx)
	return s
}

func (s *CartService) restore(ctx context.Context) models.CartState {
	data, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, repositories.ErrSlotEmpty) {
			s.logger.Warn("failed to load cart snapshot, starting empty", zap.Error(err))
		}
		return cart.Empty()
	}

	state, err := cart.Restore(data)
	if err != nil {
		s.logger.Warn("discarding unreadable cart snapshot", zap.Error(err), zap.Int("bytes", len(data)))
		return state
	}

	s.logger.Info("cart restored",
		zap.Int("lines", len(state.Lines)),
		zap.Int("itemCount", state.ItemCount),
		zap.String("subtotal", state.Subtotal.StringFixed(2)),
	)
	return state
}

// State returns a copy of the current cart.
func (s *CartService) State() models.CartState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

// Dispatch applies cmd and persists the result. Persistence failures are
// logged; the in-memory state is authoritative.
func (s *CartService) Dispatch(ctx context.Context, cmd cart.Command) models.CartState {
	return s.update(ctx, func(state models.CartState) models.CartState {
		return cart.Apply(state, cmd)
	})
}

// RemoveCharged takes the charged lines out of the cart. When the cart still
// holds exactly those lines it is cleared; otherwise only the charged
// quantities are subtracted, so items added meanwhile stay in the cart.
func (s *CartService) RemoveCharged(ctx context.Context, charged []models.CartLine) models.CartState {
	return s.update(ctx, func(state models.CartState) models.CartState {
		if sameQuantities(state.Lines, charged) {
			return cart.Apply(state, cart.ClearCart{})
		}
		for _, l := range charged {
			current, ok := state.Line(l.Product.ID)
			if !ok {
				continue
			}
			state = cart.Apply(state, cart.UpdateQuantity{ID: l.Product.ID, Quantity: current.Quantity - l.Quantity})
		}
		return state
	})
}

// update runs fn under the write lock and persists its result as one version.
func (s *CartService) update(ctx context.Context, fn func(models.CartState) models.CartState) models.CartState {
	s.mu.Lock()
	s.state = fn(s.state)
	s.version++
	version := s.version
	next := copyState(s.state)
	s.mu.Unlock()

	s.persist(ctx, version, next)
	return next
}

// persist writes state unless a newer version has already been written.
func (s *CartService) persist(ctx context.Context, version uint64, state models.CartState) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if version <= s.saved {
		return
	}
	s.saved = version

	data, err := cart.Encode(state)
	if err != nil {
		s.logger.Error("failed to encode cart snapshot", zap.Error(err))
		return
	}
	if err := s.store.Save(ctx, data); err != nil {
		s.logger.Warn("failed to save cart snapshot", zap.Error(err), zap.Uint64("version", version))
	}
}

// AddProduct adds one unit of the catalog product id.
func (s *CartService) AddProduct(ctx context.Context, id int64) (models.CartState, error) {
	product, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return s.State(), fmt.Errorf("failed to add product %d: %w", id, err)
	}
	return s.Dispatch(ctx, cart.AddToCart{Product: *product}), nil
}

// Remove drops the line for id.
func (s *CartService) Remove(ctx context.Context, id int64) models.CartState {
	return s.Dispatch(ctx, cart.RemoveFromCart{ID: id})
}

// UpdateQuantity sets the quantity for id; zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, id int64, quantity int) models.CartState {
	return s.Dispatch(ctx, cart.UpdateQuantity{ID: id, Quantity: quantity})
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context) models.CartState {
	return s.Dispatch(ctx, cart.ClearCart{})
}

// TogglePanel flips the cart panel visibility.
func (s *CartService) TogglePanel(ctx context.Context) models.CartState {
	return s.Dispatch(ctx, cart.ToggleCartPanel{})
}

func sameQuantities(lines, charged []models.CartLine) bool {
	if len(lines) != len(charged) {
		return false
	}
	for i := range lines {
		if lines[i].Product.ID != charged[i].Product.ID || lines[i].Quantity != charged[i].Quantity {
			return false
		}
	}
	return true
}

func copyState(state models.CartState) models.CartState {
	lines := make([]models.CartLine, len(state.Lines))
	copy(lines, state.Lines)
	state.Lines = lines
	return state
}
