package services

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"storefront-client/models"
	"storefront-client/store"
)

// CartListener receives a snapshot of the cart after every mutation.
type CartListener func(models.CartSnapshot)

// CartService owns the cart line items. Derived totals are recomputed for
// every snapshot, and the full item list is persisted after every mutation.
// Persistence failures are logged and swallowed: the cart stays usable for
// the session even when local storage is unavailable.
type CartService struct {
	mu        sync.Mutex
	items     []models.CartItem
	listeners map[int]CartListener
	nextID    int

	store  store.Store
	logger *zap.Logger
}

// NewCartService restores any persisted cart and returns the engine.
// A corrupt blob is discarded and the cart starts empty; entries persisted
// with a non-positive quantity are dropped on the way in.
func NewCartService(st store.Store, logger *zap.Logger) *CartService {
	s := &CartService{
		listeners: make(map[int]CartListener),
		store:     st,
		logger:    logger,
	}
	s.restore()
	return s
}

func (s *CartService) restore() {
	data, err := s.store.Get(context.Background(), store.KeyCart)
	if err != nil {
		s.logger.Warn("failed to read persisted cart", zap.Error(err))
		return
	}
	if data == nil {
		return
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("discarding corrupt persisted cart", zap.Error(err))
		return
	}

	for _, it := range items {
		if it.Quantity >= 1 {
			s.items = append(s.items, it)
		}
	}
}

// AddItem appends item with quantity 1, or increments the quantity of an
// existing entry with the same id. The incoming quantity field is ignored.
func (s *CartService) AddItem(item models.CartItem) {
	s.mutate(func() {
		for i := range s.items {
			if s.items[i].ID == item.ID {
				s.items[i].Quantity++
				return
			}
		}
		item.Quantity = 1
		s.items = append(s.items, item)
	})
}

// RemoveItem deletes the entry with the given id; absent ids are a no-op.
func (s *CartService) RemoveItem(id int64) {
	s.mutate(func() {
		for i := range s.items {
			if s.items[i].ID == id {
				s.items = append(s.items[:i], s.items[i+1:]...)
				return
			}
		}
	})
}

// UpdateQuantity sets the quantity of the entry with the given id.
// A quantity <= 0 removes the entry; an absent id is a no-op.
func (s *CartService) UpdateQuantity(id int64, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(id)
		return
	}

	s.mutate(func() {
		for i := range s.items {
			if s.items[i].ID == id {
				s.items[i].Quantity = quantity
				return
			}
		}
	})
}

// Clear empties the cart.
func (s *CartService) Clear() {
	s.mutate(func() {
		s.items = nil
	})
}

// mutate applies fn under the lock, then persists and notifies. Listeners
// run synchronously before the mutating call returns, outside the lock so
// they may read the engine freely.
func (s *CartService) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	listeners := make([]CartListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	s.persist(snap.Items)
	for _, l := range listeners {
		l(snap)
	}
}

func (s *CartService) persist(items []models.CartItem) {
	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Warn("failed to encode cart", zap.Error(err))
		return
	}
	if err := s.store.Set(context.Background(), store.KeyCart, data); err != nil {
		s.logger.Warn("failed to persist cart", zap.Error(err))
	}
}

// Subscribe registers a listener notified after every mutation. The
// returned function unregisters it; calling it more than once is safe.
func (s *CartService) Subscribe(listener CartListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = listener

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Snapshot returns the current cart state with derived totals.
func (s *CartService) Snapshot() models.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *CartService) snapshotLocked() models.CartSnapshot {
	items := make([]models.CartItem, len(s.items))
	copy(items, s.items)

	snap := models.CartSnapshot{Items: items}
	for _, it := range items {
		snap.Total += it.Subtotal()
		snap.ItemCount += it.Quantity
	}
	return snap
}

// Items returns a defensive copy of the current line items.
func (s *CartService) Items() []models.CartItem {
	return s.Snapshot().Items
}

// Total returns the sum of unit price times quantity over all items.
func (s *CartService) Total() float64 {
	return s.Snapshot().Total
}

// ItemCount returns the sum of quantities over all items.
func (s *CartService) ItemCount() int {
	return s.Snapshot().ItemCount
}

// IsEmpty reports whether the cart has no items.
func (s *CartService) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// Contains reports whether an entry with the given id is in the cart.
func (s *CartService) Contains(id int64) bool {
	return s.Quantity(id) > 0
}

// Quantity returns the quantity of the entry with the given id, or 0.
func (s *CartService) Quantity(id int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			return s.items[i].Quantity
		}
	}
	return 0
}
