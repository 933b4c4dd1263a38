package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"storefront-client/models"
	"storefront-client/services"
	"storefront-client/store"
)

func newCart(t *testing.T) (*services.CartService, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return services.NewCartService(st, zap.NewNop()), st
}

func pho() models.CartItem {
	return models.CartItem{ID: 1, Name: "Phở", UnitPrice: 85000}
}

func bunCha() models.CartItem {
	return models.CartItem{ID: 2, Name: "Bún chả", UnitPrice: 65000}
}

func TestCart_AddItem_IncrementsExisting(t *testing.T) {
	cart, _ := newCart(t)

	cart.AddItem(pho())
	cart.AddItem(pho())

	snap := cart.Snapshot()
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, float64(170000), snap.Total)
	assert.Equal(t, 2, snap.ItemCount)
}

func TestCart_TotalTracksEveryMutation(t *testing.T) {
	cart, _ := newCart(t)

	cart.AddItem(pho())
	cart.AddItem(bunCha())
	cart.UpdateQuantity(2, 3)
	cart.RemoveItem(1)

	assert.Equal(t, float64(3*65000), cart.Total())
	assert.Equal(t, 3, cart.ItemCount())

	cart.AddItem(pho())
	assert.Equal(t, float64(3*65000+85000), cart.Total())
}

func TestCart_UpdateQuantity_ZeroOrNegativeRemoves(t *testing.T) {
	cart, _ := newCart(t)

	cart.AddItem(pho())
	cart.UpdateQuantity(1, 0)
	assert.False(t, cart.Contains(1))

	cart.AddItem(pho())
	cart.UpdateQuantity(1, -1)
	assert.False(t, cart.Contains(1))
	assert.True(t, cart.IsEmpty())
}

func TestCart_UpdateQuantity_AbsentIDIsNoop(t *testing.T) {
	cart, _ := newCart(t)

	cart.AddItem(pho())
	cart.UpdateQuantity(99, 5)

	assert.Equal(t, 1, cart.ItemCount())
	assert.Equal(t, 0, cart.Quantity(99))
}

func TestCart_RemoveItem_AbsentIDIsNoop(t *testing.T) {
	cart, _ := newCart(t)

	cart.AddItem(pho())
	cart.RemoveItem(99)

	assert.Equal(t, 1, cart.ItemCount())
	assert.Equal(t, float64(85000), cart.Total())
}

func TestCart_Clear(t *testing.T) {
	cart, _ := newCart(t)

	cart.AddItem(pho())
	cart.AddItem(bunCha())
	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, float64(0), cart.Total())
	assert.Equal(t, 0, cart.ItemCount())
	assert.Empty(t, cart.Items())
}

func TestCart_Subscribe_NotifiesOncePerMutation(t *testing.T) {
	cart, _ := newCart(t)

	var got []models.CartSnapshot
	unsubscribe := cart.Subscribe(func(snap models.CartSnapshot) {
		got = append(got, snap)
	})

	cart.AddItem(pho())
	cart.UpdateQuantity(1, 4)

	assert.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ItemCount)
	assert.Equal(t, 4, got[1].ItemCount)

	unsubscribe()
	cart.Clear()
	assert.Len(t, got, 2)

	// second call must be safe
	unsubscribe()
}

func TestCart_SnapshotIsDefensiveCopy(t *testing.T) {
	cart, _ := newCart(t)
	cart.AddItem(pho())

	items := cart.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, cart.Quantity(1))
}

func TestCart_PersistsAfterEveryMutation(t *testing.T) {
	cart, st := newCart(t)

	cart.AddItem(pho())
	cart.AddItem(bunCha())
	cart.RemoveItem(2)

	data, err := st.Get(context.Background(), store.KeyCart)
	assert.NoError(t, err)

	var items []models.CartItem
	assert.NoError(t, json.Unmarshal(data, &items))
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)
}

func TestCart_RestoresPersistedItems(t *testing.T) {
	st := store.NewMemoryStore()
	first := services.NewCartService(st, zap.NewNop())
	first.AddItem(pho())
	first.AddItem(pho())

	second := services.NewCartService(st, zap.NewNop())
	assert.Equal(t, 2, second.Quantity(1))
	assert.Equal(t, float64(170000), second.Total())
}

func TestCart_CorruptPersistedCartStartsEmpty(t *testing.T) {
	st := store.NewMemoryStore()
	_ = st.Set(context.Background(), store.KeyCart, []byte("{not json"))

	cart := services.NewCartService(st, zap.NewNop())
	assert.True(t, cart.IsEmpty())
}

func TestCart_RestoreDropsNonPositiveQuantities(t *testing.T) {
	st := store.NewMemoryStore()
	items := []models.CartItem{
		{ID: 1, Name: "Phở", UnitPrice: 85000, Quantity: 2},
		{ID: 2, Name: "Bún chả", UnitPrice: 65000, Quantity: 0},
		{ID: 3, Name: "Gỏi cuốn", UnitPrice: 45000, Quantity: -1},
	}
	data, _ := json.Marshal(items)
	_ = st.Set(context.Background(), store.KeyCart, data)

	cart := services.NewCartService(st, zap.NewNop())
	assert.Len(t, cart.Items(), 1)
	assert.Equal(t, 2, cart.Quantity(1))
}

// failingStore rejects writes; the cart must keep working regardless.
type failingStore struct {
	store.Store
}

func (f *failingStore) Set(context.Context, string, []byte) error {
	return assert.AnError
}

func TestCart_PersistFailureDoesNotRollBack(t *testing.T) {
	cart := services.NewCartService(&failingStore{Store: store.NewMemoryStore()}, zap.NewNop())

	cart.AddItem(pho())

	assert.Equal(t, 1, cart.ItemCount())
	assert.Equal(t, float64(85000), cart.Total())
}
