package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront-client/store"
)

func openTestSQLite(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "storefront.db"))
	assert.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSQLite_OpenRequiresPath(t *testing.T) {
	_, err := store.OpenSQLite("   ")
	assert.Error(t, err)
}

func TestSQLite_RoundTrip(t *testing.T) {
	st := openTestSQLite(t)
	ctx := context.Background()

	assert.NoError(t, st.Set(ctx, store.KeyCart, []byte(`[{"id":1}]`)))

	got, err := st.Get(ctx, store.KeyCart)
	assert.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":1}]`), got)
}

func TestSQLite_AbsentKeyIsNilNil(t *testing.T) {
	st := openTestSQLite(t)

	got, err := st.Get(context.Background(), store.KeyAuthToken)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_SetOverwrites(t *testing.T) {
	st := openTestSQLite(t)
	ctx := context.Background()

	assert.NoError(t, st.Set(ctx, store.KeyAuthToken, []byte("tok-old")))
	assert.NoError(t, st.Set(ctx, store.KeyAuthToken, []byte("tok-new")))

	got, err := st.Get(ctx, store.KeyAuthToken)
	assert.NoError(t, err)
	assert.Equal(t, "tok-new", string(got))
}

func TestSQLite_Delete(t *testing.T) {
	st := openTestSQLite(t)
	ctx := context.Background()

	assert.NoError(t, st.Set(ctx, store.KeyUserData, []byte(`{}`)))
	assert.NoError(t, st.Delete(ctx, store.KeyUserData))

	got, err := st.Get(ctx, store.KeyUserData)
	assert.NoError(t, err)
	assert.Nil(t, got)

	// deleting again is a no-op
	assert.NoError(t, st.Delete(ctx, store.KeyUserData))
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.db")
	ctx := context.Background()

	first, err := store.OpenSQLite(path)
	assert.NoError(t, err)
	assert.NoError(t, first.Set(ctx, store.KeyCart, []byte(`[]`)))
	assert.NoError(t, first.Close())

	second, err := store.OpenSQLite(path)
	assert.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, store.KeyCart)
	assert.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}
