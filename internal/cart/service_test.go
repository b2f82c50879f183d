package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	loadFn   func(ctx context.Context, sessionID string) (*Cart, error)
	saveFn   func(ctx context.Context, c *Cart) error
	deleteFn func(ctx context.Context, sessionID string) error
}

func (f *fakeStore) Load(ctx context.Context, sessionID string) (*Cart, error) {
	return f.loadFn(ctx, sessionID)
}

func (f *fakeStore) Save(ctx context.Context, c *Cart) error {
	return f.saveFn(ctx, c)
}

func (f *fakeStore) Delete(ctx context.Context, sessionID string) error {
	return f.deleteFn(ctx, sessionID)
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestGet_MissingCartDegradesToEmpty(t *testing.T) {
	store := &fakeStore{
		loadFn: func(ctx context.Context, sessionID string) (*Cart, error) {
			return nil, ErrNotFound
		},
	}
	svc := NewService(store, testLogger())

	c, err := svc.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", c.SessionID)
	assert.True(t, c.IsEmpty())
}

func TestGet_StoreFailureDegradesToEmpty(t *testing.T) {
	store := &fakeStore{
		loadFn: func(ctx context.Context, sessionID string) (*Cart, error) {
			return nil, errors.New("redis unreachable")
		},
	}
	svc := NewService(store, testLogger())

	c, err := svc.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestAddItem_PersistsMutation(t *testing.T) {
	var saved *Cart
	store := &fakeStore{
		loadFn: func(ctx context.Context, sessionID string) (*Cart, error) {
			return nil, ErrNotFound
		},
		saveFn: func(ctx context.Context, c *Cart) error {
			saved = c
			return nil
		},
	}
	svc := NewService(store, testLogger())

	c, err := svc.AddItem(context.Background(), "sess-1", brakePads(2))
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 2, c.TotalItems())
	assert.Equal(t, c.Lines, saved.Lines)
	assert.False(t, saved.UpdatedAt.IsZero())
}

func TestAddItem_SaveFailure(t *testing.T) {
	store := &fakeStore{
		loadFn: func(ctx context.Context, sessionID string) (*Cart, error) {
			return nil, ErrNotFound
		},
		saveFn: func(ctx context.Context, c *Cart) error {
			return errors.New("redis unreachable")
		},
	}
	svc := NewService(store, testLogger())

	_, err := svc.AddItem(context.Background(), "sess-1", brakePads(1))
	assert.Error(t, err)
}

func TestSetQuantity_ZeroRemovesAndPersists(t *testing.T) {
	existing := &Cart{SessionID: "sess-1"}
	existing.Add(brakePads(3))

	var saved *Cart
	store := &fakeStore{
		loadFn: func(ctx context.Context, sessionID string) (*Cart, error) {
			return existing, nil
		},
		saveFn: func(ctx context.Context, c *Cart) error {
			saved = c
			return nil
		},
	}
	svc := NewService(store, testLogger())

	c, err := svc.SetQuantity(context.Background(), "sess-1", "prod-brake-pads", 0)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.True(t, saved.IsEmpty())
}

func TestRemoveItem(t *testing.T) {
	existing := &Cart{SessionID: "sess-1"}
	existing.Add(brakePads(1))
	existing.Add(oilFilter(1))

	store := &fakeStore{
		loadFn: func(ctx context.Context, sessionID string) (*Cart, error) {
			return existing, nil
		},
		saveFn: func(ctx context.Context, c *Cart) error {
			return nil
		},
	}
	svc := NewService(store, testLogger())

	c, err := svc.RemoveItem(context.Background(), "sess-1", "prod-brake-pads")
	require.NoError(t, err)
	assert.Len(t, c.Lines, 1)
	assert.Equal(t, "prod-oil-filter", c.Lines[0].ProductID)
}

func TestClear(t *testing.T) {
	deleted := ""
	store := &fakeStore{
		deleteFn: func(ctx context.Context, sessionID string) error {
			deleted = sessionID
			return nil
		},
	}
	svc := NewService(store, testLogger())

	require.NoError(t, svc.Clear(context.Background(), "sess-1"))
	assert.Equal(t, "sess-1", deleted)
}

func TestClear_StoreFailure(t *testing.T) {
	store := &fakeStore{
		deleteFn: func(ctx context.Context, sessionID string) error {
			return errors.New("redis unreachable")
		},
	}
	svc := NewService(store, testLogger())

	assert.Error(t, svc.Clear(context.Background(), "sess-1"))
}
