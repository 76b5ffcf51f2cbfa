package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(store *fakeStore) CatalogService {
	return NewCatalogService(fakeUoW{store}, fakeServices{store}, nil)
}

func TestSeed_IsIdempotent(t *testing.T) {
	store := newFakeStore()
	cat := newCatalog(store)

	res, err := cat.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Created: 4}, *res)

	res, err = cat.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, *res)

	services, err := cat.List(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, services, 4)
}

func TestSeed_RestoresDriftedEntries(t *testing.T) {
	store := newFakeStore()
	store.addService("Corte", 14000, true)
	store.addService("Barba", 13000, false)
	store.addService("Corte + Barba", 1, false)

	res, err := newCatalog(store).Seed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SeedResult{Created: 1, Updated: 2, Reactivated: 2}, *res)

	corte, err := fakeServices{store}.FindByName(context.Background(), nil, "Corte + Barba")
	require.NoError(t, err)
	assert.True(t, corte.Active)
	assert.Equal(t, 17000.0, corte.Price)
}

func TestCreateService(t *testing.T) {
	cat := newCatalog(newFakeStore())

	svc, err := cat.Create(context.Background(), " Afeitado ", 9000)
	require.NoError(t, err)
	assert.Equal(t, "Afeitado", svc.Name)
	assert.True(t, svc.Active)

	_, err = cat.Create(context.Background(), "Afeitado", 9500)
	assert.ErrorIs(t, err, ErrServiceNameTaken)

	_, err = cat.Create(context.Background(), "", 100)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = cat.Create(context.Background(), "Gratis", -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateService(t *testing.T) {
	store := newFakeStore()
	svc := store.addService("Corte", 15000, true)
	store.addService("Barba", 13000, true)
	cat := newCatalog(store)

	inactive := false
	updated, err := cat.Update(context.Background(), svc.ID, ServiceUpdate{Price: floatPtr(16000), Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 16000.0, updated.Price)
	assert.False(t, updated.Active)

	active, err := cat.List(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	_, err = cat.Update(context.Background(), svc.ID, ServiceUpdate{Name: stringPtr("Barba")})
	assert.ErrorIs(t, err, ErrServiceNameTaken)

	_, err = cat.Update(context.Background(), 9999, ServiceUpdate{Price: floatPtr(1)})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = cat.Update(context.Background(), svc.ID, ServiceUpdate{Price: floatPtr(-5)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
