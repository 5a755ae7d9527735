package cart

import (
	"context"
	"math"
	"testing"
	"time"

	"fleur_back_end/internal/apperrors"
	"fleur_back_end/internal/catalog"
	"fleur_back_end/internal/models"
	"fleur_back_end/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	catalog *catalog.Repository
	store   *DBStore
	svc     *Service
}

func newFixture(t *testing.T) fixture {
	db := testutil.NewDB(t)
	repo := catalog.NewRepository(db)
	store := NewDBStore(db)
	return fixture{db: db, catalog: repo, store: store, svc: NewService(store, repo)}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f fixture) product(t *testing.T, in catalog.ProductInput) models.Product {
	t.Helper()
	p, err := f.catalog.Create(context.Background(), in)
	require.NoError(t, err)
	return p
}

func TestAddAccumulates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, catalog.ProductInput{Name: "Roses", Price: dec("1000")})

	_, err := f.svc.Add(ctx, "v1", p.ID.String(), 2)
	require.NoError(t, err)
	cart, err := f.svc.Add(ctx, "v1", p.ID.String(), 3)
	require.NoError(t, err)

	require.Len(t, cart, 1)
	assert.Equal(t, 5, cart[p.ID.String()].Quantity)

	cart, err = f.svc.Add(ctx, "v1", p.ID.String(), 0)
	require.NoError(t, err)
	assert.Equal(t, 6, cart[p.ID.String()].Quantity, "quantité par défaut 1")

	other, err := f.svc.Entries(ctx, "v2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestQuantityIsCapped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, catalog.ProductInput{Name: "Pivoines", Price: dec("900")})
	id := p.ID.String()

	_, err := f.svc.Add(ctx, "v1", id, math.MaxInt)
	assert.Equal(t, 400, apperrors.Status(err))

	cart, err := f.svc.Add(ctx, "v1", id, models.MaxLineQuantity-1)
	require.NoError(t, err)
	assert.Equal(t, models.MaxLineQuantity-1, cart[id].Quantity)

	_, err = f.svc.Add(ctx, "v1", id, 2)
	assert.Equal(t, 400, apperrors.Status(err))

	cart, err = f.svc.Update(ctx, "v1", id, ActionIncrease)
	require.NoError(t, err)
	assert.Equal(t, models.MaxLineQuantity, cart[id].Quantity)

	_, err = f.svc.Update(ctx, "v1", id, ActionIncrease)
	assert.Equal(t, 400, apperrors.Status(err))
	_, err = f.svc.Add(ctx, "v1", id, 1)
	assert.Equal(t, 400, apperrors.Status(err))

	cart, err = f.svc.Entries(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, models.MaxLineQuantity, cart[id].Quantity)
}

func TestAddRejectsUnavailableProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	off := false
	p := f.product(t, catalog.ProductInput{Name: "Hors saison", Price: dec("100"), IsActive: &off})

	_, err := f.svc.Add(ctx, "v1", p.ID.String(), 1)
	assert.Equal(t, 404, apperrors.Status(err))

	_, err = f.svc.Add(ctx, "v1", "nope", 1)
	assert.Equal(t, 400, apperrors.Status(err))

	_, err = f.svc.Add(ctx, "v1", p.ID.String(), -2)
	assert.Equal(t, 400, apperrors.Status(err))

	cart, err := f.svc.Entries(ctx, "v1")
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestImageSnapshotIsNotResynced(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, catalog.ProductInput{
		Name:   "Pivoines",
		Price:  dec("1500"),
		Images: []catalog.ImageInput{{URL: "https://cdn/old.jpg", IsMain: true}},
	})

	_, err := f.svc.Add(ctx, "v1", p.ID.String(), 1)
	require.NoError(t, err)

	_, err = f.catalog.AddImage(ctx, p.ID, "https://cdn/new.jpg", true)
	require.NoError(t, err)

	cart, err := f.svc.Add(ctx, "v1", p.ID.String(), 1)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/old.jpg", cart[p.ID.String()].Image)

	view, err := f.svc.View(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "https://cdn/old.jpg", view.Items[0].Image)
}

func TestUpdateDecreaseRemovesAtZero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, catalog.ProductInput{Name: "Tulipes", Price: dec("500")})
	id := p.ID.String()

	_, err := f.svc.Add(ctx, "v1", id, 2)
	require.NoError(t, err)

	cart, err := f.svc.Update(ctx, "v1", id, ActionIncrease)
	require.NoError(t, err)
	assert.Equal(t, 3, cart[id].Quantity)

	for i := 0; i < 2; i++ {
		cart, err = f.svc.Update(ctx, "v1", id, ActionDecrease)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, cart[id].Quantity)

	cart, err = f.svc.Update(ctx, "v1", id, ActionDecrease)
	require.NoError(t, err)
	_, present := cart[id]
	assert.False(t, present)

	_, err = f.svc.Update(ctx, "v1", id, ActionDecrease)
	assert.Equal(t, 404, apperrors.Status(err))

	_, err = f.svc.Update(ctx, "v1", id, "double")
	assert.Equal(t, 400, apperrors.Status(err))
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.product(t, catalog.ProductInput{Name: "A", Price: dec("100")})
	b := f.product(t, catalog.ProductInput{Name: "B", Price: dec("200")})

	_, _ = f.svc.Add(ctx, "v1", a.ID.String(), 1)
	_, _ = f.svc.Add(ctx, "v1", b.ID.String(), 1)

	cart, err := f.svc.Remove(ctx, "v1", a.ID.String())
	require.NoError(t, err)
	assert.Len(t, cart, 1)

	cart, err = f.svc.Remove(ctx, "v1", a.ID.String())
	require.NoError(t, err)
	assert.Len(t, cart, 1)

	require.NoError(t, f.svc.Clear(ctx, "v1"))
	cart, err = f.svc.Entries(ctx, "v1")
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestViewScenarioTotals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sale := dec("800")
	a := f.product(t, catalog.ProductInput{Name: "A", Price: dec("1000"), SalePrice: &sale, Category: "bouquets"})
	b := f.product(t, catalog.ProductInput{Name: "B", Price: dec("500")})

	_, err := f.svc.Add(ctx, "v1", a.ID.String(), 2)
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, "v1", b.ID.String(), 1)
	require.NoError(t, err)

	view, err := f.svc.View(ctx, "v1")
	require.NoError(t, err)

	require.Len(t, view.Items, 2)
	assert.True(t, dec("2100").Equal(view.Total), "total %s", view.Total)
	assert.Equal(t, 3, view.Count)

	lineA := view.Items[0]
	assert.Equal(t, "A", lineA.Name)
	assert.Equal(t, "bouquets", lineA.Category)
	assert.True(t, dec("2000").Equal(lineA.Subtotal))
	assert.True(t, dec("1600").Equal(lineA.SaleSubtotal))
	require.NotNil(t, lineA.SalePrice)
	assert.True(t, dec("800").Equal(*lineA.SalePrice))
}

func TestViewSkipsOrphansWithoutMutatingStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	keep := f.product(t, catalog.ProductInput{Name: "Gardée", Price: dec("100")})
	gone := f.product(t, catalog.ProductInput{Name: "Supprimée", Price: dec("200")})
	off := f.product(t, catalog.ProductInput{Name: "Désactivée", Price: dec("300")})

	for _, p := range []models.Product{keep, gone, off} {
		_, err := f.svc.Add(ctx, "v1", p.ID.String(), 1)
		require.NoError(t, err)
	}
	require.NoError(t, f.catalog.Delete(ctx, gone.ID))
	_, err := f.catalog.ToggleActive(ctx, off.ID)
	require.NoError(t, err)

	view, err := f.svc.View(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Gardée", view.Items[0].Name)
	assert.True(t, dec("100").Equal(view.Total))
	assert.Equal(t, 1, view.Count)

	stored, err := f.svc.Entries(ctx, "v1")
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestDBStoreExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	f.store.now = func() time.Time { return now }

	require.NoError(t, f.store.Save(ctx, "v1", models.Cart{"x": {Quantity: 1}}))

	cart, err := f.store.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Len(t, cart, 1)

	require.NoError(t, f.store.Save(ctx, "v1", models.Cart{"x": {Quantity: 4}}))
	cart, _ = f.store.Load(ctx, "v1")
	assert.Equal(t, 4, cart["x"].Quantity)

	now = now.Add(TTL + time.Hour)
	cart, err = f.store.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Empty(t, cart)

	purged, err := f.store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
