package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"fleur_back_end/internal/apperrors"
	"fleur_back_end/internal/models"
	"fleur_back_end/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func boolPtr(b bool) *bool {
	return &b
}

func newRepo(t *testing.T) *Repository {
	return NewRepository(testutil.NewDB(t))
}

func mainCount(p models.Product) int {
	n := 0
	for _, img := range p.Images {
		if img.IsMain {
			n++
		}
	}
	return n
}

func TestCreateProductImages(t *testing.T) {
	ctx := context.Background()

	t.Run("six images rejected", func(t *testing.T) {
		repo := newRepo(t)
		images := make([]ImageInput, 6)
		for i := range images {
			images[i] = ImageInput{URL: fmt.Sprintf("https://cdn/rose-%d.jpg", i), IsMain: i == 0}
		}

		_, err := repo.Create(ctx, ProductInput{Name: "Roses", Price: dec("1000"), Images: images})

		var ve *apperrors.ValidationError
		require.ErrorAs(t, err, &ve)
		var products, imgs int64
		repo.db.Model(&models.Product{}).Count(&products)
		repo.db.Model(&models.ProductImage{}).Count(&imgs)
		assert.Zero(t, products)
		assert.Zero(t, imgs)
	})

	t.Run("two images without main rejected", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Create(ctx, ProductInput{
			Name:  "Tulipes",
			Price: dec("500"),
			Images: []ImageInput{
				{URL: "https://cdn/a.jpg"},
				{URL: "https://cdn/b.jpg"},
			},
		})
		assert.Equal(t, 400, apperrors.Status(err))
	})

	t.Run("two mains rejected", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Create(ctx, ProductInput{
			Name:  "Tulipes",
			Price: dec("500"),
			Images: []ImageInput{
				{URL: "https://cdn/a.jpg", IsMain: true},
				{URL: "https://cdn/b.jpg", IsMain: true},
			},
		})
		assert.Error(t, err)
	})

	t.Run("flagged image stays the only main", func(t *testing.T) {
		repo := newRepo(t)
		p, err := repo.Create(ctx, ProductInput{
			Name:  "Pivoines",
			Price: dec("1500"),
			Images: []ImageInput{
				{URL: "https://cdn/1.jpg"},
				{URL: "https://cdn/2.jpg", IsMain: true},
				{URL: "https://cdn/3.jpg"},
			},
		})
		require.NoError(t, err)
		require.Len(t, p.Images, 3)
		assert.Equal(t, 1, mainCount(p))
		assert.Equal(t, "https://cdn/2.jpg", p.MainImageURL())
		assert.True(t, p.IsActive)
		assert.Equal(t, "AMD", p.Currency)
	})

	t.Run("no images allowed", func(t *testing.T) {
		repo := newRepo(t)
		p, err := repo.Create(ctx, ProductInput{Name: "Lys", Price: dec("700")})
		require.NoError(t, err)
		assert.Empty(t, p.Images)
		assert.Equal(t, "", p.MainImageURL())
	})
}

func TestSingleMainImage(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	p, err := repo.Create(ctx, ProductInput{Name: "Orchidée", Price: dec("2000")})
	require.NoError(t, err)

	first, err := repo.AddImage(ctx, p.ID, "https://cdn/first.jpg", false)
	require.NoError(t, err)
	assert.True(t, first.IsMain, "la première image devient principale")

	second, err := repo.AddImage(ctx, p.ID, "https://cdn/second.jpg", true)
	require.NoError(t, err)

	_, err = repo.AddImage(ctx, p.ID, "https://cdn/third.jpg", false)
	require.NoError(t, err)

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, mainCount(got))
	assert.Equal(t, "https://cdn/second.jpg", got.MainImageURL())

	require.NoError(t, repo.SetMainImage(ctx, p.ID, first.ID))
	got, _ = repo.Get(ctx, p.ID)
	assert.Equal(t, 1, mainCount(got))
	assert.Equal(t, "https://cdn/first.jpg", got.MainImageURL())

	require.NoError(t, repo.DeleteImage(ctx, p.ID, first.ID))
	got, _ = repo.Get(ctx, p.ID)
	require.Len(t, got.Images, 2)
	assert.Equal(t, 1, mainCount(got))
	assert.Equal(t, second.URL, got.MainImageURL())

	for i := 0; i < 3; i++ {
		_, err = repo.AddImage(ctx, p.ID, fmt.Sprintf("https://cdn/x%d.jpg", i), false)
		require.NoError(t, err)
	}
	_, err = repo.AddImage(ctx, p.ID, "https://cdn/sixth.jpg", true)
	assert.Equal(t, 400, apperrors.Status(err))

	got, _ = repo.Get(ctx, p.ID)
	assert.Len(t, got.Images, 5)
	assert.Equal(t, 1, mainCount(got))

	_, err = repo.AddImage(ctx, uuid.New(), "https://cdn/orphan.jpg", false)
	assert.Equal(t, 404, apperrors.Status(err))
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	mk := func(in ProductInput) models.Product {
		p, err := repo.Create(ctx, in)
		require.NoError(t, err)
		return p
	}
	mk(ProductInput{Name: "Roses Rouges", Price: dec("1000"), SalePrice: decPtr("800"), Category: "bouquets", Colors: Colors{"rouge"}})
	mk(ProductInput{Name: "Roses Blanches", Price: dec("1200"), Category: "bouquets", Colors: Colors{"blanc", "vert"}})
	mk(ProductInput{Name: "Tulipes", Price: dec("500"), Category: "pots", Colors: Colors{"jaune"}})
	mk(ProductInput{Name: "Rose cachée", Price: dec("900"), Category: "bouquets", IsActive: boolPtr(false)})

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all active", Filter{}, []string{"Roses Rouges", "Roses Blanches", "Tulipes"}},
		{"category", Filter{Category: "bouquets"}, []string{"Roses Rouges", "Roses Blanches"}},
		{"color", Filter{Color: "Vert"}, []string{"Roses Blanches"}},
		{"search ignores case", Filter{Search: "ROSES"}, []string{"Roses Rouges", "Roses Blanches"}},
		{"min on effective price", Filter{MinPrice: decPtr("900")}, []string{"Roses Blanches"}},
		{"max on effective price", Filter{MaxPrice: decPtr("800")}, []string{"Roses Rouges", "Tulipes"}},
		{"inactive for admin", Filter{Search: "cachée", IncludeInactive: true}, []string{"Rose cachée"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			var names []string
			for _, p := range page.Products {
				names = append(names, p.Name)
			}
			assert.ElementsMatch(t, tt.want, names)
			assert.Equal(t, int64(len(tt.want)), page.Total)
		})
	}
}

func TestListPagination(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	for i := 0; i < PageSize+2; i++ {
		_, err := repo.Create(ctx, ProductInput{Name: fmt.Sprintf("Fleur %02d", i), Price: dec("100")})
		require.NoError(t, err)
	}

	first, err := repo.List(ctx, Filter{Page: 1})
	require.NoError(t, err)
	assert.Len(t, first.Products, PageSize)
	assert.Equal(t, 2, first.TotalPages)

	second, err := repo.List(ctx, Filter{Page: 2})
	require.NoError(t, err)
	assert.Len(t, second.Products, 2)

	empty, err := repo.List(ctx, Filter{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, empty.Products)
}

func TestFeaturedAndCategories(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	for i := 0; i < 6; i++ {
		_, err := repo.Create(ctx, ProductInput{Name: fmt.Sprintf("Phare %d", i), Price: dec("100"), Featured: true, Category: "bouquets"})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, ProductInput{Name: "Caché", Price: dec("100"), Featured: true, Category: "secret", IsActive: boolPtr(false)})
	require.NoError(t, err)
	_, err = repo.Create(ctx, ProductInput{Name: "Simple", Price: dec("100"), Category: "pots"})
	require.NoError(t, err)

	featured, err := repo.Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, featured, FeaturedLimit)
	for _, p := range featured {
		assert.True(t, p.Featured)
		assert.True(t, p.IsActive)
	}

	cats, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bouquets", "pots"}, cats)
}

func TestFilters(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	empty, err := repo.Filters(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Categories)
	assert.Empty(t, empty.Colors)
	assert.True(t, empty.PriceRange.Min.IsZero())

	_, err = repo.Create(ctx, ProductInput{Name: "Rose", Price: dec("1200"), SalePrice: decPtr("900"), Category: "roses", Colors: Colors{"rouge", "blanc"}})
	require.NoError(t, err)
	_, err = repo.Create(ctx, ProductInput{Name: "Tulipe", Price: dec("400"), Category: "tulipes", Colors: Colors{"jaune", "rouge"}})
	require.NoError(t, err)
	_, err = repo.Create(ctx, ProductInput{Name: "Orchidée", Price: dec("5000"), Category: "orchidees", Colors: Colors{"violet"}, IsActive: boolPtr(false)})
	require.NoError(t, err)

	f, err := repo.Filters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"roses", "tulipes"}, f.Categories)
	assert.Equal(t, []string{"blanc", "jaune", "rouge"}, f.Colors)
	assert.True(t, f.PriceRange.Min.Equal(dec("400")), f.PriceRange.Min.String())
	assert.True(t, f.PriceRange.Max.Equal(dec("900")), f.PriceRange.Max.String())
}

func TestUpdateAndToggle(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	p, err := repo.Create(ctx, ProductInput{Name: "Iris", Price: dec("600"), SalePrice: decPtr("450")})
	require.NoError(t, err)

	colors := ParseColors("Bleu, violet")
	name := "Iris bleus"
	updated, err := repo.Update(ctx, p.ID, ProductPatch{Name: &name, Colors: &colors, ClearSalePrice: true})
	require.NoError(t, err)
	assert.Equal(t, "Iris bleus", updated.Name)
	assert.Equal(t, []string{"bleu", "violet"}, []string(updated.Colors))
	assert.Nil(t, updated.SalePrice)
	assert.True(t, dec("600").Equal(updated.Price))

	bad := dec("0")
	_, err = repo.Update(ctx, p.ID, ProductPatch{Price: &bad})
	assert.Equal(t, 400, apperrors.Status(err))

	_, err = repo.Update(ctx, uuid.New(), ProductPatch{Name: &name})
	assert.Equal(t, 404, apperrors.Status(err))

	toggled, err := repo.ToggleActive(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	_, err = repo.GetActive(ctx, p.ID)
	assert.Equal(t, 404, apperrors.Status(err))

	active, err := repo.FindActive(ctx, []string{p.ID.String(), "pas-un-uuid"})
	require.NoError(t, err)
	assert.Empty(t, active)

	toggled, err = repo.ToggleActive(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
	stored, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, toggled.IsActive, stored.IsActive)
}

func TestDeleteKeepsOrderSnapshots(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	p, err := repo.Create(ctx, ProductInput{
		Name:   "Gerbera",
		Price:  dec("300"),
		Images: []ImageInput{{URL: "https://cdn/g.jpg", IsMain: true}},
	})
	require.NoError(t, err)

	order := models.Order{
		CustomerName:    "Anna",
		CustomerPhone:   "+37455000000",
		DeliveryCity:    "Erevan",
		DeliveryAddress: "Abovyan 1",
		PaymentMethod:   models.PaymentCash,
		TotalAmount:     dec("600"),
		Currency:        "AMD",
		Items: []models.OrderItem{{
			ProductID:       &p.ID,
			ProductName:     p.Name,
			ProductImageURL: "https://cdn/g.jpg",
			UnitPrice:       dec("300"),
			Quantity:        2,
		}},
	}
	require.NoError(t, repo.db.Create(&order).Error)

	require.NoError(t, repo.Delete(ctx, p.ID))

	var item models.OrderItem
	require.NoError(t, repo.db.First(&item, "order_id = ?", order.ID).Error)
	assert.Nil(t, item.ProductID)
	assert.Equal(t, "Gerbera", item.ProductName)
	assert.Equal(t, "https://cdn/g.jpg", item.ProductImageURL)
	assert.True(t, dec("300").Equal(item.UnitPrice))

	var images int64
	repo.db.Model(&models.ProductImage{}).Where("product_id = ?", p.ID).Count(&images)
	assert.Zero(t, images)

	assert.Equal(t, 404, apperrors.Status(repo.Delete(ctx, p.ID)))
}

func TestBulkUpsert(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	_, err := repo.Create(ctx, ProductInput{Name: "Roses", Price: dec("1000")})
	require.NoError(t, err)

	created, updated, err := repo.BulkUpsert(ctx, []ProductInput{
		{Name: "Roses", Price: dec("1100")},
		{Name: "Lilas", Price: dec("400"), Colors: Colors{"mauve"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, updated)

	page, err := repo.List(ctx, Filter{Search: "roses"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.True(t, dec("1100").Equal(page.Products[0].Price))

	_, _, err = repo.BulkUpsert(ctx, []ProductInput{{Name: "", Price: dec("1")}})
	assert.Equal(t, 400, apperrors.Status(err))
}

func TestColorsUnmarshal(t *testing.T) {
	var in struct {
		Colors Colors `json:"colors"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"colors": ["Rouge", " blanc ", "rouge"]}`), &in))
	assert.Equal(t, Colors{"rouge", "blanc"}, in.Colors)

	require.NoError(t, json.Unmarshal([]byte(`{"colors": "rose, ,jaune"}`), &in))
	assert.Equal(t, Colors{"rose", "jaune"}, in.Colors)

	assert.Error(t, json.Unmarshal([]byte(`{"colors": 12}`), &in))
}
