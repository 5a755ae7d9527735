package content

import (
	"context"
	"testing"

	"fleur_back_end/internal/models"
	"fleur_back_end/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCreatesSingletonOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testutil.NewDB(t))

	first, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.HomepageSingletonID, first.ID)
	assert.Equal(t, Defaults.Title, first.Title)

	_, err = repo.Get(ctx)
	require.NoError(t, err)

	var count int64
	repo.db.Model(&models.HomepageContent{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpdateKeepsUntouchedFields(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testutil.NewDB(t))

	title := "  Printemps  "
	offer := "-10% sur les tulipes"
	updated, err := repo.Update(ctx, Patch{Title: &title, SpecialOffer: &offer})
	require.NoError(t, err)
	assert.Equal(t, "Printemps", updated.Title)
	assert.Equal(t, offer, updated.SpecialOffer)
	assert.Equal(t, Defaults.Subtitle, updated.Subtitle)

	got, updatedOld, err := repo.ReplaceHeroImage(ctx, "https://cdn/hero2.jpg")
	require.NoError(t, err)
	assert.Equal(t, "", updatedOld)
	assert.Equal(t, "https://cdn/hero2.jpg", got.HeroImageURL)
	assert.Equal(t, "Printemps", got.Title)

	_, old, err := repo.ReplaceHeroImage(ctx, "https://cdn/hero3.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/hero2.jpg", old)

	var count int64
	repo.db.Model(&models.HomepageContent{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
