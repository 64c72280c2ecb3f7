package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/cache"
	"storefront/internal/images"
	"storefront/internal/models"
	"storefront/internal/store"
)

func newProductFixture(t *testing.T) (*ProductService, *store.MemoryProductStore, *images.Fake) {
	t.Helper()
	products := store.NewMemoryProductStore()
	imgs := images.NewFake()
	svc := &ProductService{Products: products, Cache: cache.NewMemory(), Images: imgs}
	return svc, products, imgs
}

func seedProduct(t *testing.T, products *store.MemoryProductStore, name string, featured bool) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        name,
		Description: "test product",
		Price:       10,
		Image:       "https://assets.example.com/products/" + name + ".jpg",
		Category:    "misc",
		IsFeatured:  featured,
	}
	require.NoError(t, products.Insert(context.Background(), p))
	return p
}

func TestProductCreateUploadsImage(t *testing.T) {
	svc, products, _ := newProductFixture(t)

	p, err := svc.Create(context.Background(), &models.Product{
		Name:        "Lamp",
		Description: "desk lamp",
		Price:       25.50,
		Category:    "lighting",
	}, "data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	require.Contains(t, p.Image, "https://assets.example.com/products/")
	require.False(t, p.ID.IsZero())

	stored, err := products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, p.Image, stored.Image)
}

func TestProductCreateRequiresImage(t *testing.T) {
	svc, _, _ := newProductFixture(t)

	_, err := svc.Create(context.Background(), &models.Product{
		Name:        "Lamp",
		Description: "desk lamp",
		Price:       25.50,
		Category:    "lighting",
	}, "")
	require.Error(t, err)
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestProductCreateUploadFailure(t *testing.T) {
	svc, _, imgs := newProductFixture(t)
	imgs.UploadErr = errors.New("cloudinary down")

	_, err := svc.Create(context.Background(), &models.Product{
		Name:        "Lamp",
		Description: "desk lamp",
		Price:       25.50,
		Category:    "lighting",
	}, "data:image/png;base64,aGVsbG8=")
	require.Error(t, err)
	require.Equal(t, apperr.External, apperr.KindOf(err))
}

func TestProductFeaturedReadsThroughCache(t *testing.T) {
	svc, products, _ := newProductFixture(t)
	seedProduct(t, products, "hot", true)
	seedProduct(t, products, "cold", false)

	featured, err := svc.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, featured, 1)
	require.Equal(t, "hot", featured[0].Name)

	// a direct store write is invisible until the cache entry is refreshed
	seedProduct(t, products, "hot2", true)
	featured, err = svc.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, featured, 1)
}

func TestProductToggleFeaturedRefreshesCache(t *testing.T) {
	svc, products, _ := newProductFixture(t)
	hot := seedProduct(t, products, "hot", true)
	cold := seedProduct(t, products, "cold", false)

	featured, err := svc.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, featured, 1)

	toggled, err := svc.ToggleFeatured(context.Background(), cold.ID)
	require.NoError(t, err)
	require.True(t, toggled.IsFeatured)

	featured, err = svc.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, featured, 2)

	toggled, err = svc.ToggleFeatured(context.Background(), hot.ID)
	require.NoError(t, err)
	require.False(t, toggled.IsFeatured)
}

func TestProductToggleFeaturedNotFound(t *testing.T) {
	svc, _, _ := newProductFixture(t)

	_, err := svc.ToggleFeatured(context.Background(), primitive.NewObjectID())
	require.Error(t, err)
	require.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestProductDeleteDestroysImage(t *testing.T) {
	svc, products, imgs := newProductFixture(t)
	p := seedProduct(t, products, "lamp", false)

	require.NoError(t, svc.Delete(context.Background(), p.ID))
	require.Equal(t, []string{p.Image}, imgs.Destroyed)

	_, err := products.FindByID(context.Background(), p.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestProductDeleteNotFound(t *testing.T) {
	svc, _, _ := newProductFixture(t)

	err := svc.Delete(context.Background(), primitive.NewObjectID())
	require.Error(t, err)
	require.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestProductByCategory(t *testing.T) {
	svc, products, _ := newProductFixture(t)
	seedProduct(t, products, "lamp", false)

	p := &models.Product{Name: "Bulb", Description: "led", Price: 3, Category: "lighting"}
	require.NoError(t, products.Insert(context.Background(), p))

	got, err := svc.ByCategory(context.Background(), "lighting")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Bulb", got[0].Name)

	_, err = svc.ByCategory(context.Background(), "")
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestProductRecommendationsCappedAtFour(t *testing.T) {
	svc, products, _ := newProductFixture(t)
	for i := 0; i < 6; i++ {
		seedProduct(t, products, string(rune('a'+i)), false)
	}

	got, err := svc.Recommendations(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 4)
}
