package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/cache"
	"storefront/internal/images"
	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/store"
)

const (
	featuredCacheKey = "featured_products"
	featuredCacheTTL = time.Hour
	recommendedCount = 4
)

type ProductService struct {
	Products store.ProductStore
	Cache    cache.Cache
	Images   images.Store
}

func (s *ProductService) All(ctx context.Context) ([]models.Product, error) {
	products, err := s.Products.All(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to load products", err)
	}
	return products, nil
}

// Featured reads through the cache. Cache trouble degrades to the store;
// it never fails the request.
func (s *ProductService) Featured(ctx context.Context) ([]models.Product, error) {
	log := logging.FromContext(ctx)

	if raw, err := s.Cache.Get(ctx, featuredCacheKey); err == nil {
		var cached []models.Product
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
		log.Warn("featured products cache held invalid JSON, refreshing", "error", err)
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Warn("featured products cache read failed", "error", err)
	}

	products, err := s.Products.FindFeatured(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to load featured products", err)
	}

	s.storeFeaturedCache(ctx, products)
	return products, nil
}

func (s *ProductService) storeFeaturedCache(ctx context.Context, products []models.Product) {
	raw, err := json.Marshal(products)
	if err != nil {
		logging.FromContext(ctx).Error("failed to encode featured products", "error", err)
		return
	}
	if err := s.Cache.Set(ctx, featuredCacheKey, string(raw), featuredCacheTTL); err != nil {
		logging.FromContext(ctx).Warn("featured products cache write failed", "error", err)
	}
}

func (s *ProductService) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	if category == "" {
		return nil, apperr.New(apperr.Validation, "category is required")
	}
	products, err := s.Products.FindByCategory(ctx, category)
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to load products", err)
	}
	return products, nil
}

func (s *ProductService) Recommendations(ctx context.Context) ([]models.Product, error) {
	products, err := s.Products.Sample(ctx, recommendedCount)
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to load recommendations", err)
	}
	return products, nil
}

// Create validates and stores a new product; image is a data URL uploaded
// to the asset store first.
func (s *ProductService) Create(ctx context.Context, p *models.Product, image string) (*models.Product, error) {
	if err := models.ValidateProduct(p); err != nil {
		return nil, err
	}
	if image == "" {
		return nil, apperr.New(apperr.Validation, "product image is required")
	}

	url, err := s.Images.Upload(ctx, image)
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to upload product image", err)
	}
	p.Image = url

	if err := s.Products.Insert(ctx, p); err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to store product", err)
	}
	return p, nil
}

// ToggleFeatured flips the flag and refreshes the featured cache so the
// storefront sees the change immediately.
func (s *ProductService) ToggleFeatured(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, err := s.Products.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "product not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to load product", err)
	}

	p.IsFeatured = !p.IsFeatured
	if err := s.Products.Save(ctx, p); err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to store product", err)
	}

	featured, err := s.Products.FindFeatured(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("featured cache refresh skipped", "error", err)
		return p, nil
	}
	s.storeFeaturedCache(ctx, featured)
	return p, nil
}

// Delete removes the product and destroys its image asset.
func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	p, err := s.Products.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.New(apperr.NotFound, "product not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.External, "failed to load product", err)
	}

	if p.Image != "" {
		if err := s.Images.Destroy(ctx, p.Image); err != nil {
			// The asset is orphaned, not the product; deletion
			// proceeds.
			logging.FromContext(ctx).Error("failed to destroy product image", "product_id", id.Hex(), "error", err)
		}
	}

	if err := s.Products.Delete(ctx, id); err != nil {
		return apperr.Wrap(apperr.External, "failed to delete product", err)
	}
	return nil
}
