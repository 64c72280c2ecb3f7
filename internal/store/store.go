// Package store abstracts the document database. Implementations exist for
// mongo and for memory (tests, local development). Filters stay behind these
// interfaces so services never build queries themselves.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

var (
	ErrNotFound  = errors.New("store: document not found")
	ErrDuplicate = errors.New("store: unique constraint violated")
)

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
	// Save replaces the whole user document; the embedded cart travels
	// with it.
	Save(ctx context.Context, u *models.User) error
	Count(ctx context.Context) (int64, error)
}

type ProductStore interface {
	All(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	FindFeatured(ctx context.Context) ([]models.Product, error)
	FindByCategory(ctx context.Context, category string) ([]models.Product, error)
	Sample(ctx context.Context, n int) ([]models.Product, error)
	Insert(ctx context.Context, p *models.Product) error
	Save(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type CouponStore interface {
	FindActiveByUser(ctx context.Context, userID primitive.ObjectID) (*models.Coupon, error)
	FindActiveByCode(ctx context.Context, code string, userID primitive.ObjectID) (*models.Coupon, error)
	FindByCode(ctx context.Context, code string, userID primitive.ObjectID) (*models.Coupon, error)
	Insert(ctx context.Context, c *models.Coupon) error
	Save(ctx context.Context, c *models.Coupon) error
	// DeactivateByUser clears the isActive flag on every active coupon
	// the user holds. Reports how many documents changed.
	DeactivateByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// DailyStat is one day of the sales aggregation, date formatted YYYY-MM-DD.
type DailyStat struct {
	Date    string  `bson:"_id" json:"date"`
	Sales   int64   `bson:"sales" json:"sales"`
	Revenue float64 `bson:"revenue" json:"revenue"`
}

type OrderStore interface {
	// Insert persists the order; ErrDuplicate when an order for the same
	// payment session already exists.
	Insert(ctx context.Context, o *models.Order) error
	FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
	Count(ctx context.Context) (int64, error)
	// Totals returns order count and revenue sum across all orders.
	Totals(ctx context.Context) (sales int64, revenue float64, err error)
	DailySales(ctx context.Context, start, end time.Time) ([]DailyStat, error)
}
