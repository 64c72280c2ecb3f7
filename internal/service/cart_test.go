package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/store"
)

func newCartFixture(t *testing.T) (*CartService, *store.MemoryUserStore, *store.MemoryProductStore, *models.User) {
	t.Helper()
	users := store.NewMemoryUserStore()
	products := store.NewMemoryProductStore()
	svc := &CartService{Users: users, Products: products}

	user := &models.User{Name: "Test User", Email: "cart@example.com", Role: models.RoleCustomer}
	require.NoError(t, users.Insert(context.Background(), user))
	return svc, users, products, user
}

func TestCartAddSameProductTwice(t *testing.T) {
	svc, _, _, user := newCartFixture(t)
	productID := primitive.NewObjectID()

	_, err := svc.Add(context.Background(), user, productID)
	require.NoError(t, err)
	cart, err := svc.Add(context.Background(), user, productID)
	require.NoError(t, err)

	require.Len(t, cart, 1)
	require.Equal(t, productID, cart[0].Product)
	require.Equal(t, 2, cart[0].Quantity)
}

func TestCartSetQuantityZeroRemovesLine(t *testing.T) {
	svc, _, _, user := newCartFixture(t)
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	_, err := svc.Add(context.Background(), user, first)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), user, second)
	require.NoError(t, err)

	cart, err := svc.SetQuantity(context.Background(), user, first, 0)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	require.Equal(t, second, cart[0].Product)
}

func TestCartSetQuantityAbsentLineIsNoop(t *testing.T) {
	svc, _, _, user := newCartFixture(t)
	_, err := svc.Add(context.Background(), user, primitive.NewObjectID())
	require.NoError(t, err)

	cart, err := svc.SetQuantity(context.Background(), user, primitive.NewObjectID(), 5)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	require.Equal(t, 1, cart[0].Quantity)
}

func TestCartSetQuantityRejectsNegative(t *testing.T) {
	svc, _, _, user := newCartFixture(t)
	productID := primitive.NewObjectID()
	_, err := svc.Add(context.Background(), user, productID)
	require.NoError(t, err)

	_, err = svc.SetQuantity(context.Background(), user, productID, -1)
	require.Error(t, err)
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestCartRemoveWithoutProductClearsAll(t *testing.T) {
	svc, _, _, user := newCartFixture(t)
	for i := 0; i < 3; i++ {
		_, err := svc.Add(context.Background(), user, primitive.NewObjectID())
		require.NoError(t, err)
	}

	cart, err := svc.Remove(context.Background(), user, nil)
	require.NoError(t, err)
	require.Empty(t, cart)
}

func TestCartRemoveSingleLine(t *testing.T) {
	svc, _, _, user := newCartFixture(t)
	keep := primitive.NewObjectID()
	drop := primitive.NewObjectID()
	_, err := svc.Add(context.Background(), user, keep)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), user, drop)
	require.NoError(t, err)

	cart, err := svc.Remove(context.Background(), user, &drop)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	require.Equal(t, keep, cart[0].Product)

	// removing an absent line is a no-op
	absent := primitive.NewObjectID()
	cart, err = svc.Remove(context.Background(), user, &absent)
	require.NoError(t, err)
	require.Len(t, cart, 1)
}

func TestCartPersistFailureSurfaces(t *testing.T) {
	svc, users, _, user := newCartFixture(t)
	users.SaveErr = errors.New("write failed")

	_, err := svc.Add(context.Background(), user, primitive.NewObjectID())
	require.Error(t, err)
	require.Equal(t, apperr.External, apperr.KindOf(err))
}

func TestCartGetJoinsProducts(t *testing.T) {
	svc, _, products, user := newCartFixture(t)

	p := &models.Product{Name: "Keyboard", Description: "mechanical", Price: 75, Category: "accessories"}
	require.NoError(t, products.Insert(context.Background(), p))

	_, err := svc.Add(context.Background(), user, p.ID)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), user, p.ID)
	require.NoError(t, err)

	items, err := svc.Get(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Keyboard", items[0].Name)
	require.Equal(t, 2, items[0].Quantity)
}
