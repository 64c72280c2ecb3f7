package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/service"
	"storefront/internal/store"
)

func newCartHandler(t *testing.T) (*CartHandler, *store.MemoryProductStore, *models.User) {
	t.Helper()
	users := store.NewMemoryUserStore()
	products := store.NewMemoryProductStore()
	user := &models.User{Name: "Shopper", Email: "shopper@example.com", Role: models.RoleCustomer}
	require.NoError(t, users.Insert(context.Background(), user))

	return &CartHandler{Cart: &service.CartService{Users: users, Products: products}}, products, user
}

func withUser(c echo.Context, user *models.User) echo.Context {
	c.Set("currentUser", user)
	return c
}

func TestCartHandlerAdd(t *testing.T) {
	h, products, user := newCartHandler(t)
	p := &models.Product{Name: "Mug", Description: "ceramic", Price: 9.99, Category: "kitchen"}
	require.NoError(t, products.Insert(context.Background(), p))

	c, rec := newJSONContext(http.MethodPost, "/api/cart",
		fmt.Sprintf(`{"productId":%q}`, p.ID.Hex()))
	require.NoError(t, h.Add(withUser(c, user)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), p.ID.Hex())
}

func TestCartHandlerAddInvalidID(t *testing.T) {
	h, _, user := newCartHandler(t)

	c, _ := newJSONContext(http.MethodPost, "/api/cart", `{"productId":"garbage"}`)
	err := h.Add(withUser(c, user))
	require.Error(t, err)
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestCartHandlerRemoveWithoutBodyClearsCart(t *testing.T) {
	h, products, user := newCartHandler(t)
	p := &models.Product{Name: "Mug", Description: "ceramic", Price: 9.99, Category: "kitchen"}
	require.NoError(t, products.Insert(context.Background(), p))

	c, _ := newJSONContext(http.MethodPost, "/api/cart",
		fmt.Sprintf(`{"productId":%q}`, p.ID.Hex()))
	require.NoError(t, h.Add(withUser(c, user)))

	c, rec := newJSONContext(http.MethodDelete, "/api/cart", "")
	require.NoError(t, h.Remove(withUser(c, user)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestCartHandlerUpdateQuantity(t *testing.T) {
	h, products, user := newCartHandler(t)
	p := &models.Product{Name: "Mug", Description: "ceramic", Price: 9.99, Category: "kitchen"}
	require.NoError(t, products.Insert(context.Background(), p))

	c, _ := newJSONContext(http.MethodPost, "/api/cart",
		fmt.Sprintf(`{"productId":%q}`, p.ID.Hex()))
	require.NoError(t, h.Add(withUser(c, user)))

	c, rec := newJSONContext(http.MethodPut, "/api/cart/"+p.ID.Hex(), `{"quantity":0}`)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.Hex())
	require.NoError(t, h.UpdateQuantity(withUser(c, user)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}
