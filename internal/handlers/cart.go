package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	authmw "storefront/internal/middleware/auth"
	"storefront/internal/service"
)

type CartHandler struct {
	Cart *service.CartService
}

func (h *CartHandler) Get(c echo.Context) error {
	user := authmw.CurrentUser(c)
	items, err := h.Cart.Get(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) Add(c echo.Context) error {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid request body", err)
	}
	id, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return apperr.Wrap(apperr.Validation, "invalid product id", err)
	}

	user := authmw.CurrentUser(c)
	cart, err := h.Cart.Add(c.Request().Context(), user, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// Remove deletes one line when the body names a product, the whole cart
// when it does not.
func (h *CartHandler) Remove(c echo.Context) error {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid request body", err)
	}

	var productID *primitive.ObjectID
	if req.ProductID != "" {
		id, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			return apperr.Wrap(apperr.Validation, "invalid product id", err)
		}
		productID = &id
	}

	user := authmw.CurrentUser(c)
	cart, err := h.Cart.Remove(c.Request().Context(), user, productID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return apperr.Wrap(apperr.Validation, "invalid product id", err)
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid request body", err)
	}

	user := authmw.CurrentUser(c)
	cart, err := h.Cart.SetQuantity(c.Request().Context(), user, id, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}
