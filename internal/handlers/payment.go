package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/apperr"
	authmw "storefront/internal/middleware/auth"
	"storefront/internal/service"
)

type PaymentHandler struct {
	Checkout *service.CheckoutService
}

func (h *PaymentHandler) CreateCheckoutSession(c echo.Context) error {
	var req struct {
		Products   []service.CheckoutProduct `json:"products"`
		CouponCode string                    `json:"couponCode"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid request body", err)
	}

	user := authmw.CurrentUser(c)
	sess, err := h.Checkout.CreateSession(c.Request().Context(), user, req.Products, req.CouponCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *PaymentHandler) CheckoutSuccess(c echo.Context) error {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid request body", err)
	}

	order, err := h.Checkout.Confirm(c.Request().Context(), req.SessionID)
	if err != nil {
		return err
	}
	if order == nil {
		// Session exists but is not paid yet; confirmation stays
		// callable until it is.
		return c.JSON(http.StatusOK, echo.Map{
			"success": false,
			"message": "payment not completed",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "payment successful, order created and coupon deactivated if used",
		"orderId": order.ID,
	})
}
