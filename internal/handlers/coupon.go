package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/apperr"
	authmw "storefront/internal/middleware/auth"
	"storefront/internal/service"
)

type CouponHandler struct {
	Coupons *service.CouponService
}

// GetActive returns the user's active coupon, or null when none exists.
func (h *CouponHandler) GetActive(c echo.Context) error {
	user := authmw.CurrentUser(c)
	coupon, err := h.Coupons.ActiveForUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coupon)
}

func (h *CouponHandler) Validate(c echo.Context) error {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid request body", err)
	}
	if req.Code == "" {
		return apperr.New(apperr.Validation, "coupon code is required")
	}

	user := authmw.CurrentUser(c)
	coupon, err := h.Coupons.Validate(c.Request().Context(), req.Code, user.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":            "coupon is valid",
		"code":               coupon.Code,
		"discountPercentage": coupon.DiscountPercentage,
	})
}
