package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"storefront/internal/service"
)

type AnalyticsHandler struct {
	Analytics *service.AnalyticsService
}

func (h *AnalyticsHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	overview, err := h.Analytics.Overview(ctx)
	if err != nil {
		return err
	}

	end := time.Now()
	start := end.AddDate(0, 0, -7)
	daily, err := h.Analytics.DailySales(ctx, start, end)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"analyticsData":  overview,
		"dailySalesData": daily,
	})
}
