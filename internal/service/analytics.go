package service

import (
	"context"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/store"
)

type AnalyticsService struct {
	Users    store.UserStore
	Products store.ProductStore
	Orders   store.OrderStore
}

type AnalyticsOverview struct {
	Users        int64   `json:"users"`
	Products     int64   `json:"products"`
	TotalSales   int64   `json:"totalSales"`
	TotalRevenue float64 `json:"totalRevenue"`
}

func (s *AnalyticsService) Overview(ctx context.Context) (*AnalyticsOverview, error) {
	users, err := s.Users.Count(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to count users", err)
	}
	products, err := s.Products.Count(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to count products", err)
	}
	sales, revenue, err := s.Orders.Totals(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to aggregate orders", err)
	}
	return &AnalyticsOverview{
		Users:        users,
		Products:     products,
		TotalSales:   sales,
		TotalRevenue: revenue,
	}, nil
}

// DailySales returns one entry per calendar day in [start, end], zero
// filled for days without orders.
func (s *AnalyticsService) DailySales(ctx context.Context, start, end time.Time) ([]store.DailyStat, error) {
	stats, err := s.Orders.DailySales(ctx, start, end)
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to aggregate daily sales", err)
	}

	byDay := make(map[string]store.DailyStat, len(stats))
	for _, st := range stats {
		byDay[st.Date] = st
	}

	var out []store.DailyStat
	for d := start.UTC(); !d.After(end.UTC()); d = d.AddDate(0, 0, 1) {
		day := d.Format("2006-01-02")
		if st, ok := byDay[day]; ok {
			out = append(out, st)
		} else {
			out = append(out, store.DailyStat{Date: day})
		}
	}
	return out, nil
}
