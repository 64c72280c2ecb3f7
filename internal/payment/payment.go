// Package payment wraps the hosted-payment collaborator. Amounts cross this
// boundary as integer minor-currency units.
package payment

import "context"

const StatusPaid = "paid"

type LineItem struct {
	Name       string
	Image      string
	UnitAmount int64
	Quantity   int64
}

type SessionParams struct {
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
	// DiscountCouponID references a provider-side percent coupon created
	// via CreatePercentCoupon.
	DiscountCouponID string
}

type Session struct {
	ID            string
	PaymentStatus string
	AmountTotal   int64
	Metadata      map[string]string
}

type Provider interface {
	CreateSession(ctx context.Context, params SessionParams) (*Session, error)
	RetrieveSession(ctx context.Context, id string) (*Session, error)
	CreatePercentCoupon(ctx context.Context, percent int) (string, error)
}
