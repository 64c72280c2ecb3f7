package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/store"
)

// RewardThresholdMinor is the pre-discount subtotal, in minor currency
// units, at which a checkout earns a reward coupon.
const RewardThresholdMinor int64 = 20000

// CheckoutService turns a quoted cart into a hosted-payment session and a
// confirmed payment into a persisted order.
type CheckoutService struct {
	Orders   store.OrderStore
	Coupons  *CouponService
	Payments payment.Provider
	// ClientURL is the storefront origin the payment provider redirects
	// back to.
	ClientURL string
}

// CheckoutProduct is one quoted line item, price in major units.
type CheckoutProduct struct {
	ID       primitive.ObjectID `json:"_id"`
	Name     string             `json:"name"`
	Image    string             `json:"image"`
	Price    float64            `json:"price"`
	Quantity int                `json:"quantity"`
}

type CheckoutSession struct {
	SessionID string `json:"id"`
	// TotalAmount is the charged total in major units.
	TotalAmount float64 `json:"totalAmount"`
}

// snapshotItem is the compact product snapshot carried in the session
// metadata, so the order can be built later even if the cart changed.
type snapshotItem struct {
	ID       string  `json:"id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// CreateSession quotes the line items, applies the coupon when it
// validates, requests a hosted session and, for qualifying subtotals,
// issues the reward coupon. A coupon that fails validation does not abort
// checkout; the quote proceeds undiscounted.
func (s *CheckoutService) CreateSession(ctx context.Context, user *models.User, products []CheckoutProduct, couponCode string) (*CheckoutSession, error) {
	log := logging.FromContext(ctx)

	if len(products) == 0 {
		return nil, apperr.New(apperr.Validation, "invalid or empty products array")
	}

	lineItems := make([]payment.LineItem, 0, len(products))
	snapshot := make([]snapshotItem, 0, len(products))
	var subtotal int64
	for _, p := range products {
		if p.Quantity < 1 {
			return nil, apperr.New(apperr.Validation, fmt.Sprintf("invalid quantity for product %q", p.Name))
		}
		if p.Price < 0 {
			return nil, apperr.New(apperr.Validation, fmt.Sprintf("invalid price for product %q", p.Name))
		}
		// Round each line to minor units before summing; summing major
		// units first would accumulate float drift.
		unit := int64(math.Round(p.Price * 100))
		subtotal += unit * int64(p.Quantity)

		lineItems = append(lineItems, payment.LineItem{
			Name:       p.Name,
			Image:      p.Image,
			UnitAmount: unit,
			Quantity:   int64(p.Quantity),
		})
		snapshot = append(snapshot, snapshotItem{ID: p.ID.Hex(), Quantity: p.Quantity, Price: p.Price})
	}

	total := subtotal
	discountID := ""
	appliedCoupon := ""
	if couponCode != "" {
		coupon, err := s.Coupons.Validate(ctx, couponCode, user.ID)
		if err != nil {
			log.Info("coupon not applied at checkout", "code", couponCode, "reason", err.Error())
		} else {
			total -= int64(math.Round(float64(subtotal) * float64(coupon.DiscountPercentage) / 100))
			appliedCoupon = coupon.Code
			discountID, err = s.Payments.CreatePercentCoupon(ctx, coupon.DiscountPercentage)
			if err != nil {
				return nil, apperr.Wrap(apperr.External, "payment processing failed", err)
			}
		}
	}

	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to encode product snapshot", err)
	}

	sess, err := s.Payments.CreateSession(ctx, payment.SessionParams{
		LineItems:  lineItems,
		SuccessURL: s.ClientURL + "/purchase-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.ClientURL + "/purchase-cancel",
		Metadata: map[string]string{
			"userId":     user.ID.Hex(),
			"couponCode": appliedCoupon,
			"products":   string(snapshotJSON),
		},
		DiscountCouponID: discountID,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "payment processing failed", err)
	}

	if subtotal >= RewardThresholdMinor {
		if _, err := s.Coupons.IssueReward(ctx, user.ID); err != nil {
			// The session already exists; a failed reward must not
			// sink the checkout.
			log.Error("reward coupon issuance failed", "user_id", user.ID.Hex(), "error", err)
		}
	}

	return &CheckoutSession{SessionID: sess.ID, TotalAmount: float64(total) / 100}, nil
}

// Confirm reads the session status fresh and, only for a paid session,
// deactivates the redeemed coupon and records the order from the metadata
// snapshot. An unpaid session yields no order and no error. Confirming the
// same paid session again returns the already-recorded order.
func (s *CheckoutService) Confirm(ctx context.Context, sessionID string) (*models.Order, error) {
	log := logging.FromContext(ctx)

	if sessionID == "" {
		return nil, apperr.New(apperr.Validation, "session id is required")
	}

	sess, err := s.Payments.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "payment processing failed", err)
	}
	if sess.PaymentStatus != payment.StatusPaid {
		return nil, nil
	}

	if existing, err := s.Orders.FindBySessionID(ctx, sessionID); err == nil {
		return existing, nil
	}

	userID, err := primitive.ObjectIDFromHex(sess.Metadata["userId"])
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "session metadata carries no valid user id", err)
	}

	if code := sess.Metadata["couponCode"]; code != "" {
		if err := s.Coupons.Deactivate(ctx, code, userID); err != nil {
			// The payment is confirmed; record the order anyway and
			// leave the coupon to be expired lazily.
			log.Error("failed to deactivate redeemed coupon", "code", code, "error", err)
		}
	}

	var snapshot []snapshotItem
	if err := json.Unmarshal([]byte(sess.Metadata["products"]), &snapshot); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "session metadata carries no valid product snapshot", err)
	}
	items := make([]models.OrderItem, 0, len(snapshot))
	for _, it := range snapshot {
		pid, err := primitive.ObjectIDFromHex(it.ID)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "session metadata carries an invalid product id", err)
		}
		items = append(items, models.OrderItem{Product: pid, Quantity: it.Quantity, Price: it.Price})
	}

	order := &models.Order{
		User:            userID,
		Products:        items,
		TotalAmount:     float64(sess.AmountTotal) / 100,
		StripeSessionID: sessionID,
	}

	if err := s.Orders.Insert(ctx, order); err != nil {
		if existing, findErr := s.Orders.FindBySessionID(ctx, sessionID); findErr == nil {
			// Lost the race to another confirmation call; the session
			// is already recorded.
			return existing, nil
		}
		// The money has moved but the order is not recorded. Flag it
		// louder than an ordinary failure so it gets reconciled.
		log.Error("order_persist_failed", "session_id", sessionID, "user_id", userID.Hex(), "error", err)
		return nil, apperr.Wrap(apperr.External, "payment succeeded but the order could not be recorded", err)
	}

	return order, nil
}
