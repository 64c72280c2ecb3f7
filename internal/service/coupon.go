package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/store"
)

const (
	rewardCodePrefix   = "GIFT"
	rewardDiscount     = 10
	rewardValidity     = 30 * 24 * time.Hour
	rewardCodeAttempts = 3
)

// ErrCouponExpired reports a coupon found but past its expiration date;
// validation lazily deactivates it before returning this.
var ErrCouponExpired = apperr.New(apperr.NotFound, "coupon expired")

type CouponService struct {
	Coupons store.CouponStore
}

// ActiveForUser returns the user's active coupon, or nil when none exists.
// Absence is not an error.
func (s *CouponService) ActiveForUser(ctx context.Context, userID primitive.ObjectID) (*models.Coupon, error) {
	c, err := s.Coupons.FindActiveByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to look up coupon", err)
	}
	return c, nil
}

// Validate checks code against the user's active coupons. An expired coupon
// is deactivated and reported as expired rather than missing.
func (s *CouponService) Validate(ctx context.Context, code string, userID primitive.ObjectID) (*models.Coupon, error) {
	c, err := s.Coupons.FindActiveByCode(ctx, code, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, "coupon not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to look up coupon", err)
	}

	if c.ExpirationDate.Before(time.Now()) {
		c.IsActive = false
		if err := s.Coupons.Save(ctx, c); err != nil {
			return nil, apperr.Wrap(apperr.External, "failed to deactivate expired coupon", err)
		}
		return nil, ErrCouponExpired
	}

	return c, nil
}

// Deactivate marks the user's coupon with the given code inactive. Used
// after a confirmed payment that redeemed it.
func (s *CouponService) Deactivate(ctx context.Context, code string, userID primitive.ObjectID) error {
	c, err := s.Coupons.FindByCode(ctx, code, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperr.Wrap(apperr.External, "failed to look up coupon", err)
	}
	if !c.IsActive {
		return nil
	}
	c.IsActive = false
	if err := s.Coupons.Save(ctx, c); err != nil {
		return apperr.Wrap(apperr.External, "failed to deactivate coupon", err)
	}
	return nil
}

// IssueReward creates the 10%-off reward coupon for a qualifying checkout.
// Any active coupon the user already holds is deactivated first, keeping at
// most one active coupon per user.
func (s *CouponService) IssueReward(ctx context.Context, userID primitive.ObjectID) (*models.Coupon, error) {
	replaced, err := s.Coupons.DeactivateByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.External, "failed to deactivate previous coupon", err)
	}
	if replaced > 0 {
		logging.FromContext(ctx).Info("reward coupon replaces active coupon",
			"user_id", userID.Hex(), "replaced", replaced)
	}

	var lastErr error
	for i := 0; i < rewardCodeAttempts; i++ {
		code, err := generateCode()
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "failed to generate coupon code", err)
		}
		c := &models.Coupon{
			Code:               code,
			DiscountPercentage: rewardDiscount,
			ExpirationDate:     time.Now().Add(rewardValidity),
			IsActive:           true,
			UserID:             userID,
		}
		if err := models.ValidateCoupon(c); err != nil {
			return nil, err
		}
		err = s.Coupons.Insert(ctx, c)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Wrap(apperr.External, "failed to store coupon", err)
		}
		lastErr = err
	}
	return nil, apperr.Wrap(apperr.Conflict, "could not generate a unique coupon code", lastErr)
}

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generateCode() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return rewardCodePrefix + string(buf), nil
}
