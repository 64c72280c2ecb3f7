package models

import (
	"fmt"
	"strings"

	"storefront/internal/apperr"
)

// Validation is explicit: each function checks its constraints in order and
// returns a ValidationError for the first one violated.

func ValidateSignup(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.New(apperr.Validation, "name is required")
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if len(password) < 6 {
		return apperr.New(apperr.Validation, "password must be at least 6 characters")
	}
	return nil
}

func ValidateLogin(email, password string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return apperr.New(apperr.Validation, "password is required")
	}
	return nil
}

func validateEmail(email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return apperr.New(apperr.Validation, "email is required")
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return apperr.New(apperr.Validation, "email is invalid")
	}
	return nil
}

func ValidateProduct(p *Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.New(apperr.Validation, "product name is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		return apperr.New(apperr.Validation, "product description is required")
	}
	if p.Price < 0 {
		return apperr.New(apperr.Validation, fmt.Sprintf("product price must not be negative, got %v", p.Price))
	}
	if strings.TrimSpace(p.Category) == "" {
		return apperr.New(apperr.Validation, "product category is required")
	}
	return nil
}

func ValidateCoupon(c *Coupon) error {
	if strings.TrimSpace(c.Code) == "" {
		return apperr.New(apperr.Validation, "coupon code is required")
	}
	if c.DiscountPercentage < 0 || c.DiscountPercentage > 100 {
		return apperr.New(apperr.Validation, fmt.Sprintf("discount percentage must be between 0 and 100, got %d", c.DiscountPercentage))
	}
	if c.UserID.IsZero() {
		return apperr.New(apperr.Validation, "coupon must belong to a user")
	}
	return nil
}
