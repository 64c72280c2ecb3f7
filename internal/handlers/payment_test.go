package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/service"
	"storefront/internal/store"
)

func newPaymentHandler() (*PaymentHandler, *payment.Fake, *models.User) {
	payments := payment.NewFake()
	h := &PaymentHandler{Checkout: &service.CheckoutService{
		Orders:    store.NewMemoryOrderStore(),
		Coupons:   &service.CouponService{Coupons: store.NewMemoryCouponStore()},
		Payments:  payments,
		ClientURL: "http://localhost:5173",
	}}
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleCustomer}
	return h, payments, user
}

func checkoutBody(productID primitive.ObjectID) string {
	return fmt.Sprintf(`{"products":[{"_id":%q,"name":"Shirt","price":19.99,"quantity":2}]}`, productID.Hex())
}

func TestCreateCheckoutSessionHandler(t *testing.T) {
	h, _, user := newPaymentHandler()

	c, rec := newJSONContext(http.MethodPost, "/api/payments/create-checkout-session",
		checkoutBody(primitive.NewObjectID()))
	require.NoError(t, h.CreateCheckoutSession(withUser(c, user)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"id":"cs_test_`)
	require.Contains(t, rec.Body.String(), `"totalAmount":39.98`)
}

func TestCreateCheckoutSessionHandlerEmptyCart(t *testing.T) {
	h, _, user := newPaymentHandler()

	c, _ := newJSONContext(http.MethodPost, "/api/payments/create-checkout-session", `{"products":[]}`)
	err := h.CreateCheckoutSession(withUser(c, user))
	require.Error(t, err)
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestCheckoutSuccessHandlerUnpaid(t *testing.T) {
	h, _, user := newPaymentHandler()

	c, _ := newJSONContext(http.MethodPost, "/api/payments/create-checkout-session",
		checkoutBody(primitive.NewObjectID()))
	require.NoError(t, h.CreateCheckoutSession(withUser(c, user)))

	c, rec := newJSONContext(http.MethodPost, "/api/payments/checkout-success",
		`{"sessionId":"cs_test_1"}`)
	require.NoError(t, h.CheckoutSuccess(withUser(c, user)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"success":false`)
}

func TestCheckoutSuccessHandlerPaid(t *testing.T) {
	h, payments, user := newPaymentHandler()

	c, _ := newJSONContext(http.MethodPost, "/api/payments/create-checkout-session",
		checkoutBody(primitive.NewObjectID()))
	require.NoError(t, h.CreateCheckoutSession(withUser(c, user)))
	payments.MarkPaid("cs_test_1", 0)

	c, rec := newJSONContext(http.MethodPost, "/api/payments/checkout-success",
		`{"sessionId":"cs_test_1"}`)
	require.NoError(t, h.CheckoutSuccess(withUser(c, user)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"success":true`)
	require.Contains(t, rec.Body.String(), `"orderId"`)
}
