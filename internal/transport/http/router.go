package httpserver

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/handlers"
	authmw "storefront/internal/middleware/auth"
)

type Deps struct {
	Guard     *authmw.Guard
	Auth      *handlers.AuthHandler
	Products  *handlers.ProductHandler
	Cart      *handlers.CartHandler
	Coupons   *handlers.CouponHandler
	Payments  *handlers.PaymentHandler
	Analytics *handlers.AnalyticsHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", d.Auth.Signup)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)
	auth.POST("/refresh-token", d.Auth.Refresh)
	auth.GET("/profile", d.Auth.Profile, d.Guard.RequireUser)

	products := api.Group("/products")
	products.GET("", d.Products.GetAll, d.Guard.RequireUser, d.Guard.RequireAdmin)
	products.GET("/featured", d.Products.GetFeatured)
	products.GET("/category/:category", d.Products.GetByCategory)
	products.GET("/recommendations", d.Products.GetRecommendations)
	products.POST("", d.Products.Create, d.Guard.RequireUser, d.Guard.RequireAdmin)
	products.PATCH("/:id", d.Products.ToggleFeatured, d.Guard.RequireUser, d.Guard.RequireAdmin)
	products.DELETE("/:id", d.Products.Delete, d.Guard.RequireUser, d.Guard.RequireAdmin)

	cart := api.Group("/cart", d.Guard.RequireUser)
	cart.GET("", d.Cart.Get)
	cart.POST("", d.Cart.Add)
	cart.DELETE("", d.Cart.Remove)
	cart.PUT("/:id", d.Cart.UpdateQuantity)

	coupons := api.Group("/coupons", d.Guard.RequireUser)
	coupons.GET("", d.Coupons.GetActive)
	coupons.POST("/validate", d.Coupons.Validate)

	payments := api.Group("/payments", d.Guard.RequireUser)
	payments.POST("/create-checkout-session", d.Payments.CreateCheckoutSession)
	payments.POST("/checkout-success", d.Payments.CheckoutSuccess)

	api.GET("/analytics", d.Analytics.Get, d.Guard.RequireUser, d.Guard.RequireAdmin)
}
