package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/nexbuy/backend/internal/handlers"
	"github.com/nexbuy/backend/internal/handlers/cart"
	"github.com/nexbuy/backend/internal/middleware/csrf"
	"github.com/nexbuy/backend/internal/service/token"
)

type Deps struct {
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	CartHandler     *cart.CartHandler
	OrderHandler    *handlers.OrderHandler
	ReviewHandler   *handlers.ReviewHandler
	WishlistHandler *handlers.WishlistHandler
	AdminHandler    *handlers.AdminHandler
	SearchHandler   *handlers.SearchHandler
	TokenService    *token.TokenService

	SecureCookies bool
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1", csrf.Middleware(csrf.Config{
		Secure: d.SecureCookies,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
		},
	}))

	v1.POST("/auth/register", d.AuthHandler.Register)
	v1.POST("/auth/login", d.AuthHandler.Login)
	v1.POST("/auth/logout", d.AuthHandler.LogOut)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	v1.GET("/search", d.SearchHandler.Search)
	v1.GET("/reviews/product/:productId", d.ReviewHandler.GetProductReviews)

	auth := v1.Group("", d.TokenService.AutoRefreshMiddleware)

	auth.GET("/cart", d.CartHandler.GetCart)
	auth.POST("/cart", d.CartHandler.AddToCart)
	auth.DELETE("/cart", d.CartHandler.ClearCart)
	auth.DELETE("/cart/:id", d.CartHandler.DeleteOneFromCart)
	auth.DELETE("/cart/:id/all", d.CartHandler.DeleteLineFromCart)

	auth.POST("/orders/checkout", d.OrderHandler.Checkout)
	auth.GET("/orders", d.OrderHandler.MyOrders)
	auth.GET("/orders/:id", d.OrderHandler.GetOrder)

	auth.POST("/reviews/product/:productId", d.ReviewHandler.AddReview)
	auth.DELETE("/reviews/:id", d.ReviewHandler.DeleteReview)

	auth.GET("/wishlist", d.WishlistHandler.GetWishlist)
	auth.POST("/wishlist/toggle/:productId", d.WishlistHandler.Toggle)
	auth.GET("/wishlist/check/:productId", d.WishlistHandler.Check)
	auth.DELETE("/wishlist/:productId", d.WishlistHandler.Remove)

	admin := v1.Group("/admin", d.TokenService.AutoRefreshMiddlewareAdmin)

	admin.POST("/products", d.AdminHandler.CreateProduct)
	admin.PATCH("/products/:id", d.AdminHandler.PatchProduct)
	admin.DELETE("/products/:id", d.AdminHandler.DeleteProduct)

	admin.GET("/users", d.AdminHandler.GetUsers)
	admin.DELETE("/users/:id", d.AdminHandler.DeleteUser)

	admin.GET("/orders", d.AdminHandler.GetOrders)
	admin.PATCH("/orders/:id/status", d.AdminHandler.UpdateOrderStatus)

	admin.GET("/stats", d.AdminHandler.GetStats)
}
