package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	authmw "github.com/Skotchmaster/shop_backend/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	UserHandler    *UserHTTP
	CartHandler    *CartHTTP
	ProductHandler *ProductHTTP
	BlogHandler    *BlogHTTP
	CouponHandler  *CouponHTTP
	Brands         *TaxonomyHTTP
	Categories     *TaxonomyHTTP
	BlogCategories *TaxonomyHTTP

	Auth *authmw.Authenticator
	// Ready reports whether the backing stores answer.
	Ready func(ctx context.Context) error
	// AuthRateLimit is requests per second per client IP on credential
	// endpoints. Zero disables the limiter.
	AuthRateLimit float64
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready").SetInternal(err)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	requireAuth := d.Auth.RequireAuth
	requireAdmin := d.Auth.RequireAdmin

	var limited []echo.MiddlewareFunc
	if d.AuthRateLimit > 0 {
		limited = append(limited, echomw.RateLimiter(
			echomw.NewRateLimiterMemoryStore(rate.Limit(d.AuthRateLimit)),
		))
	}

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register, limited...)
	auth.POST("/login", d.AuthHandler.Login, limited...)
	auth.POST("/admin-login", d.AuthHandler.AdminLogin, limited...)
	auth.POST("/forgot-pass", d.AuthHandler.ForgotPassword, limited...)
	auth.PUT("/reset/:token", d.AuthHandler.ResetPassword, limited...)
	auth.PUT("/verify-me/:token", d.AuthHandler.VerifyAccount)
	auth.GET("/refresh", d.AuthHandler.Refresh)
	auth.GET("/logout", d.AuthHandler.Logout)

	private := auth.Group("", requireAuth)
	private.PUT("/change-pass", d.AuthHandler.ChangePassword)
	private.GET("/get-user", d.UserHandler.GetUser)
	private.PUT("/update-user", d.UserHandler.UpdateUser)
	private.DELETE("/delete-user", d.UserHandler.DeleteUser)
	private.PUT("/save-address", d.UserHandler.SaveAddress)
	private.GET("/wishlist", d.UserHandler.Wishlist)

	private.POST("/cart", d.CartHandler.SetCart)
	private.GET("/cart", d.CartHandler.GetCart)
	private.DELETE("/empty-cart", d.CartHandler.EmptyCart)
	private.POST("/cart/apply-coupon", d.CartHandler.ApplyCoupon)
	private.POST("/cart/cash-order", d.CartHandler.CashOrder)
	private.GET("/get-orders", d.CartHandler.GetOrders)

	admin := auth.Group("", requireAuth, requireAdmin)
	admin.GET("/get-users", d.UserHandler.ListUsers)
	admin.PUT("/block-user/:id", d.UserHandler.BlockUser)
	admin.PUT("/unblock-user/:id", d.UserHandler.UnblockUser)
	admin.GET("/getallorders", d.CartHandler.GetAllOrders)
	admin.GET("/getorderbyuser/:id", d.CartHandler.GetOrdersByUser)
	admin.PUT("/order/update-order/:id", d.CartHandler.UpdateOrderStatus)

	products := e.Group("/product")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.PUT("/wishlist", d.UserHandler.ToggleWishlist, requireAuth)
	products.POST("", d.ProductHandler.CreateProduct, requireAuth, requireAdmin)
	products.PUT("/upload/:id", d.ProductHandler.UploadImages, requireAuth, requireAdmin)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, requireAuth, requireAdmin)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, requireAuth, requireAdmin)

	blogs := e.Group("/blog")
	blogs.GET("", d.BlogHandler.GetBlogs)
	blogs.GET("/:id", d.BlogHandler.GetBlog)
	blogs.PUT("/likes", d.BlogHandler.LikeBlog, requireAuth)
	blogs.PUT("/dislikes", d.BlogHandler.DislikeBlog, requireAuth)
	blogs.POST("", d.BlogHandler.CreateBlog, requireAuth, requireAdmin)
	blogs.PUT("/upload/:id", d.BlogHandler.UploadImages, requireAuth, requireAdmin)
	blogs.PUT("/:id", d.BlogHandler.UpdateBlog, requireAuth, requireAdmin)
	blogs.DELETE("/:id", d.BlogHandler.DeleteBlog, requireAuth, requireAdmin)

	coupons := e.Group("/coupon", requireAuth, requireAdmin)
	coupons.POST("", d.CouponHandler.CreateCoupon)
	coupons.GET("", d.CouponHandler.GetCoupons)
	coupons.GET("/:id", d.CouponHandler.GetCoupon)
	coupons.PUT("/:id", d.CouponHandler.UpdateCoupon)
	coupons.DELETE("/:id", d.CouponHandler.DeleteCoupon)

	registerTaxonomy(e.Group("/brand"), d.Brands, requireAuth, requireAdmin)
	registerTaxonomy(e.Group("/category"), d.Categories, requireAuth, requireAdmin)
	registerTaxonomy(e.Group("/blog-category"), d.BlogCategories, requireAuth, requireAdmin)
}

func registerTaxonomy(g *echo.Group, h *TaxonomyHTTP, mw ...echo.MiddlewareFunc) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, mw...)
	g.PUT("/:id", h.Update, mw...)
	g.DELETE("/:id", h.Delete, mw...)
}
