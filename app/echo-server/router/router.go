package router

import (
	"golfProShop/domain"
	"golfProShop/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired, adminOnly, selfOrAdmin echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.GET("/email-verification/:code", handler.VerifyEmail)
	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.POST("/logout", handler.Logout, authRequired)
	users.GET("/me", handler.GetProfile, authRequired)
	users.PUT("/:id", handler.UpdateUser, authRequired, selfOrAdmin)
	users.GET("", handler.GetAllUsers, authRequired, adminOnly)
	users.GET("/:id", handler.GetUserByID, authRequired, adminOnly)
	users.PUT("/:id/role", handler.SetUserRole, authRequired, adminOnly)
	users.DELETE("/:id", handler.DeleteUser, authRequired, adminOnly)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	products := api.Group("/products")

	products.GET("", handler.GetAllProducts)
	products.GET("/:id", handler.GetProductByID)
	products.POST("", handler.CreateProduct, authRequired, adminOnly)
	products.PUT("/:id", handler.UpdateProduct, authRequired, adminOnly)
	products.DELETE("/:id", handler.DeleteProduct, authRequired, adminOnly)
	products.GET("/low-stock", handler.GetLowStockProducts, authRequired, adminOnly)
	products.POST("/:id/restock", handler.RestockProduct, authRequired, adminOnly)
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	categories := api.Group("/categories")

	categories.GET("", handler.GetAllCategories)
	categories.GET("/:id", handler.GetCategoryByID)
	categories.POST("", handler.CreateCategory, authRequired, adminOnly)
	categories.PUT("/:id", handler.UpdateCategory, authRequired, adminOnly)
	categories.DELETE("/:id", handler.DeleteCategory, authRequired, adminOnly)
}

// SetupCartRoutes serves both guests and members: the optional auth
// middleware resolves the owner.
func SetupCartRoutes(api *echo.Group, handler *rest.CartHandler, optionalAuth echo.MiddlewareFunc) {
	cart := api.Group("/cart", optionalAuth)

	cart.GET("", handler.GetCart)
	cart.POST("/items", handler.AddToCart)
	cart.PUT("/items/:product_id", handler.UpdateQuantity)
	cart.DELETE("/items/:product_id", handler.RemoveFromCart)
	cart.POST("/items/remove", handler.RemoveManyFromCart)
	cart.DELETE("", handler.ClearCart)
}

func SetupCollectionRoutes(api *echo.Group, handler *rest.CollectionsHandler, optionalAuth echo.MiddlewareFunc) {
	wishlist := api.Group("/wishlist", optionalAuth)
	wishlist.GET("", handler.Get(domain.CollectionWishlist))
	wishlist.POST("/items", handler.Add(domain.CollectionWishlist))
	wishlist.DELETE("/items/:product_id", handler.Remove(domain.CollectionWishlist))
	wishlist.POST("/items/remove", handler.RemoveMany(domain.CollectionWishlist))
	wishlist.DELETE("", handler.Clear(domain.CollectionWishlist))

	recent := api.Group("/recently-viewed", optionalAuth)
	recent.GET("", handler.Get(domain.CollectionRecentlyViewed))
	recent.POST("/items", handler.Add(domain.CollectionRecentlyViewed))
	recent.DELETE("/items/:product_id", handler.Remove(domain.CollectionRecentlyViewed))
	recent.POST("/items/remove", handler.RemoveMany(domain.CollectionRecentlyViewed))
	recent.DELETE("", handler.Clear(domain.CollectionRecentlyViewed))
}

func SetupOrdersRoutes(api *echo.Group, handler *rest.OrdersHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	orders := api.Group("/orders", authRequired)

	orders.POST("/checkout", handler.Checkout)
	orders.GET("", handler.GetMyOrders)
	orders.GET("/:id", handler.GetOrder)
	orders.POST("/:id/cancel", handler.CancelOrder)

	orders.GET("/all", handler.GetAllOrders, adminOnly)
	orders.PUT("/:id/status", handler.UpdateStatus, adminOnly)
}

func SetupPaymentsRoutes(api *echo.Group, handler *rest.PaymentsHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	payments := api.Group("/payments", authRequired)
	payments.POST("", handler.CreatePayment)
	payments.GET("/:id", handler.GetPayment)
	payments.GET("", handler.GetAllPayments, adminOnly)

	webhook := api.Group("/webhook")
	webhook.POST("/payments", handler.Webhook)
}

func SetupReviewRoutes(api *echo.Group, handler *rest.ReviewHandler, authRequired, optionalAuth, adminOnly echo.MiddlewareFunc) {
	reviews := api.Group("/reviews")

	// optional auth so admins see hidden reviews inline
	reviews.GET("/product/:product_id", handler.GetProductReviews, optionalAuth)
	reviews.POST("", handler.CreateReview, authRequired)
	reviews.DELETE("/:id", handler.DeleteReview, authRequired)
	reviews.PUT("/:id/moderate", handler.ModerateReview, authRequired, adminOnly)
}

func SetupNoticeRoutes(api *echo.Group, handler *rest.NoticeHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	notices := api.Group("/notices")

	notices.GET("", handler.GetNotices)
	notices.GET("/:id", handler.GetNoticeByID)
	notices.POST("", handler.CreateNotice, authRequired, adminOnly)
	notices.PUT("/:id", handler.UpdateNotice, authRequired, adminOnly)
	notices.DELETE("/:id", handler.DeleteNotice, authRequired, adminOnly)
}

func SetupAnalyticsRoutes(api *echo.Group, handler *rest.AnalyticsHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/analytics", authRequired, adminOnly)
	admin.GET("/sales", handler.GetSalesReport)
}
