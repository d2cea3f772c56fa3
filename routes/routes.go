package routes

import (
	"github.com/julienschmidt/httprouter"

	"kirana/admin"
	"kirana/auth"
	"kirana/cart"
	"kirana/checkout"
	"kirana/live"
	"kirana/middleware"
	"kirana/orders"
	"kirana/products"
	"kirana/ratelim"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *auth.Handler) {
	router.POST("/api/auth/register", rl.Limit(h.Register))
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(h.Logout))
}

func AddProductRoutes(router *httprouter.Router, h *products.Handler) {
	router.GET("/api/products", h.GetProducts)
	router.GET("/api/products/:productid", h.GetProduct)
	router.POST("/api/products", middleware.RequireAdmin(h.CreateProduct))
	router.PUT("/api/products/:productid", middleware.RequireAdmin(h.UpdateProduct))
	router.DELETE("/api/products/:productid", middleware.RequireAdmin(h.DeleteProduct))
	router.POST("/api/products/images", middleware.RequireAdmin(h.UploadProductImage))
}

func AddCartRoutes(router *httprouter.Router, h *cart.Handler, co *checkout.Handler) {
	router.GET("/api/cart", middleware.Authenticate(h.GetCart))
	router.POST("/api/cart", middleware.Authenticate(h.AddToCart))
	router.PUT("/api/cart/:itemid", middleware.Authenticate(h.UpdateQuantity))
	router.DELETE("/api/cart/:itemid", middleware.Authenticate(h.RemoveItem))
	router.POST("/api/checkout", middleware.Authenticate(co.PlaceOrder))
}

func AddOrderRoutes(router *httprouter.Router, h *orders.Handler) {
	router.GET("/api/orders", middleware.Authenticate(h.GetOrders))
	router.GET("/api/orders/:orderid/receipt", middleware.Authenticate(h.PrintReceipt))
}

func AddAdminRoutes(router *httprouter.Router, h *admin.Handler) {
	router.GET("/api/admin/stats", middleware.RequireAdmin(h.Stats))
	router.GET("/api/admin/users", middleware.RequireAdmin(h.ListUsers))
	router.PATCH("/api/admin/users/:userid/role", middleware.RequireAdmin(h.ToggleUserRole))
	router.DELETE("/api/admin/users/:userid", middleware.RequireAdmin(h.DeleteUser))
}

func AddLiveRoutes(router *httprouter.Router, h *live.Handler) {
	router.GET("/ws/:collection", h.Subscribe)
}
