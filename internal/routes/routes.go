package routes

import (
	"time"

	"fleur_back_end/internal/auth"
	"fleur_back_end/internal/cart"
	"fleur_back_end/internal/catalog"
	"fleur_back_end/internal/config"
	"fleur_back_end/internal/content"
	"fleur_back_end/internal/handlers"
	"fleur_back_end/internal/handlers/admin"
	"fleur_back_end/internal/handlers/payement"
	"fleur_back_end/internal/handlers/product"
	"fleur_back_end/internal/handlers/user"
	"fleur_back_end/internal/middleware"
	"fleur_back_end/internal/orders"
	"fleur_back_end/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps regroupe tout ce dont les routes ont besoin.
type Deps struct {
	Config   config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Sessions sessions.Store
	Catalog  *catalog.Repository
	Carts    *cart.Service
	Orders   *orders.Service
	Content  *content.Repository
	Staff    *auth.Service
	Storage  services.ImageStorage
	Payments services.PaymentGateway
	Mailer   services.Mailer
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.Visitor(d.Sessions))

	health := &handlers.HealthHandler{DB: d.DB, Redis: d.Redis}
	home := &handlers.HomeHandler{Content: d.Content, Catalog: d.Catalog}
	products := product.New(d.Catalog, d.Storage)
	carts := user.NewCartHandler(d.Carts)
	contact := user.NewContactHandler(d.Mailer, d.Config.ContactInbox)
	ordersH := payement.NewOrderHandler(d.Orders)
	payments := payement.NewPaymentHandler(d.Payments)
	dashboard := payement.NewDashboardHandler(d.Catalog, d.Orders)
	staff := admin.NewAuthHandler(d.Staff, d.Config.JWTSecret, d.Config.JWTTTL)
	homepage := admin.NewHomepageHandler(d.Content, d.Storage)

	r.GET("/health", health.Health)

	// Connexion du personnel par session
	r.POST("/admin/login", middleware.LoginRateLimit(d.Redis), staff.Login)
	r.POST("/admin/logout", staff.Logout)

	api := r.Group("/api")
	{
		api.GET("/home", home.Home)

		// Catalogue
		api.GET("/products", products.ListProducts)
		api.GET("/products/filters", products.ProductFilters)
		api.GET("/products/:id", products.GetProduct)
		api.GET("/categories", products.ListCategories)

		// Panier
		api.GET("/cart", carts.GetCart)
		api.POST("/cart/add", carts.AddToCart)
		api.PUT("/cart/:product_id", carts.UpdateCartItem)
		api.DELETE("/cart/:product_id", carts.RemoveFromCart)
		api.DELETE("/cart", carts.ClearCart)

		// Commandes et paiement
		api.POST("/checkout", ordersH.Checkout)
		api.GET("/orders/:id", ordersH.GetOrder)
		api.POST("/payments/intent", payments.CreateIntent)
		api.POST("/payments/verify", payments.VerifyIntent)

		api.POST("/contact", contact.SendContact)

		api.POST("/admin/token", middleware.LoginRateLimit(d.Redis), staff.Token)
	}

	adm := api.Group("/admin", middleware.StaffAuth(d.Staff, d.Config.JWTSecret), middleware.RequireStaff)
	{
		adm.GET("/me", staff.Me)
		adm.GET("/dashboard", dashboard.GetDashboard)

		adm.GET("/products", products.AdminListProducts)
		adm.POST("/products", products.CreateProduct)
		adm.POST("/products/bulk", products.BulkUpsert)
		adm.PUT("/products/:id", products.UpdateProduct)
		adm.DELETE("/products/:id", products.DeleteProduct)
		adm.PATCH("/products/:id/toggle", products.ToggleActive)
		adm.POST("/products/:id/images", products.AddProductImage)
		adm.PUT("/products/:id/images/:imageId/main", products.SetMainImage)
		adm.DELETE("/products/:id/images/:imageId", products.DeleteProductImage)

		adm.GET("/orders", ordersH.AdminListOrders)
		adm.GET("/orders/:id", ordersH.AdminGetOrder)
		adm.PATCH("/orders/:id/status", ordersH.UpdateOrderStatus)

		adm.GET("/homepage", homepage.GetHomepage)
		adm.PUT("/homepage", homepage.UpdateHomepage)
		adm.POST("/homepage/hero", homepage.UploadHeroImage)
	}
}
