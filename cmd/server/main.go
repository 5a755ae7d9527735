package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fleur_back_end/internal/auth"
	"fleur_back_end/internal/cart"
	"fleur_back_end/internal/catalog"
	"fleur_back_end/internal/config"
	"fleur_back_end/internal/content"
	"fleur_back_end/internal/database"
	"fleur_back_end/internal/middleware"
	"fleur_back_end/internal/orders"
	"fleur_back_end/internal/routes"
	"fleur_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("❌ Erreur connexion base de données : ", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("❌ Erreur migration : ", err)
	}

	rdb, err := database.ConnectRedis(ctx, cfg)
	if err != nil {
		log.Fatal("❌ ", err)
	}

	repo := catalog.NewRepository(db)
	carts := cart.NewService(cartStore(ctx, cfg, db, rdb), repo)

	var storage services.ImageStorage
	if mc, err := database.ConnectMinIO(ctx, cfg); err != nil {
		log.Fatal("❌ ", err)
	} else if mc != nil {
		storage = services.NewMinioStorage(mc, cfg.MinioBucket, cfg.MinioPublicURL)
	}

	var payments services.PaymentGateway
	if cfg.StripeSecretKey != "" {
		payments = services.NewStripeGateway(cfg.StripeSecretKey, cfg.Currency)
		log.Println("✅ Stripe initialisé")
	} else {
		log.Println("⚠️ STRIPE_SECRET_KEY manquant, paiement par carte désactivé")
	}

	var mailer services.Mailer
	if cfg.SMTPHost != "" {
		mailer = services.NewSMTPMailer(services.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	} else {
		log.Println("⚠️ SMTP_HOST manquant, aucun e-mail ne sera envoyé")
	}
	notifier := orders.NewNotifier(mailer, cfg.ContactInbox)

	secret := cfg.SessionSecret
	if secret == "" {
		if !cfg.IsDev() {
			log.Fatal("❌ SESSION_SECRET manquant dans .env")
		}
		secret = "dev-session-secret-change-me-please"
		log.Println("⚠️ SESSION_SECRET absent, secret de développement utilisé")
	}
	if cfg.JWTSecret == "" {
		log.Println("⚠️ JWT_SECRET absent, connexion par jeton désactivée")
	}

	r := gin.Default()
	routes.RegisterRoutes(r, routes.Deps{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Sessions: middleware.NewCookieStore(secret, cfg.SessionSecure),
		Catalog:  repo,
		Carts:    carts,
		Orders: orders.NewService(db, repo, carts, orders.Options{
			Payments: payments,
			Notifier: notifier,
			Currency: cfg.Currency,
		}),
		Content:  content.NewRepository(db),
		Staff:    auth.NewService(db),
		Storage:  storage,
		Payments: payments,
		Mailer:   mailer,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Println("🚀 Serveur Fleur lancé sur le port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("❌ ", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Arrêt du serveur...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("⚠️ Arrêt forcé :", err)
	}
	notifier.Wait()
}

// cartStore choisit le stockage du panier selon CART_STORE.
func cartStore(ctx context.Context, cfg config.Config, db *gorm.DB, rdb *redis.Client) cart.Store {
	if cfg.CartStore == "redis" {
		if rdb == nil {
			log.Fatal("❌ CART_STORE=redis mais REDIS_HOST n'est pas configuré")
		}
		log.Println("🛒 Panier stocké dans Redis")
		return cart.NewRedisStore(rdb)
	}

	store := cart.NewDBStore(db)
	go purgeExpiredCarts(ctx, store)
	log.Println("🛒 Panier stocké en base")
	return store
}

func purgeExpiredCarts(ctx context.Context, store *cart.DBStore) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		if n, err := store.PurgeExpired(ctx); err != nil {
			log.Println("⚠️ Purge des paniers expirés :", err)
		} else if n > 0 {
			log.Printf("🧹 %d panier(s) expiré(s) supprimé(s)", n)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
