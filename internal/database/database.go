package database

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"fleur_back_end/internal/config"
	"fleur_back_end/internal/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// =============================================
// BASE RELATIONNELLE (gorm)
// =============================================

// Open ouvre la base relationnelle choisie par DB_DRIVER.
func Open(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DBDSN)
	case "mysql":
		dialector = mysql.Open(cfg.DBDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("DB_DRIVER inconnu: %q", cfg.DBDriver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger(os.Stdout),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	if cfg.DBDriver == "sqlite" {
		// SQLite n'accepte qu'un seul écrivain à la fois.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}

	log.Printf("✅ Connecté à la base %s", cfg.DBDriver)
	return gdb, nil
}

// newLogger journalise les requêtes lentes et les erreurs ; une ligne absente n'est pas une erreur.
func newLogger(w io.Writer) logger.Interface {
	return logger.New(log.New(w, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Migrate crée ou met à jour toutes les tables de la boutique.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.ProductImage{},
		&models.Order{},
		&models.OrderItem{},
		&models.HomepageContent{},
		&models.StaffUser{},
		&models.CartSession{},
	)
}

// Ping vérifie que la base répond.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// =============================================
// REDIS
// =============================================

// ConnectRedis renvoie nil sans erreur quand REDIS_HOST n'est pas configuré.
func ConnectRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if cfg.RedisHost == "" {
		log.Println("⚠️ REDIS_HOST non configuré, Redis désactivé")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("impossible de se connecter à Redis: %w", err)
	}
	log.Println("✅ Connecté à Redis")
	return client, nil
}

// =============================================
// MINIO
// =============================================

// ConnectMinIO renvoie nil sans erreur quand MINIO_ENDPOINT n'est pas configuré.
func ConnectMinIO(ctx context.Context, cfg config.Config) (*minio.Client, error) {
	if cfg.MinioEndpoint == "" {
		log.Println("⚠️ MinIO non configuré, upload d'images désactivé")
		return nil, nil
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("erreur connexion MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("erreur vérification bucket MinIO: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("erreur création bucket MinIO: %w", err)
		}
		log.Println("🪣 Bucket créé :", cfg.MinioBucket)
	} else {
		log.Println("🪣 Bucket MinIO déjà présent :", cfg.MinioBucket)
	}

	log.Println("✅ Connecté à MinIO :", cfg.MinioEndpoint)
	return client, nil
}
