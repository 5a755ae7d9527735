package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config regroupe toute la configuration du serveur, lue depuis l'environnement.
type Config struct {
	Port    string
	GinMode string

	DBDriver       string
	DBDSN          string
	DBMaxOpenConns int
	DBMaxIdleConns int

	CartStore     string
	RedisHost     string
	RedisPassword string
	RedisDB       int

	SessionSecret string
	SessionSecure bool
	JWTSecret     string
	JWTTTL        time.Duration

	StripeSecretKey string
	Currency        string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	ContactInbox string

	CORSOrigins []string
}

// Load charge le fichier .env s'il existe puis construit la configuration.
func Load() Config {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
	return FromEnv()
}

// FromEnv lit la configuration sans toucher au fichier .env.
func FromEnv() Config {
	return Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:          getEnv("DB_DSN", "fleur.db"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		CartStore:     strings.ToLower(getEnv("CART_STORE", "database")),
		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionSecure: getEnvBool("SESSION_SECURE", false),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTTTL:        getEnvDuration("JWT_TTL", 24*time.Hour),

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		Currency:        strings.ToLower(getEnv("CURRENCY", "amd")),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "flowers"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		MinioPublicURL: getEnv("MINIO_PUBLIC_URL", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "noreply@fleur.am"),
		ContactInbox: getEnv("CONTACT_INBOX", ""),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}
}

// IsDev indique si le serveur tourne en mode développement.
func (c Config) IsDev() bool {
	return c.GinMode != "release"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %d utilisée", key, raw, fallback)
		return fallback
	}
	return val
}

func getEnvBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %v utilisée", key, raw, fallback)
		return fallback
	}
	return val
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %s utilisée", key, raw, fallback)
		return fallback
	}
	return val
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
