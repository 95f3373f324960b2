package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string

	ServerPort   int
	LogLevel     string
	CookieSecure bool

	CatalogAPIURL string
	HTTPTimeout   time.Duration

	// AdminUsername and AdminToken decide the admin role on the client side only.
	AdminUsername string
	AdminToken    string

	SessionBackend string
	DatabaseURL    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
}

// LoadDotEnv loads the given files into the environment, keeping variables that are already set.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			log.Printf("notice: %s not loaded: %v. Using system environment variables", f, err)
		}
	}
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "storefront"),

		ServerPort:   EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:     EnvDefault("LOG_LEVEL", "info"),
		CookieSecure: strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),

		CatalogAPIURL: strings.TrimRight(EnvDefault("CATALOG_API_URL", "https://fakestoreapi.com"), "/"),
		HTTPTimeout:   time.Duration(EnvIntDefault("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,

		AdminUsername: EnvDefault("ADMIN_USERNAME", "johnd"),
		AdminToken:    os.Getenv("ADMIN_TOKEN"),

		SessionBackend: strings.ToLower(EnvDefault("SESSION_BACKEND", "sql")),
		DatabaseURL:    EnvDefault("DATABASE_URL", "storefront.db"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       EnvIntDefault("REDIS_DB", 0),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
