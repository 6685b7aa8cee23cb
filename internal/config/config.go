package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string

	// WooCommerce REST API credentials
	WooCommerceURL    string
	WooCommerceKey    string
	WooCommerceSecret string

	// Optional SQL reporting replica
	ReplicaDriver string // "postgres" or "mysql"
	ReplicaDSN    string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "woocrm"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "woocrm"),

		WooCommerceURL:    getEnv("WOOCOMMERCE_URL", ""),
		WooCommerceKey:    getEnv("WOOCOMMERCE_CONSUMER_KEY", ""),
		WooCommerceSecret: getEnv("WOOCOMMERCE_CONSUMER_SECRET", ""),

		ReplicaDriver: getEnv("REPLICA_DRIVER", "postgres"),
		ReplicaDSN:    getEnv("REPLICA_DSN", ""),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
