package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI string
	MongoDB  string
	Port     string

	// Credencial bearer exigida en la superficie admin
	AdminToken string

	// Backends externos: catálogo del storefront y evaluador de descuentos
	CatalogURL     string
	CatalogToken   string
	EvaluatorURL   string
	EvaluatorToken string
}

func LoadConfig() *Config {
	// Solo cargar .env en desarrollo local
	// En producción esto se ignora automáticamente
	if _, err := os.Stat(".env"); err == nil {
		err := godotenv.Load()
		if err != nil {
			log.Println("⚠️ Error loading .env file:", err)
		} else {
			log.Println("✅ .env file loaded successfully")
		}
	} else {
		log.Println("🌐 Using system environment variables")
	}

	return &Config{
		MongoURI:       getEnv("MONGO_URI", ""),
		MongoDB:        getEnv("MONGO_DB", "bundleAdmin"),
		Port:           getEnv("PORT", "8080"),
		AdminToken:     getEnv("ADMIN_API_TOKEN", ""),
		CatalogURL:     getEnv("CATALOG_API_URL", ""),
		CatalogToken:   getEnv("CATALOG_API_TOKEN", ""),
		EvaluatorURL:   getEnv("EVALUATOR_API_URL", ""),
		EvaluatorToken: getEnv("EVALUATOR_API_TOKEN", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
