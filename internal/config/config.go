package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectID            string
	Region               string
	LogLevel             string
	Port                 string
	KMSKeyName           string
	VertexModel          string
	AITTL                time.Duration
	ExportBucket         string
	AdminAllowList       []string
	CheckoutPreferenceID string
}

// New reads the environment. A .env file, when present, only fills variables
// that are not already set.
func New() *Config {
	_ = godotenv.Load()

	return &Config{
		ProjectID:            os.Getenv("PROJECTID"),
		Region:               getEnv("REGION", "us-central1"),
		LogLevel:             os.Getenv("LOGLEVEL"),
		Port:                 getEnv("PORT", "8080"),
		KMSKeyName:           os.Getenv("KMSKEYNAME"),
		VertexModel:          getEnv("VERTEXMODEL", "gemini-2.0-flash"),
		AITTL:                getDuration("AITTL", 30*24*time.Hour),
		ExportBucket:         os.Getenv("EXPORTBUCKET"),
		AdminAllowList:       splitList(os.Getenv("ADMINALLOWLIST")),
		CheckoutPreferenceID: os.Getenv("CHECKOUTPREFERENCEID"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
