package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ecell-auctions/auction-system/storage"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	AdminSecret  string
	ServerPort   int

	// Static snapshot export sidecar.
	ExportPort     int
	ExportDir      string
	ExportInterval int // seconds

	R2 storage.CloudflareR2Config
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	adminSecret := os.Getenv("ADMIN_SECRET")
	if adminSecret == "" {
		return nil, fmt.Errorf("ADMIN_SECRET environment variable is not set")
	}

	port, err := portFromEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	exportPort, err := portFromEnv("EXPORT_PORT", 8000)
	if err != nil {
		return nil, err
	}

	exportDir := os.Getenv("EXPORT_DIR")
	if exportDir == "" {
		exportDir = "export"
	}

	exportInterval := 30
	if intervalStr := os.Getenv("EXPORT_INTERVAL_SECONDS"); intervalStr != "" {
		exportInterval, err = strconv.Atoi(intervalStr)
		if err != nil || exportInterval <= 0 {
			return nil, fmt.Errorf("invalid EXPORT_INTERVAL_SECONDS: %q", intervalStr)
		}
	}

	cfg := &Config{
		DatabaseURL:    dbURL,
		JWTSecretKey:   jwtKey,
		AdminSecret:    adminSecret,
		ServerPort:     port,
		ExportPort:     exportPort,
		ExportDir:      exportDir,
		ExportInterval: exportInterval,
		R2: storage.CloudflareR2Config{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		},
	}

	return cfg, nil
}

func portFromEnv(key string, fallback int) (int, error) {
	portStr := os.Getenv(key)
	if portStr == "" {
		return fallback, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("%s must be between 1 and 65535, got %d", key, port)
	}
	return port, nil
}
