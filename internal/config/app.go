package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"

	"github.com/Leganyst/parking-platform/internal/model"
	"github.com/Leganyst/parking-platform/internal/parking"
)

type AppConfig struct {
	Env      string
	GRPCAddr string
	HTTPAddr string

	Rates          parking.RateCard
	ReportLocation *time.Location

	SeedDefaultLocation bool

	OTelEnabled  bool
	OTelService  string
	OTelEndpoint string
}

// IsDev сообщает, запущен ли сервис локально.
func (c *AppConfig) IsDev() bool {
	return c.Env == "" || c.Env == "development" || c.Env == "dev"
}

// LoadDotEnv подгружает .env, если он есть. Отсутствие файла не ошибка.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		Env:                 getEnv("APP_ENV", "development"),
		GRPCAddr:            getEnv("GRPC_ADDR", ":50051"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		SeedDefaultLocation: getEnvBool("SEED_DEFAULT_LOCATION", true),
		OTelEnabled:         getEnvBool("OTEL_ENABLED", false),
		OTelService:         getEnv("OTEL_SERVICE_NAME", "parking-core"),
		OTelEndpoint:        getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
	}

	defaults := parking.DefaultRates()
	rates := parking.RateCard{}
	for class, key := range map[model.SizeClass]string{
		model.SizeSmall:  "RATE_SMALL",
		model.SizeMedium: "RATE_MEDIUM",
		model.SizeLarge:  "RATE_LARGE",
	} {
		v, err := getEnvFloat(key, defaults[class])
		if err != nil {
			return nil, fmt.Errorf("invalid app config: %w", err)
		}
		rates[class] = v
	}
	if err := rates.Validate(); err != nil {
		return nil, fmt.Errorf("invalid app config: %w", err)
	}
	cfg.Rates = rates

	loc, err := time.LoadLocation(getEnv("REPORT_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid app config: REPORT_TIMEZONE: %w", err)
	}
	cfg.ReportLocation = loc

	if cfg.GRPCAddr == "" && cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("invalid app config: GRPC_ADDR and HTTP_ADDR are both empty")
	}

	return cfg, nil
}
