package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath         string        `env:"DATA_PATH"`
	LogDir           string        `env:"LOGS_FOLDER"`
	DBDriver         string        `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN            string        `env:"DB_DSN"`
	FormID           int           `env:"COMPLAINT_FORM_ID" envDefault:"3"`
	HTTPAddr         string        `env:"HTTP_ADDR" envDefault:":8080"`
	Timezone         string        `env:"TIMEZONE" envDefault:"Asia/Jakarta"`
	MonthLabelLocale string        `env:"MONTH_LABEL_LOCALE" envDefault:"en"`
	CatalogPath      string        `env:"CATALOG_PATH"`
	RedisURL         string        `env:"REDIS_URL"`
	ReportCacheTTL   time.Duration `env:"REPORT_CACHE_TTL" envDefault:"1m"`
	APIRateLimit     float64       `env:"API_RATE_LIMIT" envDefault:"20"`
	APIRateBurst     int           `env:"API_RATE_BURST" envDefault:"40"`

	// Location is Timezone resolved.
	Location *time.Location `env:"-"`
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for deployed binaries)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	return FromEnv(exeDir)
}

// FromEnv parses the process environment. Relative defaults are anchored at baseDir.
func FromEnv(baseDir string) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.resolve(baseDir); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) resolve(baseDir string) error {
	// 1. Resolve data paths
	if c.DataPath == "" {
		c.DataPath = baseDir
		if c.DataPath == "" {
			c.DataPath = "."
		}
	}
	if c.LogDir == "" {
		c.LogDir = filepath.Join(c.DataPath, "logs")
	}

	// 2. Database
	switch c.DBDriver {
	case "sqlite":
		if c.DBDSN == "" {
			c.DBDSN = filepath.Join(c.DataPath, "complaints.db")
		}
	case "postgres":
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or postgres)", c.DBDriver)
	}

	// 3. Report settings
	if c.FormID <= 0 {
		return fmt.Errorf("COMPLAINT_FORM_ID must be positive, got %d", c.FormID)
	}
	switch c.MonthLabelLocale {
	case "en", "id":
	default:
		return fmt.Errorf("unsupported MONTH_LABEL_LOCALE %q (want en or id)", c.MonthLabelLocale)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.Location = loc

	if c.ReportCacheTTL < 0 {
		c.ReportCacheTTL = 0
	}
	return nil
}
