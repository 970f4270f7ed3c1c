package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Sweep    SweepConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	URL string
}

// SweepConfig controls the scheduled low-stock sweep.
type SweepConfig struct {
	Enabled bool
	// Cron spec, standard 5 fields. Default: every day at 08:00.
	Schedule string
}

func Load() *Config {
	_ = godotenv.Load()

	sweepEnabled, _ := strconv.ParseBool(getEnv("LOW_STOCK_SWEEP_ENABLED", "true"))

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Sweep: SweepConfig{
			Enabled:  sweepEnabled,
			Schedule: getEnv("LOW_STOCK_SWEEP_CRON", "0 8 * * *"),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
