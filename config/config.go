// Package config assembles the runtime configuration from defaults,
// an optional .env file, and environment variable overrides.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DatabaseConfig holds the MySQL connection settings used when the
// dataset source is a warehouse instead of CSV files.
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

// DSN renders the driver connection string. Dates stay textual on the
// wire; the loader's own inference types them, same as for CSV cells.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

// Config is the full runtime configuration.
type Config struct {
	// Source selects the dataset loader: "csv" or "mysql".
	Source string `json:"source"`
	// DataDir holds the per-table CSV files for the csv source.
	DataDir  string         `json:"data_dir"`
	Database DatabaseConfig `json:"database"`

	// ListenAddr is the HTTP API bind address.
	ListenAddr string `json:"listen_addr"`
	// RunInterval is the gap between scheduled analysis runs.
	RunInterval time.Duration `json:"run_interval"`
	// ForecastMonths is the trend projection horizon.
	ForecastMonths int  `json:"forecast_months"`
	Verbose        bool `json:"verbose"`
}

// Default configuration values.
var DefaultConfig = Config{
	Source:  "csv",
	DataDir: "data",
	Database: DatabaseConfig{
		Host:   "localhost",
		Port:   3306,
		User:   "root",
		DBName: "sales_analytics",
	},
	ListenAddr:     ":8080",
	RunInterval:    1 * time.Hour,
	ForecastMonths: 6,
}

// Load reads .env when present and applies environment overrides on
// top of the defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment and defaults")
	}

	cfg := DefaultConfig
	cfg.Source = getEnv("ANALYTICS_SOURCE", cfg.Source)
	cfg.DataDir = getEnv("ANALYTICS_DATA_DIR", cfg.DataDir)
	cfg.ListenAddr = getEnv("ANALYTICS_LISTEN_ADDR", cfg.ListenAddr)

	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvInt("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.DBName = getEnv("DB_NAME", cfg.Database.DBName)

	if v := getEnvInt("ANALYTICS_RUN_INTERVAL_MINUTES", 0); v > 0 {
		cfg.RunInterval = time.Duration(v) * time.Minute
	}
	cfg.ForecastMonths = getEnvInt("ANALYTICS_FORECAST_MONTHS", cfg.ForecastMonths)
	cfg.Verbose = getEnvBool("ANALYTICS_VERBOSE", cfg.Verbose)

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
