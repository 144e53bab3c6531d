package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultDatasetURL is the Vienna snapshot the dashboard was built around
const DefaultDatasetURL = "http://data.insideairbnb.com/austria/vienna/vienna/2020-06-16/visualisations/listings.csv"

// Source kinds
const (
	SourceHTTP     = "http"
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceMongo    = "mongo"
)

// Config holds all application-level configuration
type Config struct {
	// Dataset
	Source        string        `yaml:"source"`
	DatasetURL    string        `yaml:"dataset_url"`
	DatasetFile   string        `yaml:"dataset_file"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	FetchAttempts int           `yaml:"fetch_attempts"` // 1 means no retry

	// Database
	DatabaseURL   string `yaml:"database_url"`
	DatabaseTable string `yaml:"database_table"`

	// Mongo
	MongoURI        string `yaml:"mongo_uri"`
	MongoDatabase   string `yaml:"mongo_database"`
	MongoCollection string `yaml:"mongo_collection"`

	// Server
	ListenAddr string `yaml:"listen_addr"`

	// Logging
	LogLevel    string `yaml:"log_level"`
	Environment string `yaml:"environment"`

	// Snapshot
	SnapshotPath string `yaml:"snapshot_path"`
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		Source:          SourceHTTP,
		DatasetURL:      DefaultDatasetURL,
		DatasetFile:     "data/listings.csv",
		FetchTimeout:    60 * time.Second,
		FetchAttempts:   1,
		DatabaseURL:     "postgres://localhost:5432/airbnb?sslmode=disable",
		DatabaseTable:   "listings",
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "airbnb",
		MongoCollection: "listings",
		ListenAddr:      ":8501",
		LogLevel:        "info",
		Environment:     "production",
		SnapshotPath:    "output/dashboard.png",
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if it exists),
// then a .env file in the working directory (if it exists), then environment variables.
// The result is not validated; callers apply their overrides and then call Validate.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	// Keys absent from the file keep their current value
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Source = getEnv("DATASET_SOURCE", c.Source)
	c.DatasetURL = getEnv("DATASET_URL", c.DatasetURL)
	c.DatasetFile = getEnv("DATASET_FILE", c.DatasetFile)
	c.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", c.FetchTimeout)
	c.FetchAttempts = getEnvInt("FETCH_ATTEMPTS", c.FetchAttempts)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.DatabaseTable = getEnv("DATABASE_TABLE", c.DatabaseTable)
	c.MongoURI = getEnv("MONGO_URI", c.MongoURI)
	c.MongoDatabase = getEnv("MONGO_DATABASE", c.MongoDatabase)
	c.MongoCollection = getEnv("MONGO_COLLECTION", c.MongoCollection)
	c.ListenAddr = getEnv("LISTEN_ADDR", c.ListenAddr)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Environment = getEnv("ENV", c.Environment)
	c.SnapshotPath = getEnv("SNAPSHOT_PATH", c.SnapshotPath)
}

// Validate checks the settings that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Source {
	case SourceHTTP:
		if c.DatasetURL == "" {
			return errors.New("dataset_url is required for the http source")
		}
	case SourceFile:
		if c.DatasetFile == "" {
			return errors.New("dataset_file is required for the file source")
		}
	case SourcePostgres:
		if c.DatabaseURL == "" || c.DatabaseTable == "" {
			return errors.New("database_url and database_table are required for the postgres source")
		}
	case SourceMongo:
		if c.MongoURI == "" || c.MongoCollection == "" {
			return errors.New("mongo_uri and mongo_collection are required for the mongo source")
		}
	default:
		return fmt.Errorf("unknown dataset source %q", c.Source)
	}
	if c.FetchTimeout <= 0 {
		return errors.New("fetch_timeout must be positive")
	}
	return nil
}

// Development reports whether human-readable logs were requested
func (c *Config) Development() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
