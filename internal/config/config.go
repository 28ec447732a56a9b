// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DBMemory = "memory"
	DBMongo  = "mongodb"
	DBSQLite = "sqlite"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port           int
	Host           string
	MetricsEnabled bool
	RequestTimeout time.Duration
}

// DatabaseConfig holds database configuration settings
type DatabaseConfig struct {
	Type       string // memory, mongodb or sqlite
	MongoURI   string
	MongoDB    string
	SQLitePath string
}

// EngineConfig sizes the actor layer and the store.
type EngineConfig struct {
	Shards        int
	SnapshotCache bool
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Database       *DatabaseConfig
	Engine         *EngineConfig
	AllowedOrigins []string
	Debug          bool
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port:           8080,
		Host:           "0.0.0.0",
		MetricsEnabled: true,
		RequestTimeout: 5 * time.Second,
	}
}

// DefaultDatabaseConfig keeps the pool in memory.
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Type:       DBMemory,
		MongoURI:   "mongodb://localhost:27017",
		MongoDB:    "memehub",
		SQLitePath: "memehub.db",
	}
}

func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Shards:        8,
		SnapshotCache: true,
	}
}

// LoadConfig loads configuration from environment variables and applies
// defaults. A .env file in the working directory or the project root is
// read first; variables already set in the environment win.
func LoadConfig() (*Config, error) {
	for _, location := range []string{".env", "../../.env"} {
		if err := godotenv.Load(location); err == nil {
			break
		}
	}

	serverConfig := DefaultConfig()
	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", portStr)
		}
		serverConfig.Port = port
	}
	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}
	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled != "" {
		serverConfig.MetricsEnabled = metricsEnabled == "true"
	}
	if timeout := os.Getenv("REQUEST_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT %q", timeout)
		}
		serverConfig.RequestTimeout = d
	}

	dbConfig := DefaultDatabaseConfig()
	if dbType := os.Getenv("DB_TYPE"); dbType != "" {
		dbConfig.Type = strings.ToLower(dbType)
	}
	switch dbConfig.Type {
	case DBMemory:
	case DBMongo:
		dbConfig.MongoURI = getEnvOrDefault("MONGODB_URI", dbConfig.MongoURI)
		dbConfig.MongoDB = getEnvOrDefault("MONGODB_DATABASE", dbConfig.MongoDB)
	case DBSQLite:
		dbConfig.SQLitePath = getEnvOrDefault("SQLITE_PATH", dbConfig.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q (want memory, mongodb or sqlite)", dbConfig.Type)
	}

	engineConfig := DefaultEngineConfig()
	if shards := os.Getenv("ENGINE_SHARDS"); shards != "" {
		n, err := strconv.Atoi(shards)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid ENGINE_SHARDS %q", shards)
		}
		engineConfig.Shards = n
	}
	if cache := os.Getenv("SNAPSHOT_CACHE"); cache != "" {
		engineConfig.SnapshotCache = cache != "false"
	}

	config := &Config{
		Server:         serverConfig,
		Database:       dbConfig,
		Engine:         engineConfig,
		AllowedOrigins: []string{"*"}, // Default to allow all origins
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = splitList(origins)
	}
	if debug := os.Getenv("DEBUG"); debug == "true" {
		config.Debug = true
	}

	return config, nil
}

// Address returns host:port for the HTTP listener.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
