package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	// Relational backend
	DatabaseURL string

	// Legacy warehouse backend
	UseLegacyDB       bool
	LegacyDatabaseURL string
	LegacyDBHost      string
	LegacyDBPort      string
	LegacyDBUser      string
	LegacyDBPassword  string
	LegacyDBName      string

	// Identity
	OwnerOpenID         string
	CasdoorEndpoint     string
	CasdoorClientID     string
	CasdoorClientSecret string
	CasdoorCertificate  string
	CasdoorOrganization string
	CasdoorApplication  string

	RedisURL string

	Events EventConfig
}

func LoadConfig() (*Config, error) {
	// .env is optional; real environments configure through the process env.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		UseLegacyDB:       getBoolEnv("USE_LEGACY_DB", false),
		LegacyDatabaseURL: getEnv("LEGACY_DATABASE_URL", ""),
		LegacyDBHost:      getEnv("LEGACY_DB_HOST", ""),
		LegacyDBPort:      getEnv("LEGACY_DB_PORT", "5432"),
		LegacyDBUser:      getEnv("LEGACY_DB_USER", ""),
		LegacyDBPassword:  getEnv("LEGACY_DB_PASSWORD", ""),
		LegacyDBName:      getEnv("LEGACY_DB_NAME", ""),

		OwnerOpenID:         getEnv("OWNER_OPEN_ID", ""),
		CasdoorEndpoint:     getEnv("CASDOOR_ENDPOINT", ""),
		CasdoorClientID:     getEnv("CASDOOR_CLIENT_ID", ""),
		CasdoorClientSecret: getEnv("CASDOOR_CLIENT_SECRET", ""),
		CasdoorCertificate:  getEnv("CASDOOR_CERTIFICATE", ""),
		CasdoorOrganization: getEnv("CASDOOR_ORGANIZATION", ""),
		CasdoorApplication:  getEnv("CASDOOR_APPLICATION", ""),

		RedisURL: getEnv("REDIS_URL", ""),

		Events: LoadEventConfig(),
	}, nil
}

// LegacyDSN resolves the legacy backend connection string: an explicit URL
// wins, otherwise one is composed from the host/port/name triple. Empty when
// neither is configured.
func (c *Config) LegacyDSN() string {
	if c.LegacyDatabaseURL != "" {
		return c.LegacyDatabaseURL
	}
	if c.LegacyDBHost == "" || c.LegacyDBName == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.LegacyDBUser, c.LegacyDBPassword, c.LegacyDBHost, c.LegacyDBPort, c.LegacyDBName)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
