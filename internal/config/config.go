package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"monad-explorer/internal/validation"
)

// Config holds all configuration for the application
type Config struct {
	LogLevel  string
	LogFormat string
	HTTP      HTTPConfig
	API       APIConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Chain     ChainConfig
	UI        UIConfig
	Health    HealthConfig
}

// HTTPConfig holds the page server configuration
type HTTPConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// APIConfig holds the indexing API client configuration
type APIConfig struct {
	BaseURL    string
	ApiKey     string
	RateLimit  float64
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// RedisConfig holds Redis configuration. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// KafkaConfig holds Kafka configuration. An empty BrokerAddress disables
// publishing of search events.
type KafkaConfig struct {
	BrokerAddress string
	Topic         string
}

// ChainConfig describes the network shown by the explorer and offered to
// wallets
type ChainConfig struct {
	ChainID             uint64
	Name                string
	CurrencyName        string
	CurrencySymbol      string
	CurrencyDecimals    int
	RpcURL              string
	ExplorerURL         string
	ExternalExplorerURL string
	WalletRpcEndpoint   string
}

// UIConfig holds presentation defaults
type UIConfig struct {
	DefaultTheme string
}

// HealthConfig holds readiness probe configuration
type HealthConfig struct {
	ProbeInterval time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Not fatal, as env vars might be set externally
	_ = godotenv.Load()

	config := &Config{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
		HTTP: HTTPConfig{
			Addr:         getEnv("HTTP_ADDR", ":3000"),
			ReadTimeout:  getEnvAsDuration("HTTP_READ_TIMEOUT", 15, time.Second),
			WriteTimeout: getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30, time.Second),
		},
		API: APIConfig{
			BaseURL:    getEnv("API_BASE_URL", "https://api.moggi.tools/v1"),
			ApiKey:     getEnv("API_KEY", ""),
			RateLimit:  getEnvAsFloat("API_RATE_LIMIT", 20),
			MaxRetries: getEnvAsInt("MAX_RETRIES", 2),
			RetryDelay: getEnvAsDuration("RETRY_DELAY", 250, time.Millisecond),
			Timeout:    getEnvAsDuration("HTTP_TIMEOUT", 10, time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      getEnvAsDuration("CACHE_TTL", 3600, time.Second),
		},
		Kafka: KafkaConfig{
			BrokerAddress: getEnv("KAFKA_BROKER_ADDRESS", ""),
			Topic:         getEnv("KAFKA_TOPIC", "explorer-searches"),
		},
		Chain: ChainConfig{
			ChainID:             uint64(getEnvAsInt("CHAIN_ID", 143)),
			Name:                getEnv("CHAIN_NAME", "Monad Mainnet"),
			CurrencyName:        getEnv("CURRENCY_NAME", "Monad"),
			CurrencySymbol:      getEnv("CURRENCY_SYMBOL", "MON"),
			CurrencyDecimals:    getEnvAsInt("CURRENCY_DECIMALS", 18),
			RpcURL:              getEnv("CHAIN_RPC_URL", "https://rpc-mainnet.monadinfra.com"),
			ExplorerURL:         getEnv("EXPLORER_URL", "https://mainnet.moggi.tools"),
			ExternalExplorerURL: getEnv("EXTERNAL_EXPLORER_URL", "https://monadscan.com"),
			WalletRpcEndpoint:   getEnv("WALLET_RPC_ENDPOINT", ""),
		},
		UI: UIConfig{
			DefaultTheme: getEnv("DEFAULT_THEME", "dark"),
		},
		Health: HealthConfig{
			ProbeInterval: getEnvAsDuration("HEALTH_PROBE_INTERVAL", 10, time.Second),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	urls := map[string]string{
		"API_BASE_URL":          c.API.BaseURL,
		"CHAIN_RPC_URL":         c.Chain.RpcURL,
		"EXPLORER_URL":          c.Chain.ExplorerURL,
		"EXTERNAL_EXPLORER_URL": c.Chain.ExternalExplorerURL,
	}
	if c.Chain.WalletRpcEndpoint != "" {
		urls["WALLET_RPC_ENDPOINT"] = c.Chain.WalletRpcEndpoint
	}
	for key, value := range urls {
		if err := validation.ValidateURL(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
	}
	if c.Chain.ChainID == 0 {
		return fmt.Errorf("invalid CHAIN_ID: must be positive")
	}
	if c.Chain.CurrencyDecimals < 0 {
		return fmt.Errorf("invalid CURRENCY_DECIMALS: must not be negative")
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat gets an environment variable as float64 or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDuration reads an integer count of unit
func getEnvAsDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultValue)) * unit
}
