package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultAlchemyURLTemplate = "https://%s.g.alchemy.com/v2"

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                string `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int    `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds  int    `yaml:"idleTimeoutSeconds"`
	EnablePprof         bool   `yaml:"enablePprof"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// AlchemyConfig holds the indexed balance/metadata API settings.
// BaseURL defaults to the Alchemy host of the selected network.
type AlchemyConfig struct {
	APIKey               string `yaml:"apiKey"`
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	PageSize             int    `yaml:"pageSize"`
}

// RPCConfig holds the node used for on-chain verification.
type RPCConfig struct {
	URL                   string   `yaml:"url"`
	FallbackURLs          []string `yaml:"fallbackURLs"`
	ConnectTimeoutSeconds int      `yaml:"connectTimeoutSeconds"`
	CallTimeoutSeconds    int      `yaml:"callTimeoutSeconds"`
}

// CoinGeckoConfig holds CoinGecko API specific configurations.
type CoinGeckoConfig struct {
	APIKey               string `yaml:"apiKey"`
	APIKeyHeader         string `yaml:"apiKeyHeader"`
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	MinDelayMillis       int64  `yaml:"minDelayMillis"`
	MaxRetries           *int   `yaml:"maxRetries"` // nil means default; 0 disables retries
	MaxTokens            int    `yaml:"maxTokens"`
}

// PortfolioConfig holds aggregator limits and stage timeouts.
type PortfolioConfig struct {
	DefaultMaxTokens        int `yaml:"defaultMaxTokens"`
	MaxConcurrentRoutines   int `yaml:"maxConcurrentRoutines"`
	DiscoveryTimeoutSeconds int `yaml:"discoveryTimeoutSeconds"`
	ItemTimeoutSeconds      int `yaml:"itemTimeoutSeconds"`
	PriceBudgetSeconds      int `yaml:"priceBudgetSeconds"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Network   string          `yaml:"network"`
	Alchemy   AlchemyConfig   `yaml:"alchemy"`
	RPC       RPCConfig       `yaml:"rpc"`
	CoinGecko CoinGeckoConfig `yaml:"coingecko"`
	Portfolio PortfolioConfig `yaml:"portfolio"`
}

// Default returns a config with every default applied and no secrets set.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the YAML file at path, applies defaults and then environment overrides.
// A missing file is not an error: the service can run on defaults plus environment.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	// Writes can take as long as the slowest price run.
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 120
	}
	if cfg.Server.IdleTimeoutSeconds <= 0 {
		cfg.Server.IdleTimeoutSeconds = 60
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Network == "" {
		cfg.Network = "ethereum"
	}

	if cfg.Alchemy.RequestTimeoutMillis <= 0 {
		cfg.Alchemy.RequestTimeoutMillis = 10000
	}
	if cfg.Alchemy.PageSize <= 0 {
		cfg.Alchemy.PageSize = 100
	}

	if cfg.RPC.ConnectTimeoutSeconds <= 0 {
		cfg.RPC.ConnectTimeoutSeconds = 5
	}
	if cfg.RPC.CallTimeoutSeconds <= 0 {
		cfg.RPC.CallTimeoutSeconds = 10
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.CoinGecko.RequestTimeoutMillis <= 0 {
		cfg.CoinGecko.RequestTimeoutMillis = 10000
	}
	if cfg.CoinGecko.MinDelayMillis <= 0 {
		cfg.CoinGecko.MinDelayMillis = 1200
	}
	switch {
	case cfg.CoinGecko.MaxRetries == nil:
		cfg.CoinGecko.MaxRetries = intPtr(2)
	case *cfg.CoinGecko.MaxRetries < 0:
		cfg.CoinGecko.MaxRetries = intPtr(0)
	}
	if cfg.CoinGecko.MaxTokens <= 0 {
		cfg.CoinGecko.MaxTokens = 15
	}

	if cfg.Portfolio.DefaultMaxTokens <= 0 {
		cfg.Portfolio.DefaultMaxTokens = 50
	}
	if cfg.Portfolio.MaxConcurrentRoutines <= 0 {
		cfg.Portfolio.MaxConcurrentRoutines = 10
	}
	if cfg.Portfolio.DiscoveryTimeoutSeconds <= 0 {
		cfg.Portfolio.DiscoveryTimeoutSeconds = 20
	}
	if cfg.Portfolio.ItemTimeoutSeconds <= 0 {
		cfg.Portfolio.ItemTimeoutSeconds = 10
	}
	if cfg.Portfolio.PriceBudgetSeconds <= 0 {
		cfg.Portfolio.PriceBudgetSeconds = 60
	}
}

func (cfg *Config) applyEnv() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"ALCHEMY_API_KEY", &cfg.Alchemy.APIKey},
		{"ETH_RPC_URL", &cfg.RPC.URL},
		{"COINGECKO_API_KEY", &cfg.CoinGecko.APIKey},
		{"SERVER_PORT", &cfg.Server.Port},
		{"LOG_LEVEL", &cfg.Logging.Level},
		{"NETWORK", &cfg.Network},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.env)); v != "" {
			*o.target = v
		}
	}
}

// Validate reports missing settings the service cannot start without.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.Alchemy.APIKey == "" {
		errs = append(errs, errors.New("alchemy.apiKey (ALCHEMY_API_KEY) is required"))
	}
	if cfg.RPC.URL == "" {
		errs = append(errs, errors.New("rpc.url (ETH_RPC_URL) is required"))
	}
	return errors.Join(errs...)
}

// AlchemyEndpoint returns the JSON-RPC URL for the given Alchemy network subdomain,
// with the API key as the final path segment.
func (cfg *Config) AlchemyEndpoint(alchemyNetwork string) string {
	base := cfg.Alchemy.BaseURL
	if base == "" {
		base = fmt.Sprintf(defaultAlchemyURLTemplate, alchemyNetwork)
	}
	return strings.TrimRight(base, "/") + "/" + cfg.Alchemy.APIKey
}

// RPCURLs returns the primary verification node followed by its fallbacks.
func (cfg *Config) RPCURLs() []string {
	urls := make([]string, 0, 1+len(cfg.RPC.FallbackURLs))
	if cfg.RPC.URL != "" {
		urls = append(urls, cfg.RPC.URL)
	}
	return append(urls, cfg.RPC.FallbackURLs...)
}

func intPtr(v int) *int { return &v }

func millis(v int64) time.Duration { return time.Duration(v) * time.Millisecond }

func seconds(v int) time.Duration { return time.Duration(v) * time.Second }

func (c AlchemyConfig) RequestTimeout() time.Duration { return millis(c.RequestTimeoutMillis) }

func (c CoinGeckoConfig) RequestTimeout() time.Duration { return millis(c.RequestTimeoutMillis) }

func (c CoinGeckoConfig) MinDelay() time.Duration { return millis(c.MinDelayMillis) }

// Retries returns the number of extra attempts after a rate-limited price request.
func (c CoinGeckoConfig) Retries() int {
	if c.MaxRetries == nil {
		return 0
	}
	return *c.MaxRetries
}

func (c RPCConfig) ConnectTimeout() time.Duration { return seconds(c.ConnectTimeoutSeconds) }

func (c RPCConfig) CallTimeout() time.Duration { return seconds(c.CallTimeoutSeconds) }

func (c PortfolioConfig) DiscoveryTimeout() time.Duration { return seconds(c.DiscoveryTimeoutSeconds) }

func (c PortfolioConfig) ItemTimeout() time.Duration { return seconds(c.ItemTimeoutSeconds) }

func (c PortfolioConfig) PriceBudget() time.Duration { return seconds(c.PriceBudgetSeconds) }

func (c ServerConfig) ReadTimeout() time.Duration { return seconds(c.ReadTimeoutSeconds) }

func (c ServerConfig) WriteTimeout() time.Duration { return seconds(c.WriteTimeoutSeconds) }

func (c ServerConfig) IdleTimeout() time.Duration { return seconds(c.IdleTimeoutSeconds) }
