package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// Bearer Token Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File / Environment values (CAREERCRAFTER_AUTH_TOKEN)
// 3. Token file on disk - Lowest priority
type Config struct {
	API           APIConfig           `mapstructure:"api"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Match         MatchConfig         `mapstructure:"match"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// APIConfig holds the Career Crafter backend client configuration
type APIConfig struct {
	BaseURL        string               `mapstructure:"baseURL"`
	Timeout        time.Duration        `mapstructure:"timeout"` // unauthenticated client only
	MaxRetries     int                  `mapstructure:"maxRetries"`
	RateLimit      RateLimitConfig      `mapstructure:"rateLimit"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// RateLimitConfig throttles outbound calls to the backend
type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	RequestsPerSec int  `mapstructure:"requestsPerSec"`
	BurstCapacity  int  `mapstructure:"burstCapacity"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// AuthConfig holds bearer-token sourcing configuration. The token is
// always sourced, never minted; auth protocol is the backend's job.
type AuthConfig struct {
	UserEmail string `mapstructure:"userEmail"` // authenticated identity for network operations
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	WatchFile bool   `mapstructure:"watchFile"` // reload tokenFile on rotation
}

// MatchConfig tunes the top-jobs ranking policy
type MatchConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	TopJobs   int     `mapstructure:"topJobs"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	ServiceName     string  `mapstructure:"serviceName"`
	ServiceVersion  string  `mapstructure:"serviceVersion"`
	ServiceInstance string  `mapstructure:"serviceInstance"`
	ConsoleOutput   bool    `mapstructure:"consoleOutput"`
	SampleRate      float64 `mapstructure:"sampleRate"`

	Tracing    TracingConfig      `mapstructure:"tracing"`
	Metrics    MetricsConfig      `mapstructure:"metrics"`
	Console    ConsoleConfig      `mapstructure:"console"`
	Prometheus PrometheusSettings `mapstructure:"prometheus"`
	OTLP       OTLPConfig         `mapstructure:"otlp"`
}

// TracingConfig holds tracing-specific configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics-specific configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console exporter configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// PrometheusSettings holds Prometheus exporter configuration
type PrometheusSettings struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// LoadConfig loads configuration from defaults, config file and
// environment, then resolves the bearer token through its precedence
// chain.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set up environment variable handling
	v.SetEnvPrefix("CAREERCRAFTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set up config file handling
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/careercrafter/")
	v.AddConfigPath("$HOME/.careercrafter")
	v.AddConfigPath(".")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileUsed = v.ConfigFileUsed()
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()
	config.logConfigurationSources(configFileUsed)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks the configuration for usability
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.baseURL is required")
	}
	if _, err := url.Parse(c.API.BaseURL); err != nil {
		return fmt.Errorf("api.baseURL is not a valid URL: %w", err)
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.maxRetries must not be negative")
	}
	if c.Match.Threshold < 0 || c.Match.Threshold > 100 {
		return fmt.Errorf("match.threshold must be in [0, 100]")
	}
	if c.Match.TopJobs < 1 {
		return fmt.Errorf("match.topJobs must be at least 1")
	}
	if c.Observability.SampleRate < 0 || c.Observability.SampleRate > 1 {
		return fmt.Errorf("observability.sampleRate must be in [0, 1]")
	}
	return nil
}

// ResolveToken resolves the bearer token through the precedence chain:
// an explicitly configured token wins, otherwise the token file is
// read. Vault, when enabled, overrides both via ApplyVaultSecrets
// before this is called.
func (c *Config) ResolveToken() (string, error) {
	if c.Auth.Token != "" {
		return c.Auth.Token, nil
	}

	if c.Auth.TokenFile != "" {
		data, err := os.ReadFile(c.Auth.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read token file %s: %w", c.Auth.TokenFile, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	return "", nil
}

// applyFallbacks applies environment variable fallbacks and derived
// defaults
func (c *Config) applyFallbacks() {
	// Legacy env var kept for pre-rename deployments.
	if c.Auth.Token == "" {
		if token := os.Getenv("CAREER_CRAFTER_TOKEN"); token != "" {
			c.Auth.Token = token
		}
	}

	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	// Try to get hostname, fallback to default
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"CAREERCRAFTER_API_BASEURL",
		"CAREERCRAFTER_AUTH_TOKEN",
		"CAREERCRAFTER_AUTH_TOKENFILE",
		"CAREERCRAFTER_AUTH_USEREMAIL",
		"CAREERCRAFTER_APP_LOGLEVEL",
		"CAREERCRAFTER_VAULT_ENABLED",
		"CAREER_CRAFTER_TOKEN", // Legacy support
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			// Mask sensitive values
			if strings.Contains(strings.ToLower(envVar), "token") {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] API Base URL: %s", c.API.BaseURL)
	log.Printf("[CONFIG] User Email: %s", c.Auth.UserEmail)
	if c.Auth.Token != "" {
		log.Println("[CONFIG] Bearer Token: ***CONFIGURED***")
	} else if c.Auth.TokenFile != "" {
		log.Printf("[CONFIG] Bearer Token File: %s", c.Auth.TokenFile)
	} else {
		log.Println("[CONFIG] Bearer Token: ***NOT SET***")
	}
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Match Threshold: %.0f", c.Match.Threshold)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)
	log.Println("[CONFIG] =====================================")
}
