package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// API Configuration
	v.SetDefault("api.baseURL", "http://localhost:5000/api")
	v.SetDefault("api.timeout", 30*time.Second) // unauthenticated client only
	v.SetDefault("api.maxRetries", 3)           // fetch operations only

	// Rate limiting defaults
	v.SetDefault("api.rateLimit.enabled", false)
	v.SetDefault("api.rateLimit.requestsPerSec", 10)
	v.SetDefault("api.rateLimit.burstCapacity", 20)

	// Circuit Breaker Configuration defaults
	v.SetDefault("api.circuitBreaker.enabled", true)
	v.SetDefault("api.circuitBreaker.maxRequests", 3)
	v.SetDefault("api.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("api.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("api.circuitBreaker.minRequests", 3)
	v.SetDefault("api.circuitBreaker.failureThreshold", 0.6)

	// Auth Configuration
	v.SetDefault("auth.userEmail", "")
	v.SetDefault("auth.token", "")
	v.SetDefault("auth.tokenFile", "")
	v.SetDefault("auth.watchFile", true)

	// Match policy
	v.SetDefault("match.threshold", 30.0)
	v.SetDefault("match.topJobs", 5)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.bearerToken", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "careercrafter")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	// Tracing Configuration
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	// Metrics Configuration
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	// Console Configuration
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	// Prometheus Configuration
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	// OTLP Configuration
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}
