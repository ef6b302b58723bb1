// Package config loads the process configuration from the environment.
// The resulting value is constructed once in main and injected; nothing
// in the service reads the environment after startup.
package config

import (
	"fmt"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

type Config struct {
	Port int `env:"PORT,default=8086"`

	// Remote filtered-query store (also hosts the identity provider).
	StoreURL     string        `env:"STORE_URL,required=true"`
	StoreAPIKey  string        `env:"STORE_API_KEY,required=true"`
	StoreToken   string        `env:"STORE_SERVICE_TOKEN"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT,default=10s"`

	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE,default=messaging.events"`
	AuditRouting string `env:"AUDIT_ROUTING_KEY,default=audit.messaging"`

	Environment  string `env:"ENVIRONMENT,default=dev"`
	OTLPEndpoint string `env:"OTLP_ENDPOINT"`
}

// Load reads the configuration, honoring an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.StoreToken == "" {
		// The store accepts the API key as a bearer credential when no
		// dedicated service token is issued.
		cfg.StoreToken = cfg.StoreAPIKey
	}
	return cfg, nil
}
