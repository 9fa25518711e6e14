package config

import (
	"fmt"
	"strings"

	pkgconfig "github.com/wekeepgrowing/trendloop-checkout/pkg/config"
)

const serviceName = "checkout"

type Config struct {
	Service ServiceConfig `yaml:"service"`
	Server  ServerConfig  `yaml:"server"`
	Stripe  StripeConfig  `yaml:"stripe"`
	Webhook WebhookConfig `yaml:"webhook"`
	Redis   RedisConfig   `yaml:"redis"`
	Events  EventsConfig  `yaml:"events"`
	Log     LogConfig     `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

var defaults = map[string]interface{}{
	"service.name":                 serviceName,
	"service.environment":          "development",
	"service.version":              "dev",
	"service.client_url":           "http://localhost:5173",
	"service.cors_allow_origins":   []string{"*"},
	"server.http.host":             "",
	"server.http.port":             3001,
	"server.http.shutdown_timeout": "10s",
	"stripe.timeout":               "30s",
	"webhook.max_body_bytes":       65536,
	"redis.db":                     0,
	"events.channel":               "checkout.events",
	"log.level":                    "info",
	"log.format":                   "json",
	"log.output":                   "stdout",
}

// Environment variable names shared with the front-end .env.
var envBindings = map[string][]string{
	"service.environment":            {"APP_ENV"},
	"service.client_url":             {"VITE_APP_URL", "CLIENT_URL"},
	"service.enable_admin_endpoints": {"ENABLE_ADMIN_ENDPOINTS"},
	"service.cors_allow_origins":     {"CORS_ALLOW_ORIGINS"},
	"server.http.port":               {"PORT"},
	"stripe.secret_key":              {"STRIPE_SECRET_KEY"},
	"stripe.webhook_secret":          {"STRIPE_WEBHOOK_SECRET"},
	"stripe.timeout":                 {"STRIPE_TIMEOUT"},
	"webhook.max_body_bytes":         {"WEBHOOK_MAX_BODY_BYTES"},
	"redis.addr":                     {"REDIS_ADDR"},
	"redis.password":                 {"REDIS_PASSWORD"},
	"redis.db":                       {"REDIS_DB"},
	"events.channel":                 {"EVENTS_CHANNEL"},
	"log.level":                      {"LOG_LEVEL"},
	"log.format":                     {"LOG_FORMAT"},
}

// LoadConfig reads .env files, then configs/<env>/checkout.yaml (optional),
// then the environment. The returned Config is not modified afterwards.
func LoadConfig() (*Config, error) {
	if _, err := pkgconfig.LoadDotEnv(); err != nil {
		return nil, err
	}

	src, err := pkgconfig.Load(serviceName,
		pkgconfig.WithDefaults(defaults),
		pkgconfig.WithEnvBindings(envBindings),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return fromSource(src), nil
}

func fromSource(src pkgconfig.Config) *Config {
	cfg := &Config{}

	cfg.Service.Name = src.GetString("service.name")
	cfg.Service.Environment = src.GetString("service.environment")
	cfg.Service.Version = src.GetString("service.version")
	cfg.Service.ClientURL = strings.TrimRight(src.GetString("service.client_url"), "/")
	cfg.Service.CORSAllowOrigins = splitList(src.GetStringSlice("service.cors_allow_origins"))
	if src.IsSet("service.enable_admin_endpoints") {
		cfg.Service.EnableAdminEndpoints = src.GetBool("service.enable_admin_endpoints")
	} else {
		cfg.Service.EnableAdminEndpoints = cfg.Service.Environment != EnvironmentProduction
	}

	cfg.Server.HTTP.Host = src.GetString("server.http.host")
	cfg.Server.HTTP.Port = src.GetInt("server.http.port")
	cfg.Server.HTTP.ShutdownTimeout = src.GetDuration("server.http.shutdown_timeout")

	cfg.Stripe.SecretKey = src.GetString("stripe.secret_key")
	cfg.Stripe.WebhookSecret = src.GetString("stripe.webhook_secret")
	cfg.Stripe.Timeout = src.GetDuration("stripe.timeout")

	cfg.Webhook.MaxBodyBytes = src.GetInt64("webhook.max_body_bytes")

	cfg.Redis.Addr = src.GetString("redis.addr")
	cfg.Redis.Password = src.GetString("redis.password")
	cfg.Redis.DB = src.GetInt("redis.db")

	cfg.Events.Channel = src.GetString("events.channel")

	cfg.Log.Level = src.GetString("log.level")
	cfg.Log.Format = src.GetString("log.format")
	cfg.Log.Output = src.GetString("log.output")

	return cfg
}

// splitList accepts both YAML lists and a comma separated env value.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
