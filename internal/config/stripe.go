package config

import (
	"errors"
	"time"
)

type StripeConfig struct {
	SecretKey     string        `yaml:"secret_key"`
	WebhookSecret string        `yaml:"webhook_secret"`
	Timeout       time.Duration `yaml:"timeout"`
}

type WebhookConfig struct {
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

var ErrMissingSecretKey = errors.New("stripe secret key not configured (STRIPE_SECRET_KEY)")

// Validate checks the settings every provider call depends on.
func (c StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return ErrMissingSecretKey
	}
	return nil
}
