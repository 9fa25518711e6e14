package provider

import (
	"fmt"

	"github.com/wekeepgrowing/trendloop-checkout/internal/config"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/provider"
	stripeProvider "github.com/wekeepgrowing/trendloop-checkout/internal/infrastructure/provider/stripe"
	"go.uber.org/zap"
)

// Factory creates billing providers based on the provider type
type Factory struct {
	config *config.Config
	logger *zap.Logger
}

// NewFactory creates a new provider factory
func NewFactory(config *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		config: config,
		logger: logger,
	}
}

// GetProvider returns a billing provider based on the provider type
func (f *Factory) GetProvider(providerType provider.ProviderType) (provider.BillingProvider, error) {
	switch providerType {
	case provider.ProviderTypeStripe:
		return f.createStripeProvider()
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// GetEventVerifier returns the webhook verifier for the provider type.
// An unset webhook secret still yields a verifier; it rejects every delivery.
func (f *Factory) GetEventVerifier(providerType provider.ProviderType) (provider.EventVerifier, error) {
	switch providerType {
	case provider.ProviderTypeStripe:
		if f.config.Stripe.WebhookSecret == "" {
			f.logger.Warn("Stripe webhook secret not configured, all webhook deliveries will be rejected")
		}
		return stripeProvider.NewWebhookVerifier(f.config.Stripe.WebhookSecret), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// createStripeProvider creates a new Stripe provider instance
func (f *Factory) createStripeProvider() (provider.BillingProvider, error) {
	if err := f.config.Stripe.Validate(); err != nil {
		return nil, err
	}

	return stripeProvider.NewStripeProvider(stripeProvider.Options{
		SecretKey: f.config.Stripe.SecretKey,
		Timeout:   f.config.Stripe.Timeout,
	}, f.logger.Named("stripe")), nil
}
