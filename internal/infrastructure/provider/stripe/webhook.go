package stripe

import (
	"encoding/json"
	"time"

	"github.com/stripe/stripe-go/v79/webhook"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/entity"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/provider"
)

// WebhookVerifier checks Stripe-Signature headers against the endpoint secret.
type WebhookVerifier struct {
	secret    string
	tolerance time.Duration
}

// NewWebhookVerifier creates a verifier with Stripe's default timestamp tolerance.
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{
		secret:    secret,
		tolerance: webhook.DefaultTolerance,
	}
}

// ConstructEvent verifies payload against signatureHeader and decodes it.
// payload must be the exact bytes received; any re-encoding breaks the HMAC.
func (v *WebhookVerifier) ConstructEvent(payload []byte, signatureHeader string) (*entity.WebhookEvent, error) {
	if v.secret == "" {
		return nil, &provider.SignatureError{Reason: "webhook secret is not configured"}
	}

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.secret, webhook.ConstructEventOptions{
		Tolerance: v.tolerance,
		// The endpoint's API version is pinned on the dashboard, not by this SDK.
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, &provider.SignatureError{Reason: err.Error(), Err: err}
	}

	var object json.RawMessage
	if event.Data != nil {
		object = event.Data.Raw
	}

	return &entity.WebhookEvent{
		ID:       event.ID,
		Type:     string(event.Type),
		Created:  time.Unix(event.Created, 0).UTC(),
		Livemode: event.Livemode,
		Object:   object,
	}, nil
}
