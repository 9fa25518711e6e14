package provider

import (
	"context"

	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/entity"
)

// BillingProvider is the subset of the billing provider's API the relay and
// the provisioning script rely on.
type BillingProvider interface {
	// CreateCheckoutSession creates a hosted checkout page. Every call creates
	// a new remote session unless req.IdempotencyKey repeats a previous one.
	CreateCheckoutSession(ctx context.Context, req *CreateCheckoutSessionRequest) (*entity.CheckoutSession, error)

	// CreateProduct always creates a new product; no lookup by name.
	CreateProduct(ctx context.Context, req *CreateProductRequest) (*entity.Product, error)

	// CreatePrice creates a recurring price under an existing product.
	CreatePrice(ctx context.Context, req *CreatePriceRequest) (*entity.Price, error)

	// ListPrices returns a single page of at most limit prices with their
	// products expanded inline.
	ListPrices(ctx context.Context, limit int64) (*entity.PriceList, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// EventVerifier authenticates a webhook delivery. It must be given the exact
// bytes received on the wire.
type EventVerifier interface {
	ConstructEvent(payload []byte, signatureHeader string) (*entity.WebhookEvent, error)
}

// CreateCheckoutSessionRequest describes a subscription checkout for one price.
type CreateCheckoutSessionRequest struct {
	PriceID        string
	Quantity       int64
	SuccessURL     string
	CancelURL      string
	Metadata       map[string]string
	IdempotencyKey string
}

// CreateProductRequest describes a new catalog product.
type CreateProductRequest struct {
	Name        string
	Description string
}

// CreatePriceRequest describes a recurring price. UnitAmount is already in
// minor units.
type CreatePriceRequest struct {
	ProductID  string
	UnitAmount int64
	Currency   string
	Interval   string
}

// ProviderType represents the type of payment provider
type ProviderType string

const (
	ProviderTypeStripe ProviderType = "stripe"
)

// ProviderError carries the provider's human readable message. Message is
// safe to hand back to the caller verbatim; Details is for logs.
type ProviderError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Err        error  `json:"-"`
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// SignatureError is returned by EventVerifier when a delivery cannot be
// authenticated: missing or malformed header, wrong secret, tampered body or
// a timestamp outside the tolerance window.
type SignatureError struct {
	Reason string
	Err    error
}

func (e *SignatureError) Error() string {
	return e.Reason
}

func (e *SignatureError) Unwrap() error {
	return e.Err
}
