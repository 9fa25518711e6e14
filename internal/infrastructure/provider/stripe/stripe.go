package stripe

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/entity"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/provider"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Options configures a StripeProvider.
type Options struct {
	SecretKey string
	// Timeout bounds every API call. Zero means 30s.
	Timeout time.Duration
	// BackendURL overrides https://api.stripe.com (tests, stripe-mock).
	BackendURL string
	HTTPClient *http.Client
}

// StripeProvider implements provider.BillingProvider on top of a dedicated
// stripe-go client. It never touches the package level stripe.Key.
type StripeProvider struct {
	api     *client.API
	timeout time.Duration
	logger  *zap.Logger
}

// NewStripeProvider creates a new Stripe provider. The SDK's automatic network
// retries are disabled: a failed call is reported, never replayed.
func NewStripeProvider(opts Options, logger *zap.Logger) *StripeProvider {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	backendConfig := &stripe.BackendConfig{
		HTTPClient:        httpClient,
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     logger.Sugar(),
	}
	if opts.BackendURL != "" {
		backendConfig.URL = stripe.String(opts.BackendURL)
	}

	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendConfig),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig),
	}

	return &StripeProvider{
		api:     client.New(opts.SecretKey, backends),
		timeout: timeout,
		logger:  logger,
	}
}

// GetProviderName returns the provider name
func (s *StripeProvider) GetProviderName() string {
	return string(provider.ProviderTypeStripe)
}

// callContext detaches the call from the caller's cancellation (a browser
// hanging up must not abort an issued call) and applies the call timeout.
func (s *StripeProvider) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
}

// CreateCheckoutSession creates a subscription mode Checkout Session.
func (s *StripeProvider) CreateCheckoutSession(ctx context.Context, req *provider.CreateCheckoutSessionRequest) (*entity.CheckoutSession, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(quantity),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, toProviderError(err)
	}

	return &entity.CheckoutSession{
		ID:       sess.ID,
		URL:      sess.URL,
		Mode:     string(sess.Mode),
		Metadata: sess.Metadata,
	}, nil
}

// CreateProduct creates a new product. Stripe does not dedupe by name.
func (s *StripeProvider) CreateProduct(ctx context.Context, req *provider.CreateProductRequest) (*entity.Product, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	params := &stripe.ProductParams{
		Name: stripe.String(req.Name),
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	params.Context = ctx

	prod, err := s.api.Products.New(params)
	if err != nil {
		return nil, toProviderError(err)
	}
	return toProduct(prod), nil
}

// CreatePrice creates a recurring price under req.ProductID.
func (s *StripeProvider) CreatePrice(ctx context.Context, req *provider.CreatePriceRequest) (*entity.Price, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	params := &stripe.PriceParams{
		Currency:   stripe.String(req.Currency),
		UnitAmount: stripe.Int64(req.UnitAmount),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(req.Interval),
		},
		Product: stripe.String(req.ProductID),
	}
	params.Context = ctx

	p, err := s.api.Prices.New(params)
	if err != nil {
		return nil, toProviderError(err)
	}
	return toPrice(p), nil
}

// ListPrices fetches the first page only; callers asking for more than one
// page of prices are out of scope. The page body is kept verbatim in Raw.
func (s *StripeProvider) ListPrices(ctx context.Context, limit int64) (*entity.PriceList, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	params := &stripe.PriceListParams{}
	params.Limit = stripe.Int64(limit)
	params.Single = true
	params.AddExpand("data.product")
	params.Context = ctx

	iter := s.api.Prices.List(params)

	list := &entity.PriceList{
		Object: "list",
		Data:   make([]*entity.Price, 0),
	}
	for iter.Next() {
		list.Data = append(list.Data, toPrice(iter.Price()))
	}
	if err := iter.Err(); err != nil {
		return nil, toProviderError(err)
	}

	if page := iter.PriceList(); page != nil {
		list.URL = page.URL
		list.HasMore = page.HasMore
		if page.LastResponse != nil {
			list.Raw = page.LastResponse.RawJSON
		}
	}
	return list, nil
}

func toProduct(p *stripe.Product) *entity.Product {
	if p == nil {
		return nil
	}
	return &entity.Product{
		ID:          p.ID,
		Object:      "product",
		Name:        p.Name,
		Description: p.Description,
		Active:      p.Active,
	}
}

func toPrice(p *stripe.Price) *entity.Price {
	price := &entity.Price{
		ID:         p.ID,
		Object:     "price",
		Active:     p.Active,
		Currency:   string(p.Currency),
		UnitAmount: p.UnitAmount,
	}
	if p.Recurring != nil {
		price.Recurring = &entity.Recurring{
			Interval:      string(p.Recurring.Interval),
			IntervalCount: p.Recurring.IntervalCount,
		}
	}
	if p.Product != nil {
		price.ProductID = p.Product.ID
		// An unexpanded product only carries its ID.
		if p.Product.Name != "" || p.Product.Object != "" {
			price.Product = toProduct(p.Product)
		}
	}
	return price
}

// toProviderError keeps Stripe's human message (stripe.Error.Error() renders
// the whole error as JSON).
func toProviderError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		message := stripeErr.Msg
		if message == "" {
			message = string(stripeErr.Type)
		}
		return &provider.ProviderError{
			Code:       string(stripeErr.Code),
			Message:    message,
			StatusCode: stripeErr.HTTPStatusCode,
			Err:        err,
		}
	}
	return &provider.ProviderError{
		Code:    "api_connection_error",
		Message: err.Error(),
		Err:     err,
	}
}
