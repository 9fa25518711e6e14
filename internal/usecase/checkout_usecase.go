package usecase

import (
	"context"
	"net/url"
	"strings"

	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/provider"
	"github.com/wekeepgrowing/trendloop-checkout/internal/infrastructure/metrics"
	apperrors "github.com/wekeepgrowing/trendloop-checkout/pkg/errors"
	"go.uber.org/zap"
)

// CheckoutUseCase turns a plan selection into a hosted checkout page URL.
type CheckoutUseCase struct {
	billing   provider.BillingProvider
	clientURL string
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewCheckoutUseCase creates a new CheckoutUseCase instance
func NewCheckoutUseCase(
	billing provider.BillingProvider,
	clientURL string,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		billing:   billing,
		clientURL: strings.TrimRight(clientURL, "/"),
		metrics:   m,
		logger:    logger,
	}
}

// CreateCheckoutSessionRequest represents a plan selection from the pricing page
type CreateCheckoutSessionRequest struct {
	PriceID       string
	PlanName      string
	BillingPeriod string
	// IdempotencyKey is optional. Without it every call creates a new session.
	IdempotencyKey string
}

// CreateCheckoutSession creates a subscription checkout session and returns
// only its redirect URL.
func (u *CheckoutUseCase) CreateCheckoutSession(ctx context.Context, req *CreateCheckoutSessionRequest) (string, error) {
	if strings.TrimSpace(req.PriceID) == "" {
		u.metrics.RecordCheckoutSession(metrics.OutcomeInvalid)
		return "", apperrors.InvalidArgument("Price ID is required")
	}

	u.logger.Info("Creating checkout session",
		zap.String("price_id", req.PriceID),
		zap.String("plan_name", req.PlanName),
		zap.String("billing_period", req.BillingPeriod),
		zap.Bool("idempotent", req.IdempotencyKey != ""))

	session, err := u.billing.CreateCheckoutSession(ctx, &provider.CreateCheckoutSessionRequest{
		PriceID:    req.PriceID,
		Quantity:   1,
		SuccessURL: u.successURL(req.PlanName),
		CancelURL:  u.cancelURL(),
		Metadata: map[string]string{
			"planName":      req.PlanName,
			"billingPeriod": req.BillingPeriod,
		},
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		u.metrics.RecordCheckoutSession(metrics.OutcomeProviderError)
		appErr := providerFailure(err)
		apperrors.LogError(u.logger, appErr, "Error creating checkout session",
			zap.String("price_id", req.PriceID))
		return "", appErr
	}

	u.metrics.RecordCheckoutSession(metrics.OutcomeSuccess)
	u.logger.Info("Checkout session created",
		zap.String("session_id", session.ID),
		zap.String("price_id", req.PriceID))

	return session.URL, nil
}

// componentUnescaper undoes the parts of url.QueryEscape that a URI
// component encoder leaves alone: spaces become %20 and !'()* stay literal.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// successURL embeds the plan name so the pricing page can show a confirmation.
func (u *CheckoutUseCase) successURL(planName string) string {
	plan := componentUnescaper.Replace(url.QueryEscape(planName))
	return u.clientURL + "?success=true&plan=" + plan
}

func (u *CheckoutUseCase) cancelURL() string {
	return u.clientURL + "?canceled=true"
}
