package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/entity"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/provider"
	"github.com/wekeepgrowing/trendloop-checkout/internal/infrastructure/metrics"
	apperrors "github.com/wekeepgrowing/trendloop-checkout/pkg/errors"
	"github.com/wekeepgrowing/trendloop-checkout/pkg/messaging"
	"go.uber.org/zap"
)

// WebhookUseCase verifies provider callbacks and dispatches them by type.
// Branches only log; when a publisher is configured every verified event is
// also forwarded so downstream services can act on it.
type WebhookUseCase struct {
	verifier  provider.EventVerifier
	publisher messaging.Publisher
	channel   string
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// WebhookOption configures a WebhookUseCase
type WebhookOption func(*WebhookUseCase)

// WithEventPublisher forwards verified events to channel.
func WithEventPublisher(publisher messaging.Publisher, channel string) WebhookOption {
	return func(u *WebhookUseCase) {
		u.publisher = publisher
		u.channel = channel
	}
}

// NewWebhookUseCase creates a new WebhookUseCase instance
func NewWebhookUseCase(verifier provider.EventVerifier, m *metrics.Metrics, logger *zap.Logger, opts ...WebhookOption) *WebhookUseCase {
	u := &WebhookUseCase{
		verifier: verifier,
		metrics:  m,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// checkoutSessionSummary is the part of a checkout.session object worth logging
type checkoutSessionSummary struct {
	ID              string            `json:"id"`
	Customer        string            `json:"customer"`
	Subscription    string            `json:"subscription"`
	AmountTotal     int64             `json:"amount_total"`
	Currency        string            `json:"currency"`
	PaymentStatus   string            `json:"payment_status"`
	Metadata        map[string]string `json:"metadata"`
	CustomerDetails *struct {
		Email string `json:"email"`
	} `json:"customer_details"`
}

// invoiceSummary is the part of an invoice object worth logging
type invoiceSummary struct {
	ID               string `json:"id"`
	Customer         string `json:"customer"`
	Subscription     string `json:"subscription"`
	AmountPaid       int64  `json:"amount_paid"`
	AmountDue        int64  `json:"amount_due"`
	Currency         string `json:"currency"`
	AttemptCount     int64  `json:"attempt_count"`
	BillingReason    string `json:"billing_reason"`
	HostedInvoiceURL string `json:"hosted_invoice_url"`
}

// HandleWebhook verifies payload against signatureHeader and dispatches the
// event. A returned error always means verification failed and no branch ran.
// Once verified the event is acknowledged whatever the branch does.
func (u *WebhookUseCase) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) (*entity.WebhookEvent, error) {
	event, err := u.verifier.ConstructEvent(payload, signatureHeader)
	if err != nil {
		u.metrics.RecordWebhookEvent("", metrics.OutcomeRejected)
		u.logger.Warn("Webhook signature verification failed", zap.Error(err))

		message := err.Error()
		var sigErr *provider.SignatureError
		if errors.As(err, &sigErr) {
			message = sigErr.Reason
		}
		return nil, apperrors.NewAppError(apperrors.ErrWebhookSignature, message, err)
	}

	outcome := u.dispatch(event)
	u.metrics.RecordWebhookEvent(event.Type, outcome)
	u.publish(ctx, event)

	return event, nil
}

func (u *WebhookUseCase) dispatch(event *entity.WebhookEvent) string {
	logger := u.logger.With(
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.Bool("livemode", event.Livemode))

	switch event.Type {
	case entity.EventCheckoutSessionCompleted:
		var session checkoutSessionSummary
		if err := json.Unmarshal(event.Object, &session); err != nil {
			logger.Warn("Failed to decode checkout session", zap.Error(err))
			return metrics.OutcomeHandled
		}
		email := ""
		if session.CustomerDetails != nil {
			email = session.CustomerDetails.Email
		}
		logger.Info("Payment successful",
			zap.String("session_id", session.ID),
			zap.String("customer", session.Customer),
			zap.String("customer_email", email),
			zap.String("subscription", session.Subscription),
			zap.Int64("amount_total", session.AmountTotal),
			zap.String("currency", session.Currency),
			zap.String("payment_status", session.PaymentStatus),
			zap.String("plan_name", session.Metadata["planName"]),
			zap.String("billing_period", session.Metadata["billingPeriod"]))

	case entity.EventInvoicePaymentSucceeded:
		var invoice invoiceSummary
		if err := json.Unmarshal(event.Object, &invoice); err != nil {
			logger.Warn("Failed to decode invoice", zap.Error(err))
			return metrics.OutcomeHandled
		}
		logger.Info("Invoice payment succeeded",
			zap.String("invoice_id", invoice.ID),
			zap.String("customer", invoice.Customer),
			zap.String("subscription", invoice.Subscription),
			zap.Int64("amount_paid", invoice.AmountPaid),
			zap.String("currency", invoice.Currency),
			zap.String("billing_reason", invoice.BillingReason))

	case entity.EventInvoicePaymentFailed:
		var invoice invoiceSummary
		if err := json.Unmarshal(event.Object, &invoice); err != nil {
			logger.Warn("Failed to decode invoice", zap.Error(err))
			return metrics.OutcomeHandled
		}
		logger.Warn("Invoice payment failed",
			zap.String("invoice_id", invoice.ID),
			zap.String("customer", invoice.Customer),
			zap.String("subscription", invoice.Subscription),
			zap.Int64("amount_due", invoice.AmountDue),
			zap.String("currency", invoice.Currency),
			zap.Int64("attempt_count", invoice.AttemptCount),
			zap.String("hosted_invoice_url", invoice.HostedInvoiceURL))

	default:
		// Unknown types are forward compatible, never an error.
		logger.Warn("Unhandled event type")
		return metrics.OutcomeUnhandled
	}

	return metrics.OutcomeHandled
}

func (u *WebhookUseCase) publish(ctx context.Context, event *entity.WebhookEvent) {
	if u.publisher == nil {
		return
	}
	if err := u.publisher.Publish(ctx, u.channel, event); err != nil {
		u.logger.Error("Failed to publish webhook event",
			zap.String("event_id", event.ID),
			zap.String("channel", u.channel),
			zap.Error(err))
	}
}
