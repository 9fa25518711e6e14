package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/trendloop-checkout/internal/middleware/rawbody"
	"github.com/wekeepgrowing/trendloop-checkout/internal/usecase"
	apperrors "github.com/wekeepgrowing/trendloop-checkout/pkg/errors"
	"go.uber.org/zap"
)

// SignatureHeader carries the provider's HMAC over the raw body
const SignatureHeader = "Stripe-Signature"

type WebhookHandler struct {
	webhookUseCase *usecase.WebhookUseCase
	logger         *zap.Logger
}

func NewWebhookHandler(webhookUseCase *usecase.WebhookUseCase, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhookUseCase: webhookUseCase,
		logger:         logger,
	}
}

// HandleWebhook must sit behind rawbody.New so the bytes reach the verifier
// exactly as sent.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	body, ok := rawbody.FromContext(c)
	if !ok {
		var err error
		body, err = io.ReadAll(c.Request().Body)
		if err != nil {
			h.logger.Error("Error reading request body", zap.Error(err))
			return h.BodyError(c, err)
		}
	}

	sig := c.Request().Header.Get(SignatureHeader)

	event, err := h.webhookUseCase.HandleWebhook(c.Request().Context(), body, sig)
	if err != nil {
		return c.String(http.StatusBadRequest, "Webhook Error: "+apperrors.MessageOf(err))
	}

	h.logger.Debug("Webhook acknowledged",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type))

	return c.JSON(http.StatusOK, echo.Map{
		"received": true,
	})
}

// BodyError renders raw body failures (such as an oversized payload) the same
// way as signature failures.
func (h *WebhookHandler) BodyError(c echo.Context, err error) error {
	h.logger.Warn("Rejected webhook body", zap.Error(err))
	return c.String(http.StatusBadRequest, "Webhook Error: "+err.Error())
}
