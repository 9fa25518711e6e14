package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/trendloop-checkout/internal/usecase"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader lets a client retry a checkout without creating a second session.
const IdempotencyKeyHeader = "Idempotency-Key"

type CheckoutHandler struct {
	checkoutUseCase *usecase.CheckoutUseCase
	logger          *zap.Logger
}

func NewCheckoutHandler(checkoutUseCase *usecase.CheckoutUseCase, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUseCase: checkoutUseCase,
		logger:          logger,
	}
}

type CreateCheckoutSessionRequest struct {
	PriceID        string `json:"priceId"`
	PlanName       string `json:"planName"`
	BillingPeriod  string `json:"billingPeriod"`
	IdempotencyKey string `json:"idempotencyKey" validate:"max=255"`
}

type CreateCheckoutSessionResponse struct {
	URL string `json:"url"`
}

func (h *CheckoutHandler) CreateCheckoutSession(c echo.Context) error {
	var req CreateCheckoutSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
		})
	}

	if key := strings.TrimSpace(c.Request().Header.Get(IdempotencyKeyHeader)); key != "" {
		req.IdempotencyKey = key
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, err)
	}

	url, err := h.checkoutUseCase.CreateCheckoutSession(c.Request().Context(), &usecase.CreateCheckoutSessionRequest{
		PriceID:        req.PriceID,
		PlanName:       req.PlanName,
		BillingPeriod:  req.BillingPeriod,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, CreateCheckoutSessionResponse{URL: url})
}
