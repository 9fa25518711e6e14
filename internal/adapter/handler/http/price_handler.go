package http

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/trendloop-checkout/internal/usecase"
	"go.uber.org/zap"
)

// PriceHandler serves the administrative catalog endpoints
type PriceHandler struct {
	priceUseCase *usecase.PriceUseCase
	logger       *zap.Logger
}

func NewPriceHandler(priceUseCase *usecase.PriceUseCase, logger *zap.Logger) *PriceHandler {
	return &PriceHandler{
		priceUseCase: priceUseCase,
		logger:       logger,
	}
}

// CreatePriceRequest takes amount in major units (dollars, not cents).
type CreatePriceRequest struct {
	ProductName string          `json:"productName" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency" validate:"omitempty,len=3"`
	Interval    string          `json:"interval" validate:"omitempty,oneof=day week month year"`
}

type CreatePriceResponse struct {
	ProductID string      `json:"productId"`
	PriceID   string      `json:"priceId"`
	Amount    json.Number `json:"amount"`
	Currency  string      `json:"currency"`
	Interval  string      `json:"interval"`
}

func (h *PriceHandler) CreatePrice(c echo.Context) error {
	var req CreatePriceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, err)
	}

	result, err := h.priceUseCase.CreatePrice(c.Request().Context(), &usecase.CreatePriceRequest{
		ProductName: req.ProductName,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Interval:    req.Interval,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	// Echo the caller's values; the provider only sees the normalized ones.
	currency := req.Currency
	if currency == "" {
		currency = result.Currency
	}
	interval := req.Interval
	if interval == "" {
		interval = result.Interval
	}

	return c.JSON(http.StatusOK, CreatePriceResponse{
		ProductID: result.ProductID,
		PriceID:   result.PriceID,
		Amount:    json.Number(result.Amount.String()),
		Currency:  currency,
		Interval:  interval,
	})
}

// ListPrices returns the provider's price list page untouched.
func (h *PriceHandler) ListPrices(c echo.Context) error {
	list, err := h.priceUseCase.ListPrices(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
