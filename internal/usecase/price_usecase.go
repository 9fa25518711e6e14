package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/entity"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/money"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/provider"
	"github.com/wekeepgrowing/trendloop-checkout/internal/infrastructure/metrics"
	apperrors "github.com/wekeepgrowing/trendloop-checkout/pkg/errors"
	"go.uber.org/zap"
)

// ListPricesLimit is the page size of ListPrices. Only one page is fetched.
const ListPricesLimit int64 = 100

var validIntervals = map[string]bool{
	entity.IntervalDay:   true,
	entity.IntervalWeek:  true,
	entity.IntervalMonth: true,
	entity.IntervalYear:  true,
}

// PriceUseCase creates and lists catalog prices
type PriceUseCase struct {
	billing provider.BillingProvider
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewPriceUseCase creates a new PriceUseCase instance
func NewPriceUseCase(billing provider.BillingProvider, m *metrics.Metrics, logger *zap.Logger) *PriceUseCase {
	return &PriceUseCase{
		billing: billing,
		metrics: m,
		logger:  logger,
	}
}

// CreatePriceRequest describes a recurring price in major currency units
type CreatePriceRequest struct {
	ProductName        string
	ProductDescription string
	Amount             decimal.Decimal
	Currency           string // defaults to usd
	Interval           string // defaults to month
}

// CreatePriceResult echoes the request next to the provider identifiers
type CreatePriceResult struct {
	ProductID  string
	PriceID    string
	Amount     decimal.Decimal
	UnitAmount int64
	Currency   string
	Interval   string
}

// CreatePrice always creates a new product and then a price under it.
// Products are never looked up by name, so repeated calls create duplicates.
// If the price call fails the product is left behind.
func (u *PriceUseCase) CreatePrice(ctx context.Context, req *CreatePriceRequest) (*CreatePriceResult, error) {
	productName := strings.TrimSpace(req.ProductName)
	if productName == "" {
		u.metrics.RecordPriceCreated(metrics.OutcomeInvalid)
		return nil, apperrors.InvalidArgument("Product name is required")
	}

	currency := money.NormalizeCurrency(req.Currency)
	interval := strings.ToLower(strings.TrimSpace(req.Interval))
	if interval == "" {
		interval = entity.IntervalMonth
	}
	if !validIntervals[interval] {
		u.metrics.RecordPriceCreated(metrics.OutcomeInvalid)
		return nil, apperrors.InvalidArgument("Interval must be one of day, week, month, year")
	}

	unitAmount, err := money.ToMinorUnits(req.Amount, currency)
	if err != nil {
		u.metrics.RecordPriceCreated(metrics.OutcomeInvalid)
		return nil, amountError(err)
	}

	product, err := u.billing.CreateProduct(ctx, &provider.CreateProductRequest{
		Name:        productName,
		Description: req.ProductDescription,
	})
	if err != nil {
		u.metrics.RecordPriceCreated(metrics.OutcomeProviderError)
		appErr := providerFailure(err)
		apperrors.LogError(u.logger, appErr, "Error creating product",
			zap.String("product_name", productName))
		return nil, appErr
	}

	price, err := u.billing.CreatePrice(ctx, &provider.CreatePriceRequest{
		ProductID:  product.ID,
		UnitAmount: unitAmount,
		Currency:   currency,
		Interval:   interval,
	})
	if err != nil {
		u.metrics.RecordPriceCreated(metrics.OutcomeProviderError)
		appErr := providerFailure(err)
		apperrors.LogError(u.logger, appErr, "Error creating price, product left without a price",
			zap.String("product_id", product.ID))
		return nil, appErr
	}

	u.metrics.RecordPriceCreated(metrics.OutcomeSuccess)
	u.logger.Info("Price created",
		zap.String("product_id", product.ID),
		zap.String("price_id", price.ID),
		zap.Int64("unit_amount", unitAmount),
		zap.String("currency", currency),
		zap.String("interval", interval))

	return &CreatePriceResult{
		ProductID:  product.ID,
		PriceID:    price.ID,
		Amount:     req.Amount,
		UnitAmount: unitAmount,
		Currency:   currency,
		Interval:   interval,
	}, nil
}

// ListPrices returns the first page of prices with products expanded.
func (u *PriceUseCase) ListPrices(ctx context.Context) (*entity.PriceList, error) {
	list, err := u.billing.ListPrices(ctx, ListPricesLimit)
	if err != nil {
		appErr := providerFailure(err)
		apperrors.LogError(u.logger, appErr, "Error fetching prices")
		return nil, appErr
	}
	return list, nil
}

func amountError(err error) error {
	switch {
	case errors.Is(err, money.ErrNonPositiveAmount):
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "Amount must be greater than 0", err)
	case errors.Is(err, money.ErrTooPrecise):
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "Amount has too many decimal places for the currency", err)
	default:
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "Amount is out of range", err)
	}
}
