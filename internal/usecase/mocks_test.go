package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/entity"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/provider"
)

// MockBillingProvider is a mock implementation of provider.BillingProvider
type MockBillingProvider struct {
	mock.Mock
}

func (m *MockBillingProvider) CreateCheckoutSession(ctx context.Context, req *provider.CreateCheckoutSessionRequest) (*entity.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CheckoutSession), args.Error(1)
}

func (m *MockBillingProvider) CreateProduct(ctx context.Context, req *provider.CreateProductRequest) (*entity.Product, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockBillingProvider) CreatePrice(ctx context.Context, req *provider.CreatePriceRequest) (*entity.Price, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Price), args.Error(1)
}

func (m *MockBillingProvider) ListPrices(ctx context.Context, limit int64) (*entity.PriceList, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PriceList), args.Error(1)
}

func (m *MockBillingProvider) GetProviderName() string {
	return "mock"
}

// MockEventVerifier is a mock implementation of provider.EventVerifier
type MockEventVerifier struct {
	mock.Mock
}

func (m *MockEventVerifier) ConstructEvent(payload []byte, signatureHeader string) (*entity.WebhookEvent, error) {
	args := m.Called(payload, signatureHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WebhookEvent), args.Error(1)
}

// MockPublisher is a mock implementation of messaging.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	args := m.Called(ctx, channel, message)
	return args.Error(0)
}
