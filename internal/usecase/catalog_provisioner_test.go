package usecase_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/entity"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/provider"
	"github.com/wekeepgrowing/trendloop-checkout/internal/usecase"
)

func TestPlanKey(t *testing.T) {
	assert.Equal(t, "starter_monthly", usecase.PlanKey("TrendLoop Starter Monthly"))
	assert.Equal(t, "professional_yearly", usecase.PlanKey("TrendLoop Professional Yearly"))
	assert.Equal(t, "team_plus_yearly", usecase.PlanKey("Team plus_Yearly"))
}

func TestProductDescription(t *testing.T) {
	assert.Equal(t, "Perfect for small businesses", usecase.ProductDescription("TrendLoop Starter Yearly"))
	assert.Equal(t, "Ideal for growing businesses", usecase.ProductDescription("TrendLoop Professional Monthly"))
	assert.Equal(t, "Complete solution for large organizations", usecase.ProductDescription("TrendLoop Enterprise Monthly"))
}

func TestCatalogProvisioner_Provision(t *testing.T) {
	ctx := context.Background()

	t.Run("one failing plan does not stop the rest", func(t *testing.T) {
		mockProvider := new(MockBillingProvider)
		provisioner := usecase.NewCatalogProvisioner(usecase.NewPriceUseCase(mockProvider, nil, zap.NewNop()), zap.NewNop())

		for _, plan := range usecase.DefaultCatalog() {
			name, key := plan.Name, usecase.PlanKey(plan.Name)
			matchName := mock.MatchedBy(func(req *provider.CreateProductRequest) bool { return req.Name == name })
			if key == "professional_monthly" {
				mockProvider.On("CreateProduct", ctx, matchName).
					Return(nil, &provider.ProviderError{Message: "rate limited"}).Once()
				continue
			}
			mockProvider.On("CreateProduct", ctx, matchName).
				Return(&entity.Product{ID: "prod_" + key}, nil).Once()
			mockProvider.On("CreatePrice", ctx, mock.MatchedBy(func(req *provider.CreatePriceRequest) bool {
				return req.ProductID == "prod_"+key
			})).Return(&entity.Price{ID: "price_" + key}, nil).Once()
		}

		report, err := provisioner.Provision(ctx, usecase.DefaultCatalog())
		require.NoError(t, err)

		require.Len(t, report.Results, 6)
		assert.NotEmpty(t, report.RunID)
		assert.Equal(t, 1, report.Failed())
		mockProvider.AssertNumberOfCalls(t, "CreateProduct", 6)
		mockProvider.AssertNumberOfCalls(t, "CreatePrice", 5)

		ids := report.PriceIDs()
		assert.Equal(t, "price_starter_monthly", ids["starter_monthly"])
		assert.Equal(t, "price_enterprise_yearly", ids["enterprise_yearly"])
		_, ok := ids["professional_monthly"]
		assert.False(t, ok)
	})

	t.Run("sends descriptions and cents", func(t *testing.T) {
		mockProvider := new(MockBillingProvider)
		provisioner := usecase.NewCatalogProvisioner(usecase.NewPriceUseCase(mockProvider, nil, zap.NewNop()), zap.NewNop())

		plans := usecase.DefaultCatalog()[:1]
		mockProvider.On("CreateProduct", ctx, &provider.CreateProductRequest{
			Name:        "TrendLoop Starter Monthly",
			Description: "Perfect for small businesses",
		}).Return(&entity.Product{ID: "prod_s"}, nil).Once()
		mockProvider.On("CreatePrice", ctx, &provider.CreatePriceRequest{
			ProductID:  "prod_s",
			UnitAmount: 9900,
			Currency:   "usd",
			Interval:   "month",
		}).Return(&entity.Price{ID: "price_s"}, nil).Once()

		report, err := provisioner.Provision(ctx, plans)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Failed())
		mockProvider.AssertExpectations(t)
	})

	t.Run("empty catalog is a top-level failure", func(t *testing.T) {
		provisioner := usecase.NewCatalogProvisioner(usecase.NewPriceUseCase(new(MockBillingProvider), nil, zap.NewNop()), zap.NewNop())

		_, err := provisioner.Provision(ctx, nil)
		assert.ErrorIs(t, err, usecase.ErrEmptyCatalog)
	})
}

func TestRenderMapping(t *testing.T) {
	report := &usecase.ProvisionReport{}
	for _, plan := range usecase.DefaultCatalog() {
		key := usecase.PlanKey(plan.Name)
		res := usecase.ProvisionResult{Plan: plan, Key: key, PriceID: "price_" + key}
		report.Results = append(report.Results, res)
	}
	report.Results[4].PriceID = ""

	var buf bytes.Buffer
	require.NoError(t, usecase.RenderMapping(&buf, report))

	expected := `monthlyPriceId: {
  starter: 'price_starter_monthly',
  professional: 'price_professional_monthly',
  enterprise: ''
},

yearlyPriceId: {
  starter: 'price_starter_yearly',
  professional: 'price_professional_yearly',
  enterprise: 'price_enterprise_yearly'
}
`
	assert.Equal(t, expected, buf.String())
}
