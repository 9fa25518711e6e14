package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/entity"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/money"
	"go.uber.org/zap"
)

// ErrEmptyCatalog is returned when there is nothing to provision
var ErrEmptyCatalog = errors.New("catalog has no plans")

// CatalogPlan is one product/price pair to materialise
type CatalogPlan struct {
	Name     string
	Amount   decimal.Decimal
	Interval string
	Currency string
}

// DefaultCatalog is the TrendLoop subscription catalog
func DefaultCatalog() []CatalogPlan {
	plan := func(name string, amount int64, interval string) CatalogPlan {
		return CatalogPlan{
			Name:     name,
			Amount:   decimal.NewFromInt(amount),
			Interval: interval,
			Currency: money.DefaultCurrency,
		}
	}
	return []CatalogPlan{
		plan("TrendLoop Starter Monthly", 99, entity.IntervalMonth),
		plan("TrendLoop Starter Yearly", 990, entity.IntervalYear),
		plan("TrendLoop Professional Monthly", 199, entity.IntervalMonth),
		plan("TrendLoop Professional Yearly", 1990, entity.IntervalYear),
		plan("TrendLoop Enterprise Monthly", 399, entity.IntervalMonth),
		plan("TrendLoop Enterprise Yearly", 3990, entity.IntervalYear),
	}
}

// PlanKey derives the short mapping key: "TrendLoop Starter Monthly" -> "starter_monthly".
func PlanKey(name string) string {
	key := strings.Replace(name, "TrendLoop ", "", 1)
	key = strings.Replace(key, " ", "_", 1)
	return strings.ToLower(key)
}

// ProductDescription picks the marketing blurb by tier name.
func ProductDescription(name string) string {
	switch {
	case strings.Contains(name, "Starter"):
		return "Perfect for small businesses"
	case strings.Contains(name, "Professional"):
		return "Ideal for growing businesses"
	default:
		return "Complete solution for large organizations"
	}
}

// ProvisionResult is the outcome for a single plan
type ProvisionResult struct {
	Plan      CatalogPlan
	Key       string
	ProductID string
	PriceID   string
	Err       error
}

// ProvisionReport collects per-plan outcomes in catalog order
type ProvisionReport struct {
	RunID   string
	Results []ProvisionResult
}

// PriceIDs maps plan keys to the price ids that were created.
func (r *ProvisionReport) PriceIDs() map[string]string {
	ids := make(map[string]string, len(r.Results))
	for _, res := range r.Results {
		if res.Err == nil {
			ids[res.Key] = res.PriceID
		}
	}
	return ids
}

// Failed returns the number of plans that could not be created.
func (r *ProvisionReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// CatalogProvisioner creates a product and a price for every catalog plan
type CatalogProvisioner struct {
	prices *PriceUseCase
	logger *zap.Logger
}

// NewCatalogProvisioner creates a new CatalogProvisioner instance
func NewCatalogProvisioner(prices *PriceUseCase, logger *zap.Logger) *CatalogProvisioner {
	return &CatalogProvisioner{
		prices: prices,
		logger: logger,
	}
}

// Provision walks plans sequentially in order. A failing plan is logged and
// recorded in the report; the remaining plans are still attempted.
func (p *CatalogProvisioner) Provision(ctx context.Context, plans []CatalogPlan) (*ProvisionReport, error) {
	if len(plans) == 0 {
		return nil, ErrEmptyCatalog
	}

	report := &ProvisionReport{
		RunID:   uuid.New().String(),
		Results: make([]ProvisionResult, 0, len(plans)),
	}
	logger := p.logger.With(zap.String("run_id", report.RunID))
	logger.Info("Creating subscription plans", zap.Int("plans", len(plans)))

	for _, plan := range plans {
		result := ProvisionResult{Plan: plan, Key: PlanKey(plan.Name)}
		logger.Info("Creating plan", zap.String("plan", plan.Name))

		created, err := p.prices.CreatePrice(ctx, &CreatePriceRequest{
			ProductName:        plan.Name,
			ProductDescription: ProductDescription(plan.Name),
			Amount:             plan.Amount,
			Currency:           plan.Currency,
			Interval:           plan.Interval,
		})
		if err != nil {
			result.Err = err
			logger.Error("Error creating plan",
				zap.String("plan", plan.Name),
				zap.Error(err))
		} else {
			result.ProductID = created.ProductID
			result.PriceID = created.PriceID
			logger.Info("Plan created",
				zap.String("plan", plan.Name),
				zap.String("price_id", created.PriceID))
		}
		report.Results = append(report.Results, result)
	}

	logger.Info("Catalog provisioning finished",
		zap.Int("created", len(report.Results)-report.Failed()),
		zap.Int("failed", report.Failed()))

	return report, nil
}

// PeriodGroup is one "<period>PriceId" block of the front-end price table
type PeriodGroup struct {
	Name    string
	Entries []PeriodEntry
}

// PeriodEntry is a tier and its price id, empty when creation failed
type PeriodEntry struct {
	Tier    string
	PriceID string
}

// GroupByPeriod splits plan keys such as "starter_monthly" into period groups
// ("monthlyPriceId" -> starter) keeping catalog order.
func (r *ProvisionReport) GroupByPeriod() []PeriodGroup {
	var groups []PeriodGroup
	index := make(map[string]int)

	for _, res := range r.Results {
		tier, period := res.Key, "default"
		if i := strings.LastIndex(res.Key, "_"); i >= 0 {
			tier, period = res.Key[:i], res.Key[i+1:]
		}
		name := period + "PriceId"

		gi, ok := index[name]
		if !ok {
			gi = len(groups)
			index[name] = gi
			groups = append(groups, PeriodGroup{Name: name})
		}
		groups[gi].Entries = append(groups[gi].Entries, PeriodEntry{Tier: tier, PriceID: res.PriceID})
	}
	return groups
}

// RenderMapping writes the price table in the shape the pricing page expects.
func RenderMapping(w io.Writer, report *ProvisionReport) error {
	groups := report.GroupByPeriod()
	for gi, group := range groups {
		if gi > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s: {\n", group.Name); err != nil {
			return err
		}
		for i, entry := range group.Entries {
			sep := ","
			if i == len(group.Entries)-1 {
				sep = ""
			}
			if _, err := fmt.Fprintf(w, "  %s: '%s'%s\n", entry.Tier, entry.PriceID, sep); err != nil {
				return err
			}
		}
		closing := "},"
		if gi == len(groups)-1 {
			closing = "}"
		}
		if _, err := fmt.Fprintln(w, closing); err != nil {
			return err
		}
	}
	return nil
}
