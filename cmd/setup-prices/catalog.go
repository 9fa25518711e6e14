package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/trendloop-checkout/internal/usecase"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Plans []catalogEntry `yaml:"plans"`
}

type catalogEntry struct {
	Name     string          `yaml:"name"`
	Amount   decimal.Decimal `yaml:"amount"`
	Interval string          `yaml:"interval"`
	Currency string          `yaml:"currency"`
}

func loadCatalogFromYAML(path string) ([]usecase.CatalogPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, usecase.ErrEmptyCatalog
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal catalog yaml: %w", err)
	}

	plans := make([]usecase.CatalogPlan, 0, len(file.Plans))
	for i, entry := range file.Plans {
		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("plans[%d]: name is required", i)
		}
		if !entry.Amount.IsPositive() {
			return nil, fmt.Errorf("plans[%d]: amount must be greater than 0", i)
		}
		if entry.Interval == "" {
			return nil, fmt.Errorf("plans[%d]: interval is required", i)
		}

		plans = append(plans, usecase.CatalogPlan{
			Name:     entry.Name,
			Amount:   entry.Amount,
			Interval: entry.Interval,
			Currency: entry.Currency,
		})
	}

	return plans, nil
}

type mappingFile struct {
	RunID  string                       `yaml:"run_id"`
	Prices map[string]string            `yaml:"prices"`
	Pages  map[string]map[string]string `yaml:"pricing_page"`
	Failed []string                     `yaml:"failed,omitempty"`
}

func writeMappingYAML(path string, report *usecase.ProvisionReport) error {
	out := mappingFile{
		RunID:  report.RunID,
		Prices: report.PriceIDs(),
		Pages:  make(map[string]map[string]string),
	}
	for _, group := range report.GroupByPeriod() {
		tiers := make(map[string]string, len(group.Entries))
		for _, entry := range group.Entries {
			tiers[entry.Tier] = entry.PriceID
		}
		out.Pages[group.Name] = tiers
	}
	for _, res := range report.Results {
		if res.Err != nil {
			out.Failed = append(out.Failed, res.Plan.Name)
		}
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal price mapping: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write price mapping: %w", err)
	}
	return nil
}
