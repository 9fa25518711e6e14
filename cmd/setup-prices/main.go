package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/wekeepgrowing/trendloop-checkout/internal/config"
	"github.com/wekeepgrowing/trendloop-checkout/internal/domain/provider"
	providerFactory "github.com/wekeepgrowing/trendloop-checkout/internal/infrastructure/provider"
	"github.com/wekeepgrowing/trendloop-checkout/internal/usecase"
	apperrors "github.com/wekeepgrowing/trendloop-checkout/pkg/errors"
	"github.com/wekeepgrowing/trendloop-checkout/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	catalogPath := flag.String("catalog", "", "YAML catalog to create instead of the built-in TrendLoop plans")
	outPath := flag.String("out", "", "also write the price id mapping to this YAML file")
	flag.Parse()

	// Per-plan failures are reported but still exit 0.
	err := run(context.Background(), options{
		catalogPath: *catalogPath,
		outPath:     *outPath,
		stdout:      os.Stdout,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Setup failed:", err)
		os.Exit(1)
	}
}

type options struct {
	catalogPath string
	outPath     string
	stdout      io.Writer
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return apperrors.Wrap(err, "load config")
	}

	zapLogger, err := logger.NewZapLogger(cfg.LoggerConfig())
	if err != nil {
		return apperrors.Wrap(err, "initialize logger")
	}
	defer zapLogger.Sync()

	billing, err := providerFactory.NewFactory(cfg, zapLogger).GetProvider(provider.ProviderTypeStripe)
	if err != nil {
		return apperrors.Wrap(err, "initialize billing provider")
	}

	return provision(ctx, billing, zapLogger, opts)
}

// provision creates the catalog and prints the mapping. Only failures that
// stop the whole run are returned.
func provision(ctx context.Context, billing provider.BillingProvider, zapLogger *zap.Logger, opts options) error {
	plans := usecase.DefaultCatalog()
	if opts.catalogPath != "" {
		zapLogger.Info("Loading catalog from YAML", zap.String("path", opts.catalogPath))
		var err error
		if plans, err = loadCatalogFromYAML(opts.catalogPath); err != nil {
			return err
		}
	}

	provisioner := usecase.NewCatalogProvisioner(usecase.NewPriceUseCase(billing, nil, zapLogger), zapLogger)
	report, err := provisioner.Provision(ctx, plans)
	if err != nil {
		return err
	}

	fmt.Fprintln(opts.stdout)
	fmt.Fprintln(opts.stdout, "Copy these price ids into the pricing page configuration:")
	fmt.Fprintln(opts.stdout)
	if err := usecase.RenderMapping(opts.stdout, report); err != nil {
		return err
	}

	if opts.outPath != "" {
		if err := writeMappingYAML(opts.outPath, report); err != nil {
			return err
		}
		zapLogger.Info("Price mapping written", zap.String("path", opts.outPath))
	}

	if failed := report.Failed(); failed > 0 {
		zapLogger.Warn("Some plans were not created",
			zap.Int("failed", failed),
			zap.Int("total", len(report.Results)))
	}
	return nil
}
