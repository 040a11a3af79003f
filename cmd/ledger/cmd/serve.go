package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MinterTeam/minter-go-ledger/api"
	"github.com/MinterTeam/minter-go-ledger/core/asset"
	"github.com/MinterTeam/minter-go-ledger/log"
	"github.com/MinterTeam/minter-go-ledger/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const metricsNamespace = "ledger"

var ServeCommand = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query API",
	RunE:  serve,
}

func serve(cmd *cobra.Command, args []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		gatherer   prometheus.Gatherer
		apiMetrics *api.Metrics
	)
	if cfg.Prometheus {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		l.SetMetrics(asset.PrometheusMetrics(metricsNamespace, registry))
		apiMetrics = api.PrometheusMetrics(metricsNamespace, registry)
		gatherer = registry
	}

	logger := log.With("module", "main")
	srvc := api.NewService(l, gatherer, apiMetrics, version.Version, log.Logger())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting api", "addr", cfg.APIListenAddress, "height", l.Height())
		return api.Run(ctx, cfg.APIListenAddress, api.WithCORS(srvc.Handler()))
	})
	if gatherer != nil {
		g.Go(func() error {
			logger.Info("starting prometheus", "addr", cfg.PrometheusListenAddr)
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
			return api.Run(ctx, cfg.PrometheusListenAddr, mux)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("stopped")

	return nil
}
