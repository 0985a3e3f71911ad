package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"contrib.go.opencensus.io/exporter/prometheus"
	"go.opencensus.io/stats/view"

	"linsac/internal/buildinfo"
	"linsac/internal/config"
	"linsac/internal/fitting"
	fitdb "linsac/internal/fitting/database"
	"linsac/internal/logging"
	"linsac/internal/obs"
	"linsac/internal/server"
	"linsac/internal/setup"
	"linsac/internal/shutdown"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintf(
		os.Stdout,
		"%s: %s, %s\n",
		buildinfo.Info.Name(),
		buildinfo.Info.Time(),
		buildinfo.Info.Tag(),
	)

	ctx, done := shutdown.New()
	logger := logging.FromContext(ctx)
	if err := run(ctx, done); err != nil {
		logger.Fatal(err)
	}

	defer done()
}

func run(ctx context.Context, cancel func()) error {
	cfg := config.Config{}
	env, err := setup.Setup(ctx, &cfg)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}
	defer env.Close(ctx)

	if err := obs.RegisterViews(); err != nil {
		return fmt.Errorf("obs.RegisterViews: %w", err)
	}
	exporter, err := prometheus.NewExporter(prometheus.Options{Namespace: "linsac"})
	if err != nil {
		return fmt.Errorf("prometheus.NewExporter: %w", err)
	}
	view.RegisterExporter(exporter)

	srv, err := server.New(cfg.SrvAddr)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	fitHandler, err := fitting.NewHandler(cfg.FittingConfig(), fitdb.New(env.Database()), env.Cache())
	if err != nil {
		return fmt.Errorf("fitting.NewHandler: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/fit", fitHandler)
	mux.Handle("/health", server.HandleHealth(ctx))
	mux.Handle("/metrics", exporter)

	go func() {
		if err := http.ListenAndServe(cfg.DebugAddr, nil); err != nil {
			cancel()
		}
	}()

	return srv.ServeHTTPHandler(ctx, mux)
}
