package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/api"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog/source"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/config"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/drafting"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/engine"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/observability"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/projectstore"
)

func runServe(args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()

	cmd := flag.NewFlagSet("serve", flag.ContinueOnError)
	cmd.SetOutput(stderr)
	addr := cmd.String("addr", ":"+cfg.Port, "Listen address")
	if err := cmd.Parse(args); err != nil {
		return 2
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, *addr, stdout); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

//nolint:gocyclo
func serve(ctx context.Context, cfg *config.Config, addr string, stdout io.Writer) error {
	logger := slog.Default().With("component", "server")

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version
	obsCfg.Enabled = cfg.OTELEnabled
	obsCfg.OTLPEndpoint = cfg.OTELEndpoint
	obsCfg.Insecure = true
	obs, err := observability.New(ctx, obsCfg)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	// Catalog
	store := catalog.NewStore()
	src, err := source.NewFromEnv(ctx)
	if err != nil {
		return err
	}
	if _, err := source.Load(ctx, src, store); err != nil {
		return err
	}
	if fileSrc, ok := src.(*source.FileSource); ok && cfg.WatchCatalog {
		w, err := source.NewWatcher(fileSrc, store)
		if err != nil {
			return fmt.Errorf("watch catalog: %w", err)
		}
		defer func() { _ = w.Stop() }()
		go w.Start(ctx)
		logger.Info("watching catalog for changes", "path", fileSrc.Path)
	}

	// Rules and thresholds
	profile, err := loadProfile(cfg.EvaluationProfile)
	if err != nil {
		return err
	}
	rs, err := profile.Rules()
	if err != nil {
		return err
	}
	eng := engine.New(store, profile.Options(), engine.WithRules(rs), engine.WithObservability(obs))

	// Persistence
	projects, err := projectstore.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = projects.Close() }()

	limiter := api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Cleanup(ctx, time.Minute, 3*time.Minute)

	drafter := drafting.NewDrafter(drafting.NewOpenAIClient(cfg.LLMServiceURL, cfg.LLMAPIKey, cfg.LLMModel))
	server := api.NewServer(eng, projects, api.WithDrafter(drafter), api.WithRateLimiter(limiter))

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	_, _ = fmt.Fprintf(stdout, "avdesign %s listening on %s\n", version, addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loadProfile reads the evaluation profile at path. An empty path yields
// a nil profile, which means built-in rules and default thresholds.
func loadProfile(path string) (*config.EvaluationProfile, error) {
	if path == "" {
		return nil, nil
	}
	return config.LoadEvaluationProfile(path)
}
