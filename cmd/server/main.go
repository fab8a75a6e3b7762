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

	"github.com/PrivateCaptcha/recaptchav1/pkg/api"
	"github.com/PrivateCaptcha/recaptchav1/pkg/common"
	"github.com/PrivateCaptcha/recaptchav1/pkg/config"
	"github.com/PrivateCaptcha/recaptchav1/pkg/maintenance"
	"github.com/PrivateCaptcha/recaptchav1/pkg/monitoring"
	"github.com/PrivateCaptcha/recaptchav1/pkg/recaptcha"
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/justinas/alice"
	"golang.org/x/sync/errgroup"
)

var (
	GitCommit    string
	envFileFlag  = flag.String("env", "", "Path to .env file, 'stdin' to read from stdin")
	flagPrefix   = flag.String("prefix", "", "Path prefix of the API endpoints")
	flagSystemd  = flag.Bool("systemd", false, "Notify systemd about readiness and health")
	flagShutdown = flag.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
)

func run(ctx context.Context, getenv func(string) string, stderr io.Writer) error {
	cfg, err := config.New(getenv)
	if err != nil {
		return err
	}

	common.SetupLogs(cfg.Stage(), cfg.Verbose())

	client, err := recaptcha.NewClient(cfg.PrivateKey(),
		recaptcha.WithEndpoint(cfg.VerifyURL()),
		recaptcha.WithHTTPClient(&http.Client{Timeout: cfg.VerifyTimeout()}))
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Configured verification client", "endpoint", client.Endpoint(),
		"key", client.KeyFingerprint(), "timeout", cfg.VerifyTimeout().String())

	metrics := monitoring.NewService()

	apiServer, err := api.NewServer(client, metrics, cfg.RateLimiterHeader(), cfg.CorsOrigins())
	if err != nil {
		return err
	}

	router := http.NewServeMux()
	apiServer.Setup(router, *flagPrefix)
	metrics.Setup(router)

	healthCheck := &maintenance.HealthCheckJob{
		Router:        router,
		CheckInterval: cfg.HealthCheckInterval(),
		WithSystemd:   *flagSystemd,
	}
	router.HandleFunc(http.MethodGet+" "+common.RelURL("", common.HealthEndpoint), healthCheck.HandlerFunc)
	common.SetupWellKnownPaths(router, alice.New(common.Recovered, monitoring.Logged))

	httpServer := &http.Server{
		Addr:              cfg.ListenAddress(),
		Handler:           router,
		ReadHeaderTimeout: 4 * time.Second,
		ReadTimeout:       10 * time.Second,
		MaxHeaderBytes:    256 * 1024,
		// verification waits for the provider
		WriteTimeout: cfg.VerifyTimeout() + 5*time.Second,
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errs, ctx := errgroup.WithContext(ctx)

	errs.Go(func() error {
		slog.Info("Listening", "address", httpServer.Addr, "version", GitCommit)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Error listening and serving", common.ErrAttr(err))
			return err
		}
		return nil
	})

	errs.Go(func() error {
		jobCtx := common.TraceContext(ctx, "health_check")
		common.RunPeriodicJob(jobCtx, healthCheck)
		return nil
	})

	if *flagSystemd {
		if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
			slog.ErrorContext(ctx, "Failed to notify systemd", common.ErrAttr(err))
		}
	}

	errs.Go(func() error {
		<-ctx.Done()
		slog.Debug("Shutting down gracefully...")
		healthCheck.Shutdown(ctx)
		if *flagSystemd {
			_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), *flagShutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(stderr, "error shutting down http server: %s\n", err)
			return err
		}
		slog.Debug("Shutdown finished")
		return nil
	})

	return errs.Wait()
}

func main() {
	flag.Parse()

	env, err := common.NewEnvMap(*envFileFlag)
	if err == nil {
		err = run(context.Background(), env.Get, os.Stderr)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
