package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PrivateCaptcha/recaptchav1/pkg/common"
	"github.com/PrivateCaptcha/recaptchav1/pkg/monitoring"
)

var (
	flagAnswer = flag.String("answer", "gatekeeper", "The only response accepted as a solution")
	flagChaos  = flag.Bool("chaos", false, "Fail every other request with 500")
)

func main() {
	flag.Parse()

	stage := os.Getenv(common.ConfigStage)
	common.SetupLogs(stage, true /*verbose*/)

	host := os.Getenv("MOCK_HOST")
	if host == "" {
		host = "localhost"
	}

	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "8081"
	}

	provider := &mockProvider{
		privateKey: os.Getenv(common.ConfigPrivateKey),
		answer:     *flagAnswer,
		chaos:      *flagChaos,
	}

	router := http.NewServeMux()
	provider.Setup(router)

	server := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           monitoring.Logged(router),
		ReadHeaderTimeout: 4 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		slog.Info("Mock verify endpoint", "url", "http://"+server.Addr+verifyPath, "chaos", provider.chaos)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Error listening and serving", common.ErrAttr(err))
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
