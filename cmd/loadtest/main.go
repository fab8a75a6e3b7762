package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/PrivateCaptcha/recaptchav1/pkg/common"
)

var (
	envFileFlag        = flag.String("env", "", "Path to .env file")
	flagTarget         = flag.String("target", "http://localhost:8080/verify", "URL of the verify endpoint")
	flagRatePerSecond  = flag.Int("rps", 100, "Requests per second")
	flagDuration       = flag.Int("duration", 10, "Duration of the load test (seconds)")
	flagAnswer         = flag.String("answer", "gatekeeper", "Response accepted by the provider")
	flagCorrectPercent = flag.Int("correct-percent", 50, "Percent of requests with correct answer")
)

func main() {
	flag.Parse()

	env, err := common.NewEnvMap(*envFileFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(logger)

	settings := &loadSettings{
		target:          *flagTarget,
		rateLimitHeader: env.Get(common.ConfigRateLimitHeader),
		answer:          *flagAnswer,
		correctPercent:  *flagCorrectPercent,
	}

	if err := load(settings, *flagRatePerSecond, *flagDuration, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
