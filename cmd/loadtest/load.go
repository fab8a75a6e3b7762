package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	randv2 "math/rand/v2"
	"net/http"
	"time"

	"github.com/PrivateCaptcha/recaptchav1/pkg/common"
	"github.com/PrivateCaptcha/recaptchav1/pkg/common/tests"
	vegeta "github.com/tsenart/vegeta/v12/lib"
)

var (
	errNoTarget = errors.New("target URL is empty")
)

type loadSettings struct {
	target          string
	rateLimitHeader string
	answer          string
	correctPercent  int
}

func verifyTargeter(settings *loadSettings) vegeta.Targeter {
	return func(tgt *vegeta.Target) error {
		if tgt == nil {
			return vegeta.ErrNilTarget
		}

		tgt.Method = http.MethodPost
		tgt.URL = settings.target

		challenge := fmt.Sprintf("challenge-%d", randv2.Uint64())
		response := "wrong"
		// - if correctPercent is 100, then 100 is always > (rand() % 100)
		// - if correctPercent is 0, then we never send the correct answer
		if settings.correctPercent > randv2.IntN(100) {
			response = settings.answer
		}

		tgt.Body = []byte(tests.RecaptchaBody(challenge, response))

		header := http.Header{}
		header.Set(common.HeaderContentType, common.ContentTypeJSON)
		if len(settings.rateLimitHeader) > 0 {
			header.Add(settings.rateLimitHeader, tests.GenerateRandomIPv4())
		}
		tgt.Header = header

		return nil
	}
}

func load(settings *loadSettings, freq int, durationSeconds int, out io.Writer) error {
	if len(settings.target) == 0 {
		return errNoTarget
	}

	rate := vegeta.Rate{Freq: freq, Per: time.Second}
	duration := time.Duration(durationSeconds) * time.Second
	targeter := verifyTargeter(settings)
	attacker := vegeta.NewAttacker()

	slog.Info("Attacking", "target", settings.target, "duration", duration.String(), "rate", rate.String())

	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, rate, duration, "Verify storm") {
		metrics.Add(res)
	}
	metrics.Close()

	reporter := vegeta.NewTextReporter(&metrics)
	return reporter(out)
}
