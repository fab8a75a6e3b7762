package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PrivateCaptcha/recaptchav1/pkg/recaptcha"
	vegeta "github.com/tsenart/vegeta/v12/lib"
)

func TestVerifyTargeter(t *testing.T) {
	settings := &loadSettings{
		target:          "http://localhost/verify",
		rateLimitHeader: "X-Real-IP",
		answer:          "gatekeeper",
		correctPercent:  100,
	}

	targeter := verifyTargeter(settings)

	if err := targeter(nil); err != vegeta.ErrNilTarget {
		t.Errorf("Unexpected error %v", err)
	}

	client, _ := recaptcha.NewClient("key")

	for i := 0; i < 10; i++ {
		tgt := &vegeta.Target{}
		if err := targeter(tgt); err != nil {
			t.Fatal(err)
		}

		if tgt.Method != http.MethodPost || tgt.URL != settings.target {
			t.Errorf("Unexpected target %v %v", tgt.Method, tgt.URL)
		}

		if len(tgt.Header.Get("X-Real-IP")) == 0 {
			t.Error("IP header is not set")
		}

		ok, params := client.ExtractParams(context.TODO(), recaptcha.NewRequest(tgt.Body, "127.0.0.1"))
		if !ok {
			t.Fatalf("Body is not a valid verification request: %s", tgt.Body)
		}

		if params[recaptcha.ParamResponse] != settings.answer {
			t.Errorf("Actual response (%v) is different from expected (%v)", params[recaptcha.ParamResponse], settings.answer)
		}
	}
}

func TestLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping load test")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := load(&loadSettings{target: srv.URL, answer: "gatekeeper", correctPercent: 50}, 20, 1, &out)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "Requests") {
		t.Errorf("Unexpected report: %v", out.String())
	}
}

func TestLoadNoTarget(t *testing.T) {
	if err := load(&loadSettings{}, 1, 1, &bytes.Buffer{}); err != errNoTarget {
		t.Errorf("Unexpected error %v", err)
	}
}
