package config

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/PrivateCaptcha/recaptchav1/pkg/common"
	"github.com/PrivateCaptcha/recaptchav1/pkg/recaptcha"
)

func mapGetenv(m map[string]string) func(string) string {
	return func(key string) string {
		return m[key]
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := New(mapGetenv(map[string]string{}))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.VerifyURL() != recaptcha.DefaultEndpoint {
		t.Errorf("Actual URL (%v) is different from expected (%v)", cfg.VerifyURL(), recaptcha.DefaultEndpoint)
	}

	if cfg.VerifyTimeout() != defaultVerifyTimeout {
		t.Errorf("Actual timeout (%v) is different from expected (%v)", cfg.VerifyTimeout(), defaultVerifyTimeout)
	}

	if addr := cfg.ListenAddress(); addr != "localhost:8080" {
		t.Errorf("Actual address (%v) is different from expected (%v)", addr, "localhost:8080")
	}

	if origins := cfg.CorsOrigins(); !reflect.DeepEqual(origins, []string{"*"}) {
		t.Errorf("Unexpected origins %v", origins)
	}

	if cfg.HealthCheckInterval() != 5*time.Second {
		t.Errorf("Unexpected health check interval %v", cfg.HealthCheckInterval())
	}
}

func TestVerbose(t *testing.T) {
	testCases := []struct {
		value    string
		expected bool
	}{
		{"", false},
		{"0", false},
		{"1", true},
		{"yes", true},
		{"true", true},
		{"false", false},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprintf("verbose_%v", i), func(t *testing.T) {
			cfg, err := New(mapGetenv(map[string]string{common.ConfigVerbose: tc.value}))
			if err != nil {
				t.Fatal(err)
			}

			if actual := cfg.Verbose(); actual != tc.expected {
				t.Errorf("Actual verbose (%v) is different from expected (%v)", actual, tc.expected)
			}
		})
	}
}

func TestValues(t *testing.T) {
	cfg, err := New(mapGetenv(map[string]string{
		common.ConfigStage:         "staging",
		common.ConfigVerbose:       "1",
		common.ConfigPrivateKey:    "secret",
		common.ConfigVerifyURL:     "http://127.0.0.1:9999/recaptcha/api/verify",
		common.ConfigVerifyTimeout: "3s",
		common.ConfigHost:          "0.0.0.0",
		common.ConfigPort:          "9090",
		common.ConfigCorsOrigins:   "https://a.com,https://b.com",
		common.ConfigHealthCheck:   "slow",
	}))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Stage() != "staging" || !cfg.Verbose() || cfg.PrivateKey() != "secret" {
		t.Errorf("Unexpected basic values")
	}

	if cfg.VerifyTimeout() != 3*time.Second {
		t.Errorf("Unexpected timeout %v", cfg.VerifyTimeout())
	}

	if addr := cfg.ListenAddress(); addr != "0.0.0.0:9090" {
		t.Errorf("Unexpected address %v", addr)
	}

	if origins := cfg.CorsOrigins(); len(origins) != 2 {
		t.Errorf("Unexpected origins %v", origins)
	}

	if cfg.HealthCheckInterval() != 1*time.Minute {
		t.Errorf("Unexpected health check interval %v", cfg.HealthCheckInterval())
	}
}

func TestInvalid(t *testing.T) {
	testCases := []map[string]string{
		{common.ConfigVerifyURL: "www.google.com/recaptcha/api/verify"},
		{common.ConfigVerifyURL: "ftp://www.google.com/recaptcha/api/verify"},
		{common.ConfigVerifyURL: "http://%zz"},
		{common.ConfigVerifyTimeout: "ten seconds"},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprintf("invalid_%v", i), func(t *testing.T) {
			if _, err := New(mapGetenv(tc)); err == nil {
				t.Errorf("Expected an error for %v", tc)
			}
		})
	}
}
