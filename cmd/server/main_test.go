package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/PrivateCaptcha/recaptchav1/pkg/common"
	"github.com/PrivateCaptcha/recaptchav1/pkg/recaptcha"
)

func TestRunWithoutPrivateKey(t *testing.T) {
	getenv := func(key string) string {
		if key == common.ConfigStage {
			return "test"
		}
		return ""
	}

	err := run(context.TODO(), getenv, &bytes.Buffer{})
	if !errors.Is(err, recaptcha.ErrConfiguration) {
		t.Errorf("Actual error (%v) is different from expected (%v)", err, recaptcha.ErrConfiguration)
	}
}

func TestRunWithInvalidConfig(t *testing.T) {
	getenv := func(key string) string {
		switch key {
		case common.ConfigPrivateKey:
			return "key"
		case common.ConfigVerifyTimeout:
			return "forever"
		}
		return ""
	}

	if err := run(context.TODO(), getenv, &bytes.Buffer{}); err == nil {
		t.Error("Expected an error for invalid timeout")
	}
}
