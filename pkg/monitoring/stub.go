package monitoring

import (
	"net/http"
	"time"

	"github.com/PrivateCaptcha/recaptchav1/pkg/common"
)

type stubMetrics struct{}

func NewStub() *stubMetrics {
	return &stubMetrics{}
}

var _ Metrics = (*stubMetrics)(nil)

func (sm *stubMetrics) HandlerFunc(handlerIDFunc func() string) func(http.Handler) http.Handler {
	return common.NoopMiddleware
}

func (sm *stubMetrics) ObserveVerification(success bool, duration time.Duration) {}
