package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/PrivateCaptcha/recaptchav1/pkg/common"
	"github.com/coreos/go-systemd/v22/daemon"
)

type HealthCheckJob struct {
	Router           http.Handler
	CheckInterval    time.Duration
	WithSystemd      bool
	routerFlag       atomic.Int32
	shuttingDownFlag atomic.Int32
}

const (
	greenPage = `<!DOCTYPE html><html><body style="background-color: green;"></body></html>`
	redPage   = `<!DOCTYPE html><html><body style="background-color: red;"></body></html>`
	flagTrue  = 1
	flagFalse = 0
)

var _ common.PeriodicJob = (*HealthCheckJob)(nil)

func (j *HealthCheckJob) Interval() time.Duration {
	if j.CheckInterval > 0 {
		return j.CheckInterval
	}

	return 5 * time.Second
}

func (j *HealthCheckJob) Jitter() time.Duration {
	return 1
}

func (j *HealthCheckJob) Name() string {
	return "health_check"
}

func (hc *HealthCheckJob) RunOnce(ctx context.Context) error {
	result := hc.checkHTTP(ctx)
	hc.routerFlag.Store(result)

	if hc.WithSystemd && hc.Healthy() {
		if _, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog); err != nil {
			slog.ErrorContext(ctx, "Failed to notify systemd watchdog", common.ErrAttr(err))
		}
	}

	return nil
}

func (hc *HealthCheckJob) isShuttingDown() bool {
	return hc.shuttingDownFlag.Load() == flagTrue
}

// checkHTTP serves /health through Router, so the mux and the middleware mounted on it must be
// able to answer a request for the watchdog to be fed. The handler itself only reflects shutdown.
func (hc *HealthCheckJob) checkHTTP(ctx context.Context) int32 {
	result := int32(flagFalse)
	if hc.Router == nil {
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "/"+common.HealthEndpoint, nil)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to ping own health endpoint", common.ErrAttr(err))
		return result
	}
	w := httptest.NewRecorder()
	hc.Router.ServeHTTP(w, req)
	resp := w.Result()
	if resp.StatusCode == http.StatusOK {
		result = flagTrue
	} else {
		slog.WarnContext(ctx, "Own health endpoint is unhealthy", "code", resp.StatusCode)
	}
	return result
}

func (hc *HealthCheckJob) Shutdown(ctx context.Context) {
	slog.DebugContext(ctx, "Shutting down health check job")
	hc.shuttingDownFlag.Store(flagTrue)
}

func (hc *HealthCheckJob) HandlerFunc(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(common.HeaderContentType, common.ContentTypeHTML)
	common.WriteNoCache(w)
	if !hc.isShuttingDown() {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, greenPage)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintln(w, redPage)
	}
}

func (hc *HealthCheckJob) Healthy() bool {
	return (hc.routerFlag.Load() == flagTrue) && !hc.isShuttingDown()
}
