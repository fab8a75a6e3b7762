package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/PrivateCaptcha/recaptchav1/pkg/common"
	"github.com/PrivateCaptcha/recaptchav1/pkg/monitoring"
	"github.com/PrivateCaptcha/recaptchav1/pkg/recaptcha"
	"github.com/justinas/alice"
	realclientip "github.com/realclientip/realclientip-go"
	"github.com/rs/cors"
)

const (
	// challenge and response tokens are short, anything bigger is not a captcha submission
	maxVerifyBodySize = 16 * 1024
)

type verifyResponse struct {
	Success bool `json:"success"`
}

type Server struct {
	client   *recaptcha.Client
	metrics  monitoring.Metrics
	strategy realclientip.Strategy
	cors     *cors.Cors
}

// NewServer exposes client over HTTP. rateLimitHeader names the header set by the reverse proxy
// with the real client IP; when empty the connection address is used instead.
func NewServer(client *recaptcha.Client, metrics monitoring.Metrics, rateLimitHeader string, corsOrigins []string) (*Server, error) {
	var strategy realclientip.Strategy = realclientip.RemoteAddrStrategy{}
	if len(rateLimitHeader) > 0 {
		var err error
		strategy, err = realclientip.NewSingleIPHeaderStrategy(rateLimitHeader)
		if err != nil {
			return nil, err
		}
	}

	return &Server{
		client:   client,
		metrics:  metrics,
		strategy: strategy,
		cors: cors.New(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{http.MethodPost},
			AllowedHeaders: []string{common.HeaderContentType},
			MaxAge:         3600,
		}),
	}, nil
}

func (s *Server) Setup(router *http.ServeMux, prefix string) {
	s.setupWithPrefix(prefix, router)
}

func (s *Server) setupWithPrefix(prefix string, router *http.ServeMux) {
	chain := alice.New(common.Recovered, common.NoCache,
		s.metrics.HandlerFunc(func() string { return common.VerifyEndpoint }),
		monitoring.Logged,
		s.cors.Handler,
		common.MaxBytes(maxVerifyBodySize))
	// OPTIONS preflight is answered by the cors middleware, so the pattern has no method
	router.Handle(common.RelURL(prefix, common.VerifyEndpoint), chain.ThenFunc(s.verify))
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		slog.WarnContext(ctx, "Incorrect http method", "actual", r.Method, "expected", http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	request, err := recaptcha.NewHTTPRequest(r, maxVerifyBodySize, s.strategy)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read request", common.ErrAttr(err))

		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
		} else {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		}
		return
	}

	tnow := time.Now()
	success := s.client.Verify(ctx, request)
	s.metrics.ObserveVerification(success, time.Since(tnow))

	slog.DebugContext(ctx, "Verified captcha", "success", success, "ip", request.RemoteIP())

	common.SendJSONResponse(ctx, w, &verifyResponse{Success: success}, map[string]string{})
}
