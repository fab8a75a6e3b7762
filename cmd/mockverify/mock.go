package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/PrivateCaptcha/recaptchav1/pkg/common"
	"github.com/PrivateCaptcha/recaptchav1/pkg/recaptcha"
)

const (
	verifyPath             = "/recaptcha/api/verify"
	errIncorrectSolution   = "incorrect-captcha-sol"
	errInvalidPrivateKey   = "invalid-site-private-key"
	errInvalidRequestField = "invalid-request-cookie"
)

// mockProvider answers like the legacy verify endpoint: "true" or "false\n<error-code>"
type mockProvider struct {
	privateKey string
	answer     string
	chaos      bool
	count      int32
}

func (m *mockProvider) Setup(router *http.ServeMux) {
	handler := http.HandlerFunc(m.verify)
	if m.chaos {
		handler = m.withChaos(handler)
	}

	router.Handle(http.MethodPost+" "+verifyPath, common.Recovered(handler))
}

// every other request fails, to see how clients deal with a flaky provider
func (m *mockProvider) withChaos(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nowCount := atomic.AddInt32(&m.count, 1)
		if nowCount%2 == 1 {
			http.Error(w, "chaos", http.StatusInternalServerError)
		} else {
			next.ServeHTTP(w, r)
		}
	}
}

func (m *mockProvider) verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(ctx, "Failed to parse form", common.ErrAttr(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	w.Header().Set(common.HeaderContentType, common.ContentTypePlain)

	challenge := r.PostForm.Get(recaptcha.ParamChallenge)
	response := r.PostForm.Get(recaptcha.ParamResponse)
	slog.DebugContext(ctx, "Received verification", "challenge", challenge, "response", response,
		"remoteip", r.PostForm.Get(recaptcha.ParamRemoteIP))

	var code string
	switch {
	case r.PostForm.Get(recaptcha.ParamPrivateKey) != m.privateKey:
		code = errInvalidPrivateKey
	case len(challenge) == 0:
		code = errInvalidRequestField
	case response != m.answer:
		code = errIncorrectSolution
	}

	if len(code) > 0 {
		fmt.Fprintf(w, "false\n%s", code)
		return
	}

	fmt.Fprint(w, "true")
}
