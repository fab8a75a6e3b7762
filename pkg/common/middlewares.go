package common

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/justinas/alice"
)

var (
	epoch = time.Unix(0, 0).UTC().Format(http.TimeFormat)
	// taken from chi, which took it fron nginx
	NoCacheHeaders = map[string]string{
		"Expires":         epoch,
		"Cache-Control":   "no-cache, no-store, no-transform, must-revalidate, private, max-age=0",
		"Pragma":          "no-cache",
		"X-Accel-Expires": "0",
	}
	CachedHeaders = map[string]string{
		"Cache-Control": "public, max-age=86400",
	}
)

func NoopMiddleware(next http.Handler) http.Handler {
	return next
}

func Recovered(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				slog.ErrorContext(r.Context(), "Crash", "panic", rvr, "stack", string(debug.Stack()))

				if r.Header.Get("Connection") != "Upgrade" {
					w.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// verification results must never be cached by intermediaries
func NoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteNoCache(w)
		next.ServeHTTP(w, r)
	})
}

func MaxBytes(limit int64) alice.Constructor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

func WriteNoCache(w http.ResponseWriter) {
	for k, v := range NoCacheHeaders {
		w.Header().Set(k, v)
	}
}

func WriteCached(w http.ResponseWriter) {
	for k, v := range CachedHeaders {
		w.Header().Set(k, v)
	}
}

func noContent(w http.ResponseWriter, r *http.Request) {
	WriteCached(w)
	w.WriteHeader(http.StatusNoContent)
}

func catchAll(w http.ResponseWriter, r *http.Request) {
	slog.WarnContext(r.Context(), "CatchAll handler", "path", r.URL.Path, "host", r.Host, "method", r.Method)
	http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}

func robotsTXT(w http.ResponseWriter, r *http.Request) {
	contents := "User-agent: *\nDisallow: /"
	w.Header().Set(HeaderContentType, ContentTypePlain)
	WriteCached(w)
	fmt.Fprint(w, contents)
}

// 2xx responses make them cached on CDN level
func SetupWellKnownPaths(router *http.ServeMux, chain alice.Chain) {
	router.Handle("/robots.txt", chain.ThenFunc(robotsTXT))
	router.Handle("/favicon.ico", chain.ThenFunc(noContent))
	router.Handle("/.well-known/", chain.ThenFunc(noContent))
	router.Handle("/", chain.ThenFunc(catchAll))
}
