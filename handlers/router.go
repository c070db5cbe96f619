package handlers

import (
	"context"
	"net/http"
	"time"

	"ecapbot/report"

	"github.com/gorilla/mux"
)

// Pinger reports whether the credential backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of the admin HTTP surface.
type Deps struct {
	Store   Pinger
	Fetcher report.Fetcher
	Started time.Time
	Version string

	// TrustedProxies may set X-Forwarded-For for rate limiting.
	TrustedProxies []string
}

// NewRouter wires the status, health and attendance proxy endpoints.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", StatusHandler(d.Version)).Methods(http.MethodGet)
	r.HandleFunc("/health", HealthHandler(d.Store, d.Started)).Methods(http.MethodGet)

	limiter := NewRateLimiter(100, time.Minute)
	limiter.TrustedProxies = d.TrustedProxies
	r.Handle("/attendance", limiter.Middleware(AttendanceHandler(d.Fetcher))).Methods(http.MethodPost)

	return r
}
