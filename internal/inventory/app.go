package inventory

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Inventory/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	CORSOrigins []string

	// WritesPerMinute caps POST/PUT/DELETE per client IP; zero disables the limit.
	WritesPerMinute int
	// TrustForwardedFor keys the limit on X-Forwarded-For instead of the peer address.
	TrustForwardedFor bool
}

const limitWindow = time.Minute

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if s.Log == nil {
		s.Log = deps.Log
	}

	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, s, deps)

	r.Group(func(r chi.Router) {
		if deps.WritesPerMinute > 0 {
			limiter := kit.NewIPRateLimiter(deps.WritesPerMinute, limitWindow)
			limiter.TrustForwardedFor = deps.TrustForwardedFor
			r.Use(limiter.WritesOnly)
		}
		s.Routes(r)
	})

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(kit.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
	if len(deps.CORSOrigins) > 0 {
		r.Use(kit.CORS(deps.CORSOrigins))
	}
}

func setupMetrics(r *chi.Mux, s *Server, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePattern))

	if ms, ok := s.Store.(*MemStore); ok {
		RegisterStoreMetrics(deps.Registry, ms)
	}

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}
