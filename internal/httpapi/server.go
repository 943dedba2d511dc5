package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Leganyst/parking-platform/internal/access"
	"github.com/Leganyst/parking-platform/internal/logging"
)

type Server struct {
	httpServer *http.Server
	handler    *Handler
}

// NewRouter собирает маршруты. reg получает HTTP-метрики и отдаётся на /metrics.
func NewRouter(h *Handler, users access.UserStore, reg *prometheus.Registry) chi.Router {
	metrics := newHTTPMetrics(reg)

	r := chi.NewRouter()

	r.Use(RecoveryMiddleware)
	r.Use(RequestIDMiddleware)
	r.Use(TracingMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(metrics.Middleware)

	r.Get("/health", h.HealthCheck)
	r.Get("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Use(PrincipalMiddleware(users))

		r.Route("/parking", func(r chi.Router) {
			r.Post("/park", h.Park)
			r.Post("/exit", h.Exit)
			r.Post("/unpark", h.Exit)
			r.Get("/status", h.Status)
			r.Get("/slots", h.Slots)
		})

		r.Route("/bookings/{bookingNumber}", func(r chi.Router) {
			r.Post("/complete", h.CompleteBooking)
			r.Get("/events", h.BookingEvents)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireRole(access.RoleAdmin))
			r.Get("/reports/usage", h.UsageReport)
			r.Get("/locations/{locationID}/report", h.LocationReport)
		})
	})

	return r
}

func NewServer(addr string, h *Handler, users access.UserStore) *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      NewRouter(h, users, reg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		handler:    h,
	}
}

func (s *Server) Start() error {
	logging.Logger().Info().Str("addr", s.httpServer.Addr).Msg("starting HTTP server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	logging.Logger().Info().Msg("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
