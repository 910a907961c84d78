package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"socialnet/internal/api/middleware"
	"socialnet/internal/session"
	"socialnet/internal/web"
	"socialnet/pkg/logger"
)

// Router registers handlers on a ServeMux, recording metrics under each
// route pattern.
type Router struct {
	mux *http.ServeMux
}

func (rt *Router) Handle(pattern string, h http.HandlerFunc) {
	rt.mux.Handle(pattern, middleware.Metrics(pattern, h))
}

// HandleAuth registers a handler that only runs for authenticated requests.
func (rt *Router) HandleAuth(pattern string, h http.HandlerFunc) {
	rt.mux.Handle(pattern, middleware.Metrics(pattern, session.RequireAuth(h)))
}

type RouteRegistrar interface {
	RegisterRoutes(rt *Router)
}

type RouterOptions struct {
	AllowedOrigins []string
}

// NewRouter assembles the application handler. Every request passes through
// tracing, logging, the CSRF guard and session loading before routing.
func NewRouter(sessions *session.Manager, log logger.Logger, opts RouterOptions, registrars ...RouteRegistrar) http.Handler {
	rt := &Router{mux: http.NewServeMux()}

	for _, r := range registrars {
		r.RegisterRoutes(rt)
	}

	rt.mux.Handle("GET /static/", web.StaticHandler())
	rt.mux.Handle("GET /metrics", promhttp.Handler())

	var handler http.Handler = rt.mux
	handler = sessions.Load(handler)
	handler = middleware.CSRF(opts.AllowedOrigins)(handler)
	handler = middleware.Logging(log)(handler)
	handler = middleware.Tracing(handler)

	return handler
}
