package httpserver

import (
	"net/http"

	"solarmon/backend/services/meter-service/internal/http/handlers"
	"solarmon/backend/services/meter-service/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	TelegramHandler  *handlers.TelegramHandler
	StatsHandlers    *handlers.StatsHandlers
	ReadingsHandlers *handlers.ReadingsHandlers
	AuthHandlers     *handlers.AuthHandlers
	HealthHandler    http.HandlerFunc
	WebSocketHandler http.HandlerFunc
	MetricsHandler   http.Handler
}

// NewRouter wires HTTP routes with middleware.
func NewRouter(deps RouterDeps, authMiddleware func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", method(http.MethodGet, deps.HealthHandler))
	if deps.MetricsHandler != nil {
		mux.Handle("/metrics", method(http.MethodGet, deps.MetricsHandler))
	}

	mux.Handle("/telegram/webhook", method(http.MethodPost, http.HandlerFunc(deps.TelegramHandler.Webhook)))

	mux.Handle("/api/stats", method(http.MethodGet, http.HandlerFunc(deps.StatsHandlers.Range)))
	mux.Handle("/api/stats/monthly", method(http.MethodGet, http.HandlerFunc(deps.StatsHandlers.Monthly)))

	mux.Handle("/api/auth/token", method(http.MethodPost, http.HandlerFunc(deps.AuthHandlers.Token)))

	authenticated := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, authMiddleware)
	}

	mux.Handle("/api/readings", byMethod(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(deps.ReadingsHandlers.List),
		http.MethodPost: authenticated(deps.ReadingsHandlers.Create),
	}))
	mux.Handle("/api/readings/day", method(http.MethodGet, http.HandlerFunc(deps.ReadingsHandlers.Day)))

	if deps.WebSocketHandler != nil {
		mux.Handle("/ws/readings", method(http.MethodGet, deps.WebSocketHandler))
	}

	return mux
}

func method(expected string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

func byMethod(handlers map[string]http.Handler) http.Handler {
	allowed := ""
	for _, m := range []string{http.MethodGet, http.MethodPost} {
		if _, ok := handlers[m]; ok {
			if allowed != "" {
				allowed += ", "
			}
			allowed += m
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.Method]
		if !ok {
			w.Header().Set("Allow", allowed)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.ServeHTTP(w, r)
	})
}
