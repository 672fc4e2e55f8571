package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Routes registers the relay, widget and operational endpoints. static
// serves the widget page at "/".
func (h *Handler) Routes(static http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", h.HandleChat)
	mux.HandleFunc("/api/widget-config", h.GetWidgetConfig)
	mux.HandleFunc("/healthz", h.Health)
	mux.Handle("/metrics", promhttp.Handler())
	if static != nil {
		mux.Handle("/", static)
	}
	return RequestLogger(h.logger.With(zap.String("component", "http")), mux)
}
