package api

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"

    "github.com/RichardoC/support-chat/internal/llm"
    "github.com/RichardoC/support-chat/internal/metrics"
    "go.uber.org/zap"
)

const maxRequestBytes = 1 << 20

type Handler struct {
    llm          *llm.Service
    providerName string
    widget       WidgetConfig
    logger       *zap.Logger
}

func NewHandler(llmService *llm.Service, providerName string, widget WidgetConfig, logger *zap.Logger) *Handler {
    return &Handler{
        llm:          llmService,
        providerName: providerName,
        widget:       widget,
        logger:       logger,
    }
}

// ChatRequest keeps message raw so that non-string values are treated
// like a missing message instead of a decode failure.
type ChatRequest struct {
    Message json.RawMessage `json:"message"`
}

type ChatResponse struct {
    Reply string `json:"reply"`
}

type ErrorResponse struct {
    Error string `json:"error"`
}

// WidgetConfig tells the browser widget which optional features to render.
type WidgetConfig struct {
    ShowEmojiPicker bool `json:"showEmojiPicker"`
    AllowFullscreen bool `json:"allowFullscreen"`
}

func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
        return
    }

    message := decodeMessage(http.MaxBytesReader(w, r.Body, maxRequestBytes))

    // A send cannot be cancelled once accepted.
    ctx := context.WithoutCancel(r.Context())
    turn, err := h.llm.ProcessMessage(ctx, message)
    if err != nil {
        h.writeError(w, r, err)
        return
    }

    metrics.RelayRequestsTotal.WithLabelValues(metrics.OutcomeReplied).Inc()
    writeJSON(w, http.StatusOK, ChatResponse{Reply: turn.Content})
}

func (h *Handler) GetWidgetConfig(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
        return
    }
    writeJSON(w, http.StatusOK, h.widget)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
    var providerErr *llm.ProviderError
    switch {
    case errors.Is(err, llm.ErrMessageRequired):
        metrics.RelayRequestsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
        writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Message is required"})

    case errors.As(err, &providerErr):
        metrics.RelayRequestsTotal.WithLabelValues(metrics.OutcomeProviderError).Inc()
        writeJSON(w, providerErr.StatusCode, ErrorResponse{
            Error: fmt.Sprintf("%s API failed: %s", h.providerName, providerErr.Body),
        })

    default:
        metrics.RelayRequestsTotal.WithLabelValues(metrics.OutcomeUnexpected).Inc()
        h.logger.Error("Unexpected error",
            zap.Error(err),
            zap.String("request_id", RequestIDFromContext(r.Context())))
        writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Unexpected error"})
    }
}

func decodeMessage(body io.Reader) string {
    var req ChatRequest
    if err := json.NewDecoder(body).Decode(&req); err != nil {
        return ""
    }
    var message string
    if len(req.Message) == 0 || json.Unmarshal(req.Message, &message) != nil {
        return ""
    }
    return message
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}
