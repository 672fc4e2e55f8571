package chatclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// RelayError is a non-2xx answer from the relay endpoint.
type RelayError struct {
	StatusCode int
	Message    string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("relay returned status %d: %s", e.StatusCode, e.Message)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error"`
}

// HTTPRelay posts messages to a running relay server.
type HTTPRelay struct {
	httpClient *resty.Client
}

// NewHTTPRelay creates a Resty-backed relay. A zero timeout waits for as long
// as the server takes.
func NewHTTPRelay(baseURL string, timeout time.Duration) *HTTPRelay {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		httpClient.SetTimeout(timeout)
	}
	return &HTTPRelay{httpClient: httpClient}
}

func (r *HTTPRelay) Send(ctx context.Context, message string) (string, error) {
	resp, err := r.httpClient.R().
		SetContext(ctx).
		SetBody(chatRequest{Message: message}).
		Post("/api/chat")
	if err != nil {
		return "", fmt.Errorf("relay request: %w", err)
	}

	var out chatResponse
	decodeErr := json.Unmarshal(resp.Body(), &out)
	if !resp.IsSuccess() {
		msg := out.Error
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(resp.Body()))
		}
		return "", &RelayError{StatusCode: resp.StatusCode(), Message: msg}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode relay reply: %w", decodeErr)
	}
	return out.Reply, nil
}
