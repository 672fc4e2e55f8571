package chatclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRelaySend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, map[string]any{"message": "hello"}, req)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reply":"hi there"}`))
	}))
	defer server.Close()

	reply, err := NewHTTPRelay(server.URL+"/", 0).Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)
}

func TestHTTPRelayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"Groq API failed: rate limited"}`))
	}))
	defer server.Close()

	_, err := NewHTTPRelay(server.URL, 0).Send(context.Background(), "hello")
	var relayErr *RelayError
	require.True(t, errors.As(err, &relayErr))
	assert.Equal(t, http.StatusTooManyRequests, relayErr.StatusCode)
	assert.Equal(t, "Groq API failed: rate limited", relayErr.Message)
}

func TestHTTPRelayPlainTextError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewHTTPRelay(server.URL, 0).Send(context.Background(), "hello")
	var relayErr *RelayError
	require.True(t, errors.As(err, &relayErr))
	assert.Equal(t, "bad gateway", relayErr.Message)
}

func TestClientWithHTTPRelayShowsErrorTurn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Unexpected error"}`))
	}))
	defer server.Close()

	ctx := context.Background()
	client := New(NewHTTPRelay(server.URL, 0), Options{})
	client.SetInput("hello")
	require.True(t, client.Send(ctx))

	msgs := client.Messages(ctx)
	require.Len(t, msgs, 2)
	assert.Equal(t, ErrorReply, msgs[1].Content)
}
