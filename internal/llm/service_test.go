package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/RichardoC/support-chat/internal/db"
	"github.com/RichardoC/support-chat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCompleter struct {
	reply string
	err   error
	calls []string
	// turns seen in the store when the provider was called
	storedAtCall int
	store        *db.MemoryStore
}

func (s *stubCompleter) Complete(_ context.Context, message string) (string, error) {
	s.calls = append(s.calls, message)
	if s.store != nil {
		s.storedAtCall = len(s.store.Turns())
	}
	return s.reply, s.err
}

type failingStore struct {
	failOn int
	saves  int
}

func (f *failingStore) SaveTurn(_ context.Context, turn *models.ChatTurn) error {
	f.saves++
	if f.saves == f.failOn {
		return errors.New("connection refused")
	}
	return nil
}

func (f *failingStore) Close(context.Context) error { return nil }

func TestProcessMessage(t *testing.T) {
	store := db.NewMemoryStore()
	provider := &stubCompleter{reply: "hi there", store: store}
	service := New(provider, store, zap.NewNop(), nil)

	turn, err := service.ProcessMessage(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAssistant, turn.Role)
	assert.Equal(t, "hi there", turn.Content)
	assert.NotEmpty(t, turn.ID)

	assert.Equal(t, []string{"hello"}, provider.calls)
	assert.Equal(t, 1, provider.storedAtCall, "user turn must be stored before the provider call")

	turns := store.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, models.RoleUser, turns[0].Role)
	assert.Equal(t, "hello", turns[0].Content)
	assert.Equal(t, models.RoleAssistant, turns[1].Role)
	assert.Equal(t, "hi there", turns[1].Content)
	assert.False(t, turns[1].CreatedAt.Before(turns[0].CreatedAt))
}

func TestProcessMessageRejectsBlank(t *testing.T) {
	for _, message := range []string{"", " ", "\n\t "} {
		store := db.NewMemoryStore()
		provider := &stubCompleter{reply: "unused"}
		service := New(provider, store, zap.NewNop(), nil)

		_, err := service.ProcessMessage(context.Background(), message)
		assert.ErrorIs(t, err, ErrMessageRequired)
		assert.Empty(t, store.Turns())
		assert.Empty(t, provider.calls)
	}
}

func TestProcessMessageKeepsContentVerbatim(t *testing.T) {
	store := db.NewMemoryStore()
	service := New(&stubCompleter{reply: "ok"}, store, zap.NewNop(), nil)

	_, err := service.ProcessMessage(context.Background(), "  padded  ")
	require.NoError(t, err)
	assert.Equal(t, "  padded  ", store.Turns()[0].Content)
}

func TestProcessMessageFallbackReply(t *testing.T) {
	store := db.NewMemoryStore()
	service := New(&stubCompleter{reply: ""}, store, zap.NewNop(), nil)

	turn, err := service.ProcessMessage(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, NoReplyFallback, turn.Content)

	turns := store.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, "Sorry, no reply generated.", turns[1].Content)
}

func TestProcessMessageProviderError(t *testing.T) {
	store := db.NewMemoryStore()
	provider := &stubCompleter{err: &ProviderError{StatusCode: http.StatusTooManyRequests, Body: "slow down"}}
	service := New(provider, store, zap.NewNop(), nil)

	_, err := service.ProcessMessage(context.Background(), "hello")
	var providerErr *ProviderError
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, http.StatusTooManyRequests, providerErr.StatusCode)

	turns := store.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, models.RoleUser, turns[0].Role)
}

func TestProcessMessageTransportError(t *testing.T) {
	store := db.NewMemoryStore()
	service := New(&stubCompleter{err: errors.New("dial tcp: refused")}, store, zap.NewNop(), nil)

	_, err := service.ProcessMessage(context.Background(), "hello")
	require.Error(t, err)
	var providerErr *ProviderError
	assert.False(t, errors.As(err, &providerErr))
	assert.Len(t, store.Turns(), 1)
}

func TestProcessMessageStoreFailures(t *testing.T) {
	t.Run("user turn", func(t *testing.T) {
		provider := &stubCompleter{reply: "hi"}
		service := New(provider, &failingStore{failOn: 1}, zap.NewNop(), nil)

		_, err := service.ProcessMessage(context.Background(), "hello")
		require.Error(t, err)
		assert.Empty(t, provider.calls, "provider must not be called when the user turn was not stored")
	})

	t.Run("assistant turn", func(t *testing.T) {
		provider := &stubCompleter{reply: "hi"}
		service := New(provider, &failingStore{failOn: 2}, zap.NewNop(), nil)

		_, err := service.ProcessMessage(context.Background(), "hello")
		require.Error(t, err)
		assert.Len(t, provider.calls, 1)
	})
}

func TestProcessMessageMetadata(t *testing.T) {
	store := db.NewMemoryStore()
	metadata := map[string]any{"site": "acme"}
	service := New(&stubCompleter{reply: "hi"}, store, zap.NewNop(), metadata)

	_, err := service.ProcessMessage(context.Background(), "hello")
	require.NoError(t, err)

	turns := store.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, metadata, turns[0].Metadata)
	assert.Equal(t, metadata, turns[1].Metadata)

	turns[0].Metadata["site"] = "changed"
	assert.Equal(t, "acme", metadata["site"])
}

func TestProcessMessageNotIdempotent(t *testing.T) {
	store := db.NewMemoryStore()
	provider := &stubCompleter{reply: "hi"}
	service := New(provider, store, zap.NewNop(), nil)

	for i := 0; i < 2; i++ {
		_, err := service.ProcessMessage(context.Background(), "hello")
		require.NoError(t, err)
	}
	assert.Len(t, provider.calls, 2)
	assert.Len(t, store.Turns(), 4)
}
