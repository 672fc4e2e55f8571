package llm

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/RichardoC/support-chat/internal/db"
	"github.com/RichardoC/support-chat/internal/metrics"
	"github.com/RichardoC/support-chat/internal/models"
	"go.uber.org/zap"
)

// NoReplyFallback is stored and returned when the provider answers without content.
const NoReplyFallback = "Sorry, no reply generated."

// Completer produces a reply for a single user message.
type Completer interface {
	Complete(ctx context.Context, message string) (string, error)
}

// Service relays one user message to the provider and records both turns.
// It holds no per-request state.
type Service struct {
	provider Completer
	store    db.Store
	logger   *zap.Logger
	metadata map[string]any
}

func New(provider Completer, store db.Store, logger *zap.Logger, metadata map[string]any) *Service {
	return &Service{
		provider: provider,
		store:    store,
		logger:   logger,
		metadata: metadata,
	}
}

// ProcessMessage stores the user turn, asks the provider for a reply and
// stores the assistant turn. The user turn is always written before the
// provider is called; on provider failure it is the only write.
func (s *Service) ProcessMessage(ctx context.Context, message string) (*models.ChatTurn, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrMessageRequired
	}

	userTurn := s.newTurn(models.RoleUser, message)
	if err := s.save(ctx, userTurn); err != nil {
		return nil, fmt.Errorf("failed to save user turn: %w", err)
	}

	reply, err := s.provider.Complete(ctx, message)
	if err != nil {
		var providerErr *ProviderError
		if errors.As(err, &providerErr) {
			s.logger.Error("provider API error",
				zap.Int("status", providerErr.StatusCode),
				zap.String("body", providerErr.Body))
			return nil, err
		}
		return nil, fmt.Errorf("failed to generate completion: %w", err)
	}
	if reply == "" {
		reply = NoReplyFallback
	}

	assistantTurn := s.newTurn(models.RoleAssistant, reply)
	if err := s.save(ctx, assistantTurn); err != nil {
		return nil, fmt.Errorf("failed to save assistant turn: %w", err)
	}
	return assistantTurn, nil
}

func (s *Service) newTurn(role, content string) *models.ChatTurn {
	return &models.ChatTurn{
		Role:     role,
		Content:  content,
		Metadata: maps.Clone(s.metadata),
	}
}

func (s *Service) save(ctx context.Context, turn *models.ChatTurn) error {
	if err := s.store.SaveTurn(ctx, turn); err != nil {
		metrics.StoreErrorsTotal.Inc()
		return err
	}
	metrics.TurnsStoredTotal.WithLabelValues(turn.Role).Inc()
	return nil
}
