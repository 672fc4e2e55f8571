package db

import (
	"context"
	"sync"
	"time"

	"github.com/RichardoC/support-chat/internal/models"
	"github.com/google/uuid"
)

// MemoryStore is a thread-safe store useful for demos and tests. Turns are
// lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	turns []models.ChatTurn
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) SaveTurn(_ context.Context, turn *models.ChatTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	turn.ID = uuid.NewString()
	turn.CreatedAt = time.Now().UTC()
	m.turns = append(m.turns, *turn)
	return nil
}

// Turns returns a copy of the stored turns in insertion order.
func (m *MemoryStore) Turns() []models.ChatTurn {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.ChatTurn, len(m.turns))
	copy(out, m.turns)
	return out
}

func (m *MemoryStore) Close(_ context.Context) error {
	return nil
}
