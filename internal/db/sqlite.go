package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/RichardoC/support-chat/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS data (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    metadata TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// SQLiteStore keeps turns in a local SQLite file. Used for development
// when no MongoDB is at hand.
type SQLiteStore struct {
	db *sql.DB
}

func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveTurn(ctx context.Context, turn *models.ChatTurn) error {
	var metadata sql.NullString
	if len(turn.Metadata) > 0 {
		raw, err := json.Marshal(turn.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata: %w", err)
		}
		metadata = sql.NullString{String: string(raw), Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
        INSERT INTO data (role, content, metadata, created_at)
        VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		turn.Role, turn.Content, metadata)
	if err != nil {
		return fmt.Errorf("failed to save turn: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	// created_at is read back through the table so the driver sees the
	// TIMESTAMP column type.
	if err := s.db.QueryRowContext(ctx, "SELECT created_at FROM data WHERE id = ?", id).Scan(&turn.CreatedAt); err != nil {
		return fmt.Errorf("failed to read turn timestamp: %w", err)
	}
	turn.ID = strconv.FormatInt(id, 10)
	return nil
}

// ListTurns returns every stored turn in insertion order.
func (s *SQLiteStore) ListTurns(ctx context.Context) ([]models.ChatTurn, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, role, content, metadata, created_at
        FROM data
        ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := make([]models.ChatTurn, 0)
	for rows.Next() {
		var (
			turn     models.ChatTurn
			id       int64
			metadata sql.NullString
		)
		if err := rows.Scan(&id, &turn.Role, &turn.Content, &metadata, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turn.ID = strconv.FormatInt(id, 10)
		if metadata.Valid {
			if err := json.Unmarshal([]byte(metadata.String), &turn.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode metadata: %w", err)
			}
		}
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

func (s *SQLiteStore) Close(_ context.Context) error {
	return s.db.Close()
}
