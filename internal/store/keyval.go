package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
)

// KV is a flat key-value repository for JSON-serializable values.
// Each top-level domain collection lives under one key.
type KV interface {
	// Load unmarshals the value stored under key into dst.
	// It returns false when no value is stored, leaving dst untouched.
	Load(ctx context.Context, key string, dst any) (bool, error)
	// Save marshals value and writes it under key, replacing any prior value.
	Save(ctx context.Context, key string, value any) error
}

// PostgresKV persists values in the app_state table.
type PostgresKV struct {
	db *sql.DB
}

// NewPostgresKV creates a KV backed by Postgres.
func NewPostgresKV(db *sql.DB) *PostgresKV {
	return &PostgresKV{db: db}
}

func (s *PostgresKV) Load(ctx context.Context, key string, dst any) (bool, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, dst)
}

func (s *PostgresKV) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_state (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, raw)
	return err
}

// MemoryKV is a map-backed KV for dev and tests.
type MemoryKV struct {
	mu    sync.RWMutex
	items map[string]json.RawMessage
}

// NewMemoryKV creates an empty in-memory KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]json.RawMessage)}
}

func (s *MemoryKV) Load(_ context.Context, key string, dst any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (s *MemoryKV) Save(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items[key] = raw
	s.mu.Unlock()
	return nil
}
