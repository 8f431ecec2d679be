package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"leagueboard/internal/board"
)

// Memory keeps the document in process memory. It backs tests and runs the
// service when no database is configured; the document does not survive a
// restart.
type Memory struct {
	mu  sync.RWMutex
	doc *board.Document
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Load(context.Context) (board.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.doc == nil {
		return board.New(), nil
	}
	return m.doc.Clone(), nil
}

func (m *Memory) Save(_ context.Context, teams json.RawMessage) (board.Document, error) {
	parsed, err := board.ParseTeams(teams)
	if err != nil {
		return board.Document{}, err
	}
	doc := board.Document{Teams: parsed, UpdatedAt: time.Now().UTC()}

	m.mu.Lock()
	stored := doc.Clone()
	m.doc = &stored
	m.mu.Unlock()
	return doc, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
