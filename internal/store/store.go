// Package store persists the room document. One logical record holds the
// team list and the timestamp of the last accepted write; the two are always
// written together, so no partial state is ever observable.
package store

import (
	"context"
	"encoding/json"

	"leagueboard/internal/board"
)

// Store is the durable home of the room document.
type Store interface {
	// Load returns the current document. If nothing has been persisted yet
	// it returns the default document (empty team list, current timestamp)
	// without persisting it.
	Load(ctx context.Context) (board.Document, error)

	// Save validates that teams is a JSON array (board.ErrTeamsNotArray
	// otherwise), stamps a fresh timestamp, persists both fields together,
	// and returns the new document.
	Save(ctx context.Context, teams json.RawMessage) (board.Document, error)

	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error

	Close() error
}
