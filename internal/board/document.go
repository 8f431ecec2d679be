// Package board holds the shared room document: the league's team list plus
// the server-stamped time of the last accepted write.
package board

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// ErrTeamsNotArray is returned when a write carries no teams value or a
// teams value that is not a JSON array. Team entries themselves are opaque
// and never validated deeper than that.
var ErrTeamsNotArray = errors.New("teams must be a JSON array")

// Document is the sole persisted entity. Teams keeps caller-supplied order;
// UpdatedAt is always stamped server-side on an accepted write.
type Document struct {
	Teams     []json.RawMessage `json:"teams"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// New returns the document served before anything has been written: an empty
// team list stamped with the current time. It is not persisted until the
// first accepted write.
func New() Document {
	return Document{Teams: []json.RawMessage{}, UpdatedAt: time.Now().UTC()}
}

// ParseTeams validates that raw is a JSON array and splits it into elements.
// A missing value, JSON null, or any non-array value fails with
// ErrTeamsNotArray. Unmarshal alone would accept null, so the leading byte
// is checked first.
func ParseTeams(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrTeamsNotArray
	}

	var teams []json.RawMessage
	if err := json.Unmarshal(raw, &teams); err != nil {
		return nil, ErrTeamsNotArray
	}
	if teams == nil {
		teams = []json.RawMessage{}
	}
	return teams, nil
}

// Clone returns a copy that shares no memory with d, so a document handed to
// a listener can never observe a later mutation of the original.
func (d Document) Clone() Document {
	teams := make([]json.RawMessage, len(d.Teams))
	for i, t := range d.Teams {
		teams[i] = append(json.RawMessage(nil), t...)
	}
	return Document{Teams: teams, UpdatedAt: d.UpdatedAt}
}
