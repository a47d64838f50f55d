// Package notes gives areas a durable identity: a registry of named areas,
// each with its own flag store, written through to an optional Store.
package notes

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrEmptyName = errors.New("notes: empty note name")
	ErrNotFound  = errors.New("notes: note not found")
	ErrInvalid   = errors.New("notes: area has no members")
)

// Record is the durable form of one note.
type Record struct {
	Name      string          `json:"name"`
	Encoding  string          `json:"encoding"`
	Flags     json.RawMessage `json:"flags,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store persists note records.
type Store interface {
	SaveNote(ctx context.Context, rec Record) error
	DeleteNote(ctx context.Context, name string) error
	LoadNotes(ctx context.Context) ([]Record, error)
}

const (
	ActionNote   = "NOTE"
	ActionForget = "FORGET"
	ActionUpdate = "UPDATE"
	ActionFlag   = "FLAG"
	ActionUnflag = "UNFLAG"
)

// Event is one audited registry change.
type Event struct {
	Time     time.Time `json:"time"`
	Action   string    `json:"action"`
	Name     string    `json:"name"`
	Encoding string    `json:"encoding,omitempty"`
	Key      string    `json:"key,omitempty"`
}

// Auditor receives registry events.
type Auditor interface {
	WriteNoteEvent(ev Event) error
}
