package engine

import (
	"errors"
	"fmt"
)

// Kind classifies every error the engine can return. The command layer
// switches on the kind; the reason string is relayed to the player as-is.
type Kind string

const (
	ErrNotPlayersTurn    Kind = "not-players-turn"
	ErrInvalidState      Kind = "invalid-state"
	ErrInsufficientFunds Kind = "insufficient-funds"
	ErrUnknownEntity     Kind = "unknown-entity"
	ErrGameAlreadyOver   Kind = "game-already-over"
)

// Error is a tagged, recoverable failure. Engine operations validate all
// preconditions before touching any state, so an Error always means nothing
// was mutated.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	return e.Reason
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind, or "" for nil / foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
