// Package lifecycle decides which workflow transitions are allowed for a
// triaged record given its current status and archive flag. The rules are
// pure; persistence and messaging happen elsewhere.
package lifecycle

import (
	"errors"

	"churchbot/internal/domain"
)

var (
	// ErrArchived rejects workflow transitions on archived records.
	ErrArchived = errors.New("record is archived")
	// ErrBadTransition rejects a transition not allowed from the current status.
	ErrBadTransition = errors.New("transition not allowed from current status")
)

// Action is a workflow action an administrator may take on a record.
type Action string

const (
	ActionWaiting Action = "waiting"
	ActionReply   Action = "reply"
	ActionDone    Action = "done"
	ActionDelete  Action = "delete"
)

// CanMarkWaiting reports whether a record may move to "в очікуванні".
// Only fresh records qualify; everything else already had attention.
func CanMarkWaiting(status domain.Status, archived bool) error {
	if archived {
		return ErrArchived
	}
	if status != domain.StatusNew {
		return ErrBadTransition
	}
	return nil
}

// CanReply reports whether an admin may send a reply on the record.
func CanReply(status domain.Status, archived bool) error {
	if archived {
		return ErrArchived
	}
	if status == domain.StatusDone {
		return ErrBadTransition
	}
	return nil
}

// CanComplete reports whether a record may be marked "виконано".
// Completion archives the record, so it is final.
func CanComplete(status domain.Status, archived bool) error {
	if archived {
		return ErrArchived
	}
	if status == domain.StatusDone {
		return ErrBadTransition
	}
	return nil
}

// CanDelete reports whether a record may be removed permanently.
// Deletion stays available in every state, archived included.
func CanDelete() error { return nil }

// Actions returns the workflow buttons visible on a record card.
// A replied record hides the reply button, a record past "нове" hides
// the waiting button, and an archived record exposes only deletion.
func Actions(status domain.Status, archived bool) []Action {
	if archived {
		return []Action{ActionDelete}
	}
	acts := make([]Action, 0, 4)
	if status == domain.StatusNew {
		acts = append(acts, ActionWaiting)
	}
	if status != domain.StatusReplied && CanReply(status, archived) == nil {
		acts = append(acts, ActionReply)
	}
	if CanComplete(status, archived) == nil {
		acts = append(acts, ActionDone)
	}
	return append(acts, ActionDelete)
}
