package session

import (
	"context"
	"log/slog"

	"github.com/BTreeMap/GearBot/internal/messaging"
)

// Tracker maintains the tracked-message log and provides the cleanup
// primitives used by almost every transition. Deletion is best-effort
// chat hygiene: a message that is already gone is never a flow failure.
type Tracker struct {
	sessions  *Manager
	messenger messaging.Service
}

// NewTracker creates a Tracker over the session manager and delivery service.
func NewTracker(sessions *Manager, messenger messaging.Service) *Tracker {
	return &Tracker{sessions: sessions, messenger: messenger}
}

// Track appends a sent message id to the chat's tracked list.
func (t *Tracker) Track(ctx context.Context, chatID int64, messageID int) error {
	return t.sessions.Track(ctx, chatID, messageID)
}

// EraseLast deletes the most recent n tracked message ids from the chat.
// The tracked list itself is left unchanged: erasure is a side-effectful
// view operation, and back-navigation paths rely on re-deleting
// overlapping ranges. Only branch termination clears the list.
func (t *Tracker) EraseLast(ctx context.Context, chatID int64, n int) {
	if n <= 0 {
		return
	}
	tracked, err := t.sessions.Tracked(ctx, chatID)
	if err != nil {
		slog.Warn("Tracker EraseLast could not load tracked ids", "error", err, "chatID", chatID)
		return
	}
	if len(tracked) == 0 {
		return
	}
	start := len(tracked) - n
	if start < 0 {
		start = 0
	}
	for _, id := range tracked[start:] {
		if err := t.messenger.DeleteMessage(ctx, chatID, id); err != nil {
			slog.Debug("Tracker EraseLast delete failed, ignoring", "error", err, "chatID", chatID, "messageID", id)
		}
	}
	slog.Debug("Tracker EraseLast done", "chatID", chatID, "requested", n, "deleted", len(tracked)-start)
}

// EraseAllAndClear deletes every tracked message id and then clears the
// whole session: state back to default, variables and tracked list empty.
// This is the branch termination primitive.
func (t *Tracker) EraseAllAndClear(ctx context.Context, chatID int64) error {
	tracked, err := t.sessions.Tracked(ctx, chatID)
	if err != nil {
		slog.Warn("Tracker EraseAllAndClear could not load tracked ids", "error", err, "chatID", chatID)
	}
	for _, id := range tracked {
		if err := t.messenger.DeleteMessage(ctx, chatID, id); err != nil {
			slog.Debug("Tracker EraseAllAndClear delete failed, ignoring", "error", err, "chatID", chatID, "messageID", id)
		}
	}
	if err := t.sessions.Clear(ctx, chatID); err != nil {
		return err
	}
	slog.Debug("Tracker EraseAllAndClear done", "chatID", chatID, "erased", len(tracked))
	return nil
}
