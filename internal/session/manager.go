// Package session provides conversation state management for GearBot.
//
// A session binds one chat identity to its current flow state, a bag of
// flow-scoped variables, and the list of tracked outgoing message ids.
// The Manager is a typed layer over the Store's sessions table.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/BTreeMap/GearBot/internal/models"
	"github.com/BTreeMap/GearBot/internal/store"
)

// Manager implements the session store contract using a Store backend.
type Manager struct {
	store store.Store
}

// NewManager creates a session Manager backed by a Store.
func NewManager(st store.Store) *Manager {
	slog.Debug("Creating session Manager")
	return &Manager{store: st}
}

// load returns the session row for a chat, creating a fresh in-memory
// one when the chat has never been seen.
func (m *Manager) load(chatID int64) (*models.Session, error) {
	sess, err := m.store.GetSession(chatID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		now := time.Now()
		sess = &models.Session{ChatID: chatID, State: models.StateDefault, CreatedAt: now, UpdatedAt: now}
	}
	return sess, nil
}

func (m *Manager) save(sess *models.Session) error {
	sess.UpdatedAt = time.Now()
	return m.store.SaveSession(*sess)
}

// State returns the current state label for a chat. A chat with no
// session row is in StateDefault.
func (m *Manager) State(ctx context.Context, chatID int64) (models.StateLabel, error) {
	sess, err := m.store.GetSession(chatID)
	if err != nil {
		slog.Error("Session State lookup failed", "error", err, "chatID", chatID)
		return models.StateDefault, err
	}
	if sess == nil {
		return models.StateDefault, nil
	}
	return sess.State, nil
}

// SetState moves a chat to the given state label.
func (m *Manager) SetState(ctx context.Context, chatID int64, state models.StateLabel) error {
	sess, err := m.load(chatID)
	if err != nil {
		return err
	}
	sess.State = state
	if err := m.save(sess); err != nil {
		slog.Error("Session SetState save failed", "error", err, "chatID", chatID, "state", state)
		return err
	}
	slog.Debug("Session SetState succeeded", "chatID", chatID, "state", state)
	return nil
}

// UpdateVars merges the given variables into the session.
func (m *Manager) UpdateVars(ctx context.Context, chatID int64, vars map[string]string) error {
	sess, err := m.load(chatID)
	if err != nil {
		return err
	}
	if sess.Vars == nil {
		sess.Vars = make(map[string]string, len(vars))
	}
	for k, v := range vars {
		sess.Vars[k] = v
	}
	if err := m.save(sess); err != nil {
		slog.Error("Session UpdateVars save failed", "error", err, "chatID", chatID)
		return err
	}
	slog.Debug("Session UpdateVars succeeded", "chatID", chatID, "keys", len(vars))
	return nil
}

// GetVar returns one session variable. A missing variable is a session
// error (models.ErrInvalidVariable): it signals an expired session or an
// out-of-sequence event, and the branch should be terminated.
func (m *Manager) GetVar(ctx context.Context, chatID int64, name string) (string, error) {
	sess, err := m.store.GetSession(chatID)
	if err != nil {
		return "", err
	}
	if sess == nil || sess.Vars == nil {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidVariable, name)
	}
	v, ok := sess.Vars[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidVariable, name)
	}
	return v, nil
}

// GetVars returns several session variables, failing if any is absent.
func (m *Manager) GetVars(ctx context.Context, chatID int64, names ...string) ([]string, error) {
	sess, err := m.store.GetSession(chatID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if sess == nil || sess.Vars == nil {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidVariable, name)
		}
		v, ok := sess.Vars[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidVariable, name)
		}
		out = append(out, v)
	}
	return out, nil
}

// SetJSON stores a value under name as JSON. Used for the per-flow typed
// data structs and the listing caches.
func (m *Manager) SetJSON(ctx context.Context, chatID int64, name string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode session variable %q: %w", name, err)
	}
	return m.UpdateVars(ctx, chatID, map[string]string{name: string(b)})
}

// GetJSON decodes the value stored under name into out. An absent
// variable yields models.ErrInvalidVariable; a malformed one yields
// models.ErrInvalidItems.
func (m *Manager) GetJSON(ctx context.Context, chatID int64, name string, out interface{}) error {
	raw, err := m.GetVar(ctx, chatID, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %q: %v", models.ErrInvalidItems, name, err)
	}
	return nil
}

// Tracked returns the tracked message ids for a chat in send order.
func (m *Manager) Tracked(ctx context.Context, chatID int64) ([]int, error) {
	sess, err := m.store.GetSession(chatID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	return sess.Tracked, nil
}

// Track appends a message id to the tail of the tracked list.
func (m *Manager) Track(ctx context.Context, chatID int64, messageID int) error {
	sess, err := m.load(chatID)
	if err != nil {
		return err
	}
	sess.Tracked = append(sess.Tracked, messageID)
	if err := m.save(sess); err != nil {
		slog.Error("Session Track save failed", "error", err, "chatID", chatID, "messageID", messageID)
		return err
	}
	slog.Debug("Session Track succeeded", "chatID", chatID, "messageID", messageID, "tracked", len(sess.Tracked))
	return nil
}

// Clear removes the whole session: state back to default, variables and
// tracked list emptied.
func (m *Manager) Clear(ctx context.Context, chatID int64) error {
	if err := m.store.DeleteSession(chatID); err != nil {
		slog.Error("Session Clear failed", "error", err, "chatID", chatID)
		return err
	}
	slog.Info("Session Clear succeeded", "chatID", chatID)
	return nil
}
