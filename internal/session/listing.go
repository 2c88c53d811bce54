package session

import (
	"context"
	"fmt"

	"github.com/BTreeMap/GearBot/internal/models"
)

// Listing cache variable names. Each flow snapshots the id→name mapping
// it rendered so back-navigation and id resolution never re-query the
// catalog mid-branch.
const (
	VarPickPoints = "pickpoints"
	VarTypes      = "types"
	VarModels     = "models"
	VarQuestions  = "questions"
)

// Listing is a snapshot mapping of entity id to display name.
type Listing map[int64]string

// SaveListing stores a listing snapshot under the given variable name.
func (m *Manager) SaveListing(ctx context.Context, chatID int64, name string, items Listing) error {
	// JSON object keys are strings; normalize to keep decode symmetric.
	enc := make(map[string]string, len(items))
	for id, label := range items {
		enc[fmt.Sprintf("%d", id)] = label
	}
	return m.SetJSON(ctx, chatID, name, enc)
}

// GetListing retrieves a listing snapshot. Missing cache yields
// models.ErrInvalidVariable; a wrong-shaped one yields models.ErrInvalidItems.
func (m *Manager) GetListing(ctx context.Context, chatID int64, name string) (Listing, error) {
	var enc map[string]string
	if err := m.GetJSON(ctx, chatID, name, &enc); err != nil {
		return nil, err
	}
	items := make(Listing, len(enc))
	for key, label := range enc {
		var id int64
		if _, err := fmt.Sscanf(key, "%d", &id); err != nil {
			return nil, fmt.Errorf("%w: %q has non-numeric key %q", models.ErrInvalidItems, name, key)
		}
		items[id] = label
	}
	return items, nil
}

// ItemName resolves an id to its cached display name. An id absent from
// the snapshot (a stale button replay) yields models.ErrItemNotFound.
func (m *Manager) ItemName(ctx context.Context, chatID int64, name string, id int64) (string, error) {
	items, err := m.GetListing(ctx, chatID, name)
	if err != nil {
		return "", err
	}
	label, ok := items[id]
	if !ok {
		return "", fmt.Errorf("%w: id %d in %q", models.ErrItemNotFound, id, name)
	}
	return label, nil
}
