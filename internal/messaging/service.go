// Package messaging provides the message delivery abstraction for GearBot.
package messaging

import (
	"context"

	"github.com/BTreeMap/GearBot/internal/models"
)

// Service defines a pluggable message delivery abstraction.
// It supports sending, editing and deleting messages, answering inline
// button presses, and provides a channel of inbound user events.
type Service interface {
	// SendMessage sends a text message with an optional keyboard and
	// returns the id of the sent message.
	SendMessage(ctx context.Context, chatID int64, text string, kb *models.Keyboard) (int, error)

	// SendPhoto sends a photo with an optional caption and keyboard.
	// It returns the sent message id and the remote file handle assigned
	// by the transport, which callers may cache for later sends.
	SendPhoto(ctx context.Context, chatID int64, photo models.PhotoRef, caption string, kb *models.Keyboard) (int, string, error)

	// EditMessage replaces the text and keyboard of an earlier message.
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, kb *models.Keyboard) error

	// DeleteMessage deletes a message by id. Implementations tolerate
	// already-deleted messages without returning an error.
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error

	// AnswerCallback acknowledges an inline button press, optionally with
	// a toast or alert text, so the client UI stops its spinner.
	AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error

	// Events returns a channel of inbound user events.
	Events() <-chan models.Event

	// Start begins background processing (e.g. long polling for updates).
	Start(ctx context.Context) error

	// Stop stops background processing and cleans up resources.
	Stop() error
}
