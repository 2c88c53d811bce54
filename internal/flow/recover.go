package flow

import (
	"context"
	"log/slog"

	"github.com/BTreeMap/GearBot/internal/models"
)

// Recover is the dispatcher's error policy. Session and save errors mean
// the session is stale or an old button was replayed; the user gets a
// generic message and a clean slate at the main menu. Unexpected errors
// take the same path so the user is never left mid-branch without a
// labeled next step.
func (d *Deps) Recover(ctx context.Context, ev models.Event, err error) {
	if models.IsSessionError(err) {
		slog.Warn("Recovering from session error", "error", err, "chatID", ev.ChatID)
	} else {
		slog.Error("Recovering from unexpected handler error", "error", err, "chatID", ev.ChatID)
	}

	d.ack(ctx, ev)
	if _, sendErr := d.Messenger.SendMessage(ctx, ev.ChatID, msgSomethingWrong, nil); sendErr != nil {
		slog.Error("Recovery message send failed", "error", sendErr, "chatID", ev.ChatID)
	}
	if termErr := d.terminate(ctx, ev); termErr != nil {
		slog.Error("Recovery branch termination failed", "error", termErr, "chatID", ev.ChatID)
	}
}

// Unmatched is the dispatcher's policy for events no transition accepts:
// the session is unaffected, but a button press still gets acknowledged
// so the client UI stops its spinner.
func (d *Deps) Unmatched(ctx context.Context, ev models.Event) {
	d.ack(ctx, ev)
}
