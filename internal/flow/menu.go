package flow

import (
	"context"
	"log/slog"

	"github.com/BTreeMap/GearBot/internal/models"
)

// handleStart greets the user, abandoning any in-flight branch first.
// Unauthorized chats are sent straight into the auth flow.
func (d *Deps) handleStart(ctx context.Context, ev models.Event) error {
	if err := d.Tracker.EraseAllAndClear(ctx, ev.ChatID); err != nil {
		return err
	}
	if _, ok := d.isAuthorized(ev.ChatID); ok {
		admin := d.Config.IsAdmin != nil && d.Config.IsAdmin(ev.SenderID)
		_, err := d.Messenger.SendMessage(ctx, ev.ChatID, msgGreeting, mainMenuKeyboard(admin))
		return err
	}
	if _, err := d.Messenger.SendMessage(ctx, ev.ChatID, msgGreeting, nil); err != nil {
		return err
	}
	if err := d.send(ctx, ev.ChatID, msgAuthRequired, authKeyboard()); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, models.StateAuthGetContact)
}

// handleHelp sends the help chapter. The session is untouched so the
// command works mid-flow without losing progress.
func (d *Deps) handleHelp(ctx context.Context, ev models.Event) error {
	_, err := d.Messenger.SendMessage(ctx, ev.ChatID, msgHelp, nil)
	return err
}

// handleReturn is the global return-to-main-menu transition: terminate
// whatever branch is open and show the menu.
func (d *Deps) handleReturn(ctx context.Context, ev models.Event) error {
	slog.Debug("Return to main menu", "chatID", ev.ChatID)
	return d.terminate(ctx, ev)
}
