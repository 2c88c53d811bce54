package flow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BTreeMap/GearBot/internal/models"
	"github.com/BTreeMap/GearBot/internal/util"
)

// handleAuthContact resolves a shared contact to an active user record by
// canonical phone number and binds the chat identity to it. An unknown
// number re-shows the auth prompt; the state self-loops either way until
// a bind succeeds.
func (d *Deps) handleAuthContact(ctx context.Context, ev models.Event) error {
	phone := util.CanonicalizePhone(ev.Contact.PhoneNumber)
	slog.Debug("Auth contact received", "chatID", ev.ChatID, "phoneLength", len(phone))

	user, err := d.Store.GetActiveUserByPhone(phone)
	if err != nil {
		if errors.Is(err, models.ErrUserNotExist) {
			slog.Info("Auth contact not registered", "chatID", ev.ChatID)
			return d.send(ctx, ev.ChatID, msgAuthNotFound, authKeyboard())
		}
		return err
	}

	if err := d.Store.BindUserChat(user.ID, ev.ChatID); err != nil {
		return err
	}
	slog.Info("Auth bind succeeded", "chatID", ev.ChatID, "userID", user.ID)

	if err := d.Tracker.EraseAllAndClear(ctx, ev.ChatID); err != nil {
		return err
	}
	admin := d.Config.IsAdmin != nil && d.Config.IsAdmin(ev.SenderID)
	_, err = d.Messenger.SendMessage(ctx, ev.ChatID, msgAuthWelcome, mainMenuKeyboard(admin))
	return err
}

// handleAuthNoContact re-prompts when the user typed instead of sharing
// their contact. The session stays in the auth state.
func (d *Deps) handleAuthNoContact(ctx context.Context, ev models.Event) error {
	return d.send(ctx, ev.ChatID, msgAuthNoContact, authKeyboard())
}
