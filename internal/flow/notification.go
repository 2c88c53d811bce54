package flow

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/BTreeMap/GearBot/internal/models"
)

// handleNoticeEntry starts the mass notification flow. The keyboard only
// shows the entry button to admins, but the handler re-checks the sender
// identity: keyboard visibility is presentation, not authorization.
func (d *Deps) handleNoticeEntry(ctx context.Context, ev models.Event) error {
	if d.Config.IsAdmin == nil || !d.Config.IsAdmin(ev.SenderID) {
		slog.Warn("Notification entry denied", "chatID", ev.ChatID, "senderID", ev.SenderID)
		return nil
	}
	if err := d.send(ctx, ev.ChatID, msgNoticePrompt, returnKeyboard()); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, models.StateNotificationSetText)
}

// handleNoticeText records the trimmed broadcast text and asks to confirm.
func (d *Deps) handleNoticeText(ctx context.Context, ev models.Event) error {
	text := strings.TrimSpace(ev.Text)
	if err := d.Sessions.SetJSON(ctx, ev.ChatID, varNotice, NoticeData{Text: text}); err != nil {
		return err
	}
	if err := d.send(ctx, ev.ChatID, msgNoticeConfirm(text), confirmKeyboard(false)); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, models.StateNotificationGetConfirm)
}

// handleNoticeConfirmYes records the notice and fans it out immediately.
// A partial fan-out leaves the notice undelivered so the periodic sweep
// retries it.
func (d *Deps) handleNoticeConfirmYes(ctx context.Context, ev models.Event) error {
	var data NoticeData
	if err := d.Sessions.GetJSON(ctx, ev.ChatID, varNotice, &data); err != nil {
		d.ack(ctx, ev)
		return err
	}

	now := time.Now()
	id, err := d.Store.AddNotice(data.Text, now)
	if err != nil {
		d.ack(ctx, ev)
		return err
	}
	slog.Info("Notice recorded", "chatID", ev.ChatID, "noticeID", id)

	notice := models.Notice{ID: id, Text: data.Text, CreatedAt: now}
	if err := d.Notifier.Deliver(ctx, notice); err != nil {
		// Undelivered notices are retried by the sweep.
		slog.Error("Immediate notice fan-out incomplete", "error", err, "noticeID", id)
	}

	d.alert(ctx, ev, msgNoticeSent)
	return d.terminate(ctx, ev)
}

// handleNoticeConfirmNo abandons the broadcast.
func (d *Deps) handleNoticeConfirmNo(ctx context.Context, ev models.Event) error {
	d.alert(ctx, ev, msgNoticeCancelled)
	return d.terminate(ctx, ev)
}
