// Package flow implements GearBot's conversation flows as transition
// declarations over the state machine engine: phone-contact auth,
// pickpoint rating, PPE info and review, FAQ, and admin notifications.
package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/BTreeMap/GearBot/internal/messaging"
	"github.com/BTreeMap/GearBot/internal/models"
	"github.com/BTreeMap/GearBot/internal/session"
	"github.com/BTreeMap/GearBot/internal/store"
)

// Session variable keys for the typed per-flow data structs.
const (
	varRating  = "rating"
	varReview  = "review"
	varNotice  = "notice"
	varInfo    = "ppe_info"
	varCatalog = "catalog"
)

// RatingData carries the pickpoint rating flow's accumulated input.
type RatingData struct {
	PickPointID   int64  `json:"pickpoint_id"`
	PickPointName string `json:"pickpoint_name"`
	Score         int    `json:"score"`
	Comment       string `json:"comment"`
}

// ReviewData carries the PPE review flow's accumulated input.
type ReviewData struct {
	ModelID   int64  `json:"model_id"`
	ModelName string `json:"model_name"`
	Text      string `json:"text"`
}

// NoticeData carries the admin notification flow's entered text.
type NoticeData struct {
	Text string `json:"text"`
}

// CatalogNav carries the type-level navigation context shared by the PPE
// info and review flows.
type CatalogNav struct {
	TypeID   int64  `json:"type_id"`
	TypeName string `json:"type_name"`
}

// InfoData records how many messages the model card rendered so
// back-navigation from the info terminal knows how many to erase.
type InfoData struct {
	ShownCount int `json:"shown_count"`
}

// Notifier delivers one notice to every notifiable user. The flow layer
// uses it for the immediate fan-out after an admin confirms a broadcast.
type Notifier interface {
	Deliver(ctx context.Context, notice models.Notice) error
}

// Config holds flow-level policy injected from the process surface.
type Config struct {
	// IsAdmin gates the mass notification flow by sender identity.
	IsAdmin func(senderID int64) bool
	// MediaDir is the directory holding PPE model photos, one per model.
	MediaDir string
}

// Deps bundles the collaborators every flow handler closes over.
type Deps struct {
	Store     store.Store
	Sessions  *session.Manager
	Tracker   *session.Tracker
	Messenger messaging.Service
	Notifier  Notifier
	Config    Config
}

// send delivers a text message and appends its id to the tracked list.
func (d *Deps) send(ctx context.Context, chatID int64, text string, kb *models.Keyboard) error {
	msgID, err := d.Messenger.SendMessage(ctx, chatID, text, kb)
	if err != nil {
		return err
	}
	return d.Tracker.Track(ctx, chatID, msgID)
}

// ack answers a callback event with no text so the client UI stops its
// spinner. Non-callback events are a no-op.
func (d *Deps) ack(ctx context.Context, ev models.Event) {
	if !ev.IsCallback() {
		return
	}
	if err := d.Messenger.AnswerCallback(ctx, ev.CallbackID(), "", false); err != nil {
		slog.Debug("Flow callback ack failed", "error", err, "chatID", ev.ChatID)
	}
}

// alert answers a callback event with an alert popup.
func (d *Deps) alert(ctx context.Context, ev models.Event, text string) {
	if !ev.IsCallback() {
		return
	}
	if err := d.Messenger.AnswerCallback(ctx, ev.CallbackID(), text, true); err != nil {
		slog.Debug("Flow callback alert failed", "error", err, "chatID", ev.ChatID)
	}
}

// isAuthorized reports whether the chat belongs to an active bound user.
func (d *Deps) isAuthorized(chatID int64) (*models.User, bool) {
	user, err := d.Store.GetUserByChatID(chatID)
	if err != nil {
		slog.Error("Flow authorization lookup failed", "error", err, "chatID", chatID)
		return nil, false
	}
	if user == nil || !user.Active {
		return nil, false
	}
	return user, true
}

// authorizeOrRedirect is the entry guard of the business flows. When the
// chat has no active bound user it prompts for contact sharing, moves the
// session to the auth state and reports false.
func (d *Deps) authorizeOrRedirect(ctx context.Context, ev models.Event) (*models.User, bool, error) {
	user, ok := d.isAuthorized(ev.ChatID)
	if ok {
		return user, true, nil
	}
	slog.Info("Flow unauthorized entry, redirecting to auth", "chatID", ev.ChatID)
	if err := d.send(ctx, ev.ChatID, msgAuthRequired, authKeyboard()); err != nil {
		return nil, false, err
	}
	if err := d.Sessions.SetState(ctx, ev.ChatID, models.StateAuthGetContact); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

// showMainMenu sends the resting main menu keyboard. The menu message is
// deliberately not tracked: it survives branch termination as the chat's
// anchor point.
func (d *Deps) showMainMenu(ctx context.Context, chatID int64, senderID int64) error {
	_, authorized := d.isAuthorized(chatID)
	if !authorized {
		_, err := d.Messenger.SendMessage(ctx, chatID, msgMenuUnauthorized, authKeyboard())
		return err
	}
	admin := d.Config.IsAdmin != nil && d.Config.IsAdmin(senderID)
	_, err := d.Messenger.SendMessage(ctx, chatID, msgMenu, mainMenuKeyboard(admin))
	return err
}

// callbackID extracts the numeric id from a "<prefix>:<id>" callback
// payload. A malformed id is a stale or foreign button press and is
// reported as a session error.
func callbackID(ev models.Event, prefix string) (int64, error) {
	if ev.Callback == nil {
		return 0, fmt.Errorf("%w: event carries no callback", models.ErrInvalidVariable)
	}
	raw := strings.TrimPrefix(ev.Callback.Data, prefix+":")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: callback payload %q", models.ErrInvalidVariable, ev.Callback.Data)
	}
	return id, nil
}

// terminate erases every tracked message, clears the session and shows
// the main menu. This is the branch termination action shared by cancel,
// return-to-menu and successful flow completion.
func (d *Deps) terminate(ctx context.Context, ev models.Event) error {
	if err := d.Tracker.EraseAllAndClear(ctx, ev.ChatID); err != nil {
		return err
	}
	return d.showMainMenu(ctx, ev.ChatID, ev.SenderID)
}
