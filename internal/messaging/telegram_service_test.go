package messaging

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/BTreeMap/GearBot/internal/models"
)

// fakeTransport feeds raw updates through an in-memory channel.
type fakeTransport struct {
	updates chan tgbotapi.Update
	stopped bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{updates: make(chan tgbotapi.Update, 8)}
}

func (f *fakeTransport) Updates() tgbotapi.UpdatesChannel { return f.updates }

func (f *fakeTransport) StopUpdates() {
	f.stopped = true
	close(f.updates)
}

func (f *fakeTransport) SendMessage(ctx context.Context, chatID int64, text string, kb *models.Keyboard) (int, error) {
	return 1, nil
}

func (f *fakeTransport) SendPhoto(ctx context.Context, chatID int64, photo models.PhotoRef, caption string, kb *models.Keyboard) (int, string, error) {
	return 1, "", nil
}

func (f *fakeTransport) EditMessage(ctx context.Context, chatID int64, messageID int, text string, kb *models.Keyboard) error {
	return nil
}

func (f *fakeTransport) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	return nil
}

func (f *fakeTransport) AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error {
	return nil
}

func messageUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 1,
			Chat:      &tgbotapi.Chat{ID: chatID},
			From:      &tgbotapi.User{ID: chatID},
			Text:      text,
		},
	}
}

func receiveEvent(t *testing.T, events <-chan models.Event) models.Event {
	t.Helper()
	select {
	case ev, ok := <-events:
		if !ok {
			t.Fatal("event channel closed while an event was expected")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an event")
		return models.Event{}
	}
}

func TestStartForwardsConvertedUpdates(t *testing.T) {
	transport := newFakeTransport()
	svc := NewTelegramService(transport)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer svc.Stop()

	// An unusable update is dropped; the next usable one comes through.
	transport.updates <- tgbotapi.Update{}
	transport.updates <- messageUpdate(10, "/start")

	ev := receiveEvent(t, svc.Events())
	if ev.ChatID != 10 || ev.Text != "/start" {
		t.Errorf("event = %+v", ev)
	}
}

func TestStopClosesEventChannel(t *testing.T) {
	transport := newFakeTransport()
	svc := NewTelegramService(transport)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	transport.updates <- messageUpdate(10, "hello")
	receiveEvent(t, svc.Events())

	if err := svc.Stop(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !transport.stopped {
		t.Error("underlying poller not stopped")
	}

	// A consumer ranging over Events must terminate after Stop.
	select {
	case _, ok := <-svc.Events():
		if ok {
			t.Error("event received after Stop")
		}
	case <-time.After(2 * time.Second):
		t.Error("event channel not closed after Stop")
	}

	// Stop is idempotent.
	if err := svc.Stop(); err != nil {
		t.Fatalf("unexpected error on second Stop: %v", err)
	}
}
