package messaging

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/BTreeMap/GearBot/internal/models"
	"github.com/BTreeMap/GearBot/internal/telegram"
)

// DefaultEventBuffer is the inbound event channel buffer size.
const DefaultEventBuffer = 64

// Transport is the Bot API client surface the service builds on.
// Satisfied by *telegram.Client.
type Transport interface {
	Updates() tgbotapi.UpdatesChannel
	StopUpdates()
	SendMessage(ctx context.Context, chatID int64, text string, kb *models.Keyboard) (int, error)
	SendPhoto(ctx context.Context, chatID int64, photo models.PhotoRef, caption string, kb *models.Keyboard) (int, string, error)
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, kb *models.Keyboard) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error
}

var _ Transport = (*telegram.Client)(nil)

// TelegramService implements Service using the Telegram Bot API client.
type TelegramService struct {
	client  Transport
	events  chan models.Event
	stopCh  chan struct{}
	stopped sync.Once
	wg      sync.WaitGroup
}

// NewTelegramService creates a messaging service over a Telegram client.
func NewTelegramService(client Transport) *TelegramService {
	return &TelegramService{
		client: client,
		events: make(chan models.Event, DefaultEventBuffer),
		stopCh: make(chan struct{}),
	}
}

// Start begins long polling and forwards converted updates onto the
// event channel until Stop is called or the context is cancelled.
func (s *TelegramService) Start(ctx context.Context) error {
	updates := s.client.Updates()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					slog.Info("TelegramService update channel closed")
					return
				}
				ev, ok := telegram.ToEvent(update)
				if !ok {
					continue
				}
				select {
				case s.events <- ev:
				case <-ctx.Done():
					return
				case <-s.stopCh:
					return
				}
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			}
		}
	}()
	slog.Info("TelegramService started")
	return nil
}

// Stop shuts down the polling loop, waits for the forwarder to exit and
// closes the event channel so consumers ranging over Events terminate.
func (s *TelegramService) Stop() error {
	s.stopped.Do(func() {
		s.client.StopUpdates()
		close(s.stopCh)
		s.wg.Wait()
		close(s.events)
		slog.Info("TelegramService stopped")
	})
	return nil
}

// Events returns the channel of inbound user events.
func (s *TelegramService) Events() <-chan models.Event {
	return s.events
}

// SendMessage sends a text message via the Telegram client.
func (s *TelegramService) SendMessage(ctx context.Context, chatID int64, text string, kb *models.Keyboard) (int, error) {
	return s.client.SendMessage(ctx, chatID, text, kb)
}

// SendPhoto sends a photo via the Telegram client.
func (s *TelegramService) SendPhoto(ctx context.Context, chatID int64, photo models.PhotoRef, caption string, kb *models.Keyboard) (int, string, error) {
	return s.client.SendPhoto(ctx, chatID, photo, caption, kb)
}

// EditMessage edits a sent message via the Telegram client.
func (s *TelegramService) EditMessage(ctx context.Context, chatID int64, messageID int, text string, kb *models.Keyboard) error {
	return s.client.EditMessage(ctx, chatID, messageID, text, kb)
}

// DeleteMessage deletes a message via the Telegram client.
func (s *TelegramService) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	return s.client.DeleteMessage(ctx, chatID, messageID)
}

// AnswerCallback acknowledges an inline button press.
func (s *TelegramService) AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error {
	return s.client.AnswerCallback(ctx, callbackID, text, showAlert)
}
