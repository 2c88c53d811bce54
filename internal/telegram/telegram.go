// Package telegram wraps the Telegram Bot API client for GearBot.
//
// It provides methods for sending, editing and deleting messages,
// answering callback queries, and converting raw updates into the
// transport-neutral event model the flows consume.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/BTreeMap/GearBot/internal/models"
)

// Constants for Telegram client configuration
const (
	// DefaultPollTimeout is the long-poll timeout in seconds for getUpdates.
	DefaultPollTimeout = 60
	// ParseMode is the formatting mode used for all outgoing messages.
	ParseMode = tgbotapi.ModeHTML
)

// Opts holds configuration options for the Telegram client.
type Opts struct {
	Token       string
	PollTimeout int
	Debug       bool
}

// Option defines a configuration option for the Telegram client.
type Option func(*Opts)

// WithToken sets the bot token.
func WithToken(token string) Option {
	return func(o *Opts) { o.Token = token }
}

// WithPollTimeout sets the long-poll timeout in seconds.
func WithPollTimeout(seconds int) Option {
	return func(o *Opts) { o.PollTimeout = seconds }
}

// WithDebug enables the underlying client's request logging.
func WithDebug() Option {
	return func(o *Opts) { o.Debug = true }
}

// Client wraps the Bot API client for modular use.
type Client struct {
	api         *tgbotapi.BotAPI
	pollTimeout int
}

// NewClient creates a new Telegram client, applying any provided options.
func NewClient(opts ...Option) (*Client, error) {
	cfg := Opts{PollTimeout: DefaultPollTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("Telegram NewClient options set", "token_set", cfg.Token != "", "pollTimeout", cfg.PollTimeout, "debug", cfg.Debug)

	if cfg.Token == "" {
		slog.Error("Telegram bot token not set")
		return nil, fmt.Errorf("bot token not set")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		slog.Error("Failed to initialize Telegram client", "error", err)
		return nil, fmt.Errorf("failed to initialize Telegram client: %w", err)
	}
	api.Debug = cfg.Debug
	slog.Info("Telegram client authorized", "username", api.Self.UserName)

	return &Client{api: api, pollTimeout: cfg.PollTimeout}, nil
}

// SendMessage sends a text message and returns the sent message id.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, kb *models.Keyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = ParseMode
	if markup := toMarkup(kb); markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := c.api.Send(msg)
	if err != nil {
		slog.Error("Telegram SendMessage failed", "error", err, "chatID", chatID)
		return 0, fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	slog.Debug("Telegram SendMessage succeeded", "chatID", chatID, "messageID", sent.MessageID)
	return sent.MessageID, nil
}

// SendPhoto sends a photo by cached file handle or local path. It
// returns the sent message id and the file handle assigned by Telegram,
// which callers cache to avoid re-uploading.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photo models.PhotoRef, caption string, kb *models.Keyboard) (int, string, error) {
	var file tgbotapi.RequestFileData
	if photo.FileID != "" {
		file = tgbotapi.FileID(photo.FileID)
	} else {
		file = tgbotapi.FilePath(photo.Path)
	}
	msg := tgbotapi.NewPhoto(chatID, file)
	msg.Caption = caption
	msg.ParseMode = ParseMode
	if markup := toMarkup(kb); markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := c.api.Send(msg)
	if err != nil {
		slog.Error("Telegram SendPhoto failed", "error", err, "chatID", chatID, "cached", photo.FileID != "")
		return 0, "", fmt.Errorf("failed to send photo to chat %d: %w", chatID, err)
	}
	fileID := photo.FileID
	if len(sent.Photo) > 0 {
		// Telegram returns several resolutions; the last is the largest.
		fileID = sent.Photo[len(sent.Photo)-1].FileID
	}
	slog.Debug("Telegram SendPhoto succeeded", "chatID", chatID, "messageID", sent.MessageID)
	return sent.MessageID, fileID, nil
}

// EditMessage replaces the text (and inline keyboard) of a sent message.
func (c *Client) EditMessage(ctx context.Context, chatID int64, messageID int, text string, kb *models.Keyboard) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = ParseMode
	if kb != nil && kb.Inline {
		markup := toInlineMarkup(kb)
		edit.ReplyMarkup = &markup
	}
	if _, err := c.api.Request(edit); err != nil {
		slog.Error("Telegram EditMessage failed", "error", err, "chatID", chatID, "messageID", messageID)
		return fmt.Errorf("failed to edit message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

// DeleteMessage deletes one message by id. Already-deleted or otherwise
// missing messages are tolerated: deletion is best-effort chat hygiene.
func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if _, err := c.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		if isNotFound(err) {
			slog.Debug("Telegram DeleteMessage already gone", "chatID", chatID, "messageID", messageID)
			return nil
		}
		slog.Debug("Telegram DeleteMessage failed", "error", err, "chatID", chatID, "messageID", messageID)
		return fmt.Errorf("failed to delete message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

// AnswerCallback acknowledges a callback query, optionally with an alert.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error {
	answer := tgbotapi.CallbackConfig{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       showAlert,
	}
	if _, err := c.api.Request(answer); err != nil {
		slog.Error("Telegram AnswerCallback failed", "error", err)
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

// SetCommands registers the bot-level command list.
func (c *Client) SetCommands(ctx context.Context, commands map[string]string, order []string) error {
	cmds := make([]tgbotapi.BotCommand, 0, len(order))
	for _, name := range order {
		cmds = append(cmds, tgbotapi.BotCommand{Command: name, Description: commands[name]})
	}
	if _, err := c.api.Request(tgbotapi.NewSetMyCommands(cmds...)); err != nil {
		slog.Error("Telegram SetCommands failed", "error", err)
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	slog.Debug("Telegram SetCommands succeeded", "count", len(cmds))
	return nil
}

// SetDescription sets the bot description shown before the first message.
func (c *Client) SetDescription(ctx context.Context, description string) error {
	params := tgbotapi.Params{"description": description}
	if _, err := c.api.MakeRequest("setMyDescription", params); err != nil {
		slog.Error("Telegram SetDescription failed", "error", err)
		return fmt.Errorf("failed to set bot description: %w", err)
	}
	return nil
}

// Updates starts long polling and returns a channel of raw updates.
func (c *Client) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = c.pollTimeout
	return c.api.GetUpdatesChan(u)
}

// StopUpdates stops the long-poll loop.
func (c *Client) StopUpdates() {
	c.api.StopReceivingUpdates()
}

// ToEvent converts a raw update into the transport-neutral event model.
// Updates that carry neither a usable message nor a callback return false.
func ToEvent(update tgbotapi.Update) (models.Event, bool) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		ev := models.Event{
			SenderID: cb.From.ID,
			Callback: &models.Callback{ID: cb.ID, Data: cb.Data},
		}
		if cb.Message != nil {
			ev.ChatID = cb.Message.Chat.ID
			ev.MessageID = cb.Message.MessageID
			ev.Callback.MessageID = cb.Message.MessageID
			ev.Time = cb.Message.Time()
		}
		return ev, true
	case update.Message != nil:
		msg := update.Message
		ev := models.Event{
			ChatID:    msg.Chat.ID,
			MessageID: msg.MessageID,
			Text:      msg.Text,
			Time:      msg.Time(),
		}
		if msg.From != nil {
			ev.SenderID = msg.From.ID
		}
		if msg.Contact != nil {
			ev.Contact = &models.Contact{
				PhoneNumber: msg.Contact.PhoneNumber,
				UserID:      msg.Contact.UserID,
			}
		}
		return ev, true
	default:
		return models.Event{}, false
	}
}

// toMarkup converts a transport-neutral keyboard to the Bot API type.
func toMarkup(kb *models.Keyboard) interface{} {
	if kb == nil {
		return nil
	}
	if kb.Inline {
		return toInlineMarkup(kb)
	}
	rows := make([][]tgbotapi.KeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.KeyboardButton{Text: b.Text, RequestContact: b.RequestContact})
		}
		rows = append(rows, buttons)
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.OneTimeKeyboard = kb.OneTime
	markup.ResizeKeyboard = true
	return markup
}

func toInlineMarkup(kb *models.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.CallbackData))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// isNotFound reports whether a Bot API error means the target message is
// already gone.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "message to delete not found") ||
		strings.Contains(msg, "message can't be deleted") ||
		strings.Contains(msg, "message_id_invalid")
}
