// Package notify implements the periodic mass-notification sweep: a
// best-effort, eventually-consistent fan-out of undelivered admin
// notices to every notifiable user.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BTreeMap/GearBot/internal/messaging"
	"github.com/BTreeMap/GearBot/internal/models"
	"github.com/BTreeMap/GearBot/internal/store"
)

// DefaultDelay is the inter-message delay during a fan-out, throttling
// outbound sends to respect transport rate limits.
const DefaultDelay = 100 * time.Millisecond

// Opts holds configuration options for the Sweeper.
type Opts struct {
	Delay time.Duration
}

// Option defines a configuration option for the Sweeper.
type Option func(*Opts)

// WithDelay sets the inter-message delay during fan-out.
func WithDelay(delay time.Duration) Option {
	return func(o *Opts) { o.Delay = delay }
}

// Sweeper fans undelivered notices out to notifiable users.
type Sweeper struct {
	store     store.Store
	messenger messaging.Service
	delay     time.Duration
}

// NewSweeper creates a Sweeper, applying any provided options.
func NewSweeper(st store.Store, messenger messaging.Service, opts ...Option) *Sweeper {
	cfg := Opts{Delay: DefaultDelay}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Sweeper{store: st, messenger: messenger, delay: cfg.Delay}
}

// Run performs one sweep: every undelivered notice is fanned out in
// turn. A notice whose fan-out aborts stays undelivered and is retried
// on the next sweep; repeated sweeps may re-send to users who already
// received part of an aborted broadcast, which is accepted.
func (s *Sweeper) Run(ctx context.Context) error {
	notices, err := s.store.ListUndeliveredNotices()
	if err != nil {
		return fmt.Errorf("failed to list undelivered notices: %w", err)
	}
	if len(notices) == 0 {
		slog.Debug("Notification sweep found nothing to deliver")
		return nil
	}
	slog.Info("Notification sweep starting", "notices", len(notices))

	for _, notice := range notices {
		if err := s.Deliver(ctx, notice); err != nil {
			slog.Error("Notice fan-out aborted", "error", err, "noticeID", notice.ID)
			continue
		}
	}
	return nil
}

// Deliver fans one notice out to every active user with a bound chat
// identity. The first delivery failure aborts the remaining fan-out and
// leaves the notice undelivered; only a fully successful fan-out stamps
// the delivered timestamp.
func (s *Sweeper) Deliver(ctx context.Context, notice models.Notice) error {
	users, err := s.store.ListNotifiableUsers()
	if err != nil {
		return fmt.Errorf("%w: failed to list recipients: %v", models.ErrInvalidNotification, err)
	}

	for i, user := range users {
		if user.ChatID == nil {
			continue
		}
		if i > 0 && s.delay > 0 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", models.ErrInvalidNotification, ctx.Err())
			}
		}
		if _, err := s.messenger.SendMessage(ctx, *user.ChatID, notice.Text, nil); err != nil {
			return fmt.Errorf("%w: chat %d: %v", models.ErrInvalidNotification, *user.ChatID, err)
		}
	}

	if err := s.store.MarkNoticeDelivered(notice.ID, time.Now()); err != nil {
		return fmt.Errorf("failed to mark notice %d delivered: %w", notice.ID, err)
	}
	slog.Info("Notice delivered", "noticeID", notice.ID, "recipients", len(users))
	return nil
}
