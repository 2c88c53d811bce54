// Package bot wires GearBot's components together and runs the service:
// store, Telegram transport, session layer, transition table, dispatcher,
// event pump and the periodic notification sweep.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BTreeMap/GearBot/internal/engine"
	"github.com/BTreeMap/GearBot/internal/flow"
	"github.com/BTreeMap/GearBot/internal/lockfile"
	"github.com/BTreeMap/GearBot/internal/messaging"
	"github.com/BTreeMap/GearBot/internal/notify"
	"github.com/BTreeMap/GearBot/internal/scheduler"
	"github.com/BTreeMap/GearBot/internal/session"
	"github.com/BTreeMap/GearBot/internal/store"
	"github.com/BTreeMap/GearBot/internal/telegram"
)

// Default configuration constants
const (
	// DefaultSweepIntervalMinutes is how often undelivered notices are retried.
	DefaultSweepIntervalMinutes = 10
	// DefaultMediaDir is the default directory holding PPE model photos.
	DefaultMediaDir = "media"
)

// botDescription is shown by the client before the first message.
const botDescription = "PPE assistant: rate pickpoints, browse protective equipment, leave reviews and read the FAQ."

// Opts holds configuration options for the bot service.
type Opts struct {
	StateDir             string
	MediaDir             string
	AdminIDs             []int64
	SweepIntervalMinutes int
	NotifyDelay          time.Duration
}

// Option defines a configuration option for the bot service.
type Option func(*Opts)

// WithStateDir sets the state directory used for the instance lock.
func WithStateDir(dir string) Option {
	return func(o *Opts) { o.StateDir = dir }
}

// WithMediaDir sets the PPE model photo directory.
func WithMediaDir(dir string) Option {
	return func(o *Opts) { o.MediaDir = dir }
}

// WithAdminIDs sets the sender identities allowed to broadcast notices.
func WithAdminIDs(ids []int64) Option {
	return func(o *Opts) { o.AdminIDs = ids }
}

// WithSweepInterval sets the notification sweep interval in minutes.
func WithSweepInterval(minutes int) Option {
	return func(o *Opts) { o.SweepIntervalMinutes = minutes }
}

// WithNotifyDelay sets the inter-message delay during notice fan-out.
func WithNotifyDelay(delay time.Duration) Option {
	return func(o *Opts) { o.NotifyDelay = delay }
}

// Run starts the bot service and blocks until SIGINT/SIGTERM.
func Run(storeOpts []store.Option, tgOpts []telegram.Option, opts ...Option) error {
	cfg := Opts{
		MediaDir:             DefaultMediaDir,
		SweepIntervalMinutes: DefaultSweepIntervalMinutes,
		NotifyDelay:          notify.DefaultDelay,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("Bot Run options set", "stateDir", cfg.StateDir, "mediaDir", cfg.MediaDir,
		"admins", len(cfg.AdminIDs), "sweepMinutes", cfg.SweepIntervalMinutes)

	// Only one poller may consume the bot account's update stream.
	if cfg.StateDir != "" {
		lock, err := lockfile.AcquireLock(cfg.StateDir)
		if err != nil {
			return fmt.Errorf("failed to acquire instance lock: %w", err)
		}
		defer lock.Release()
	}

	st, err := openStore(storeOpts)
	if err != nil {
		return err
	}
	defer st.Close()

	client, err := telegram.NewClient(tgOpts...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := setupBotProfile(ctx, client); err != nil {
		slog.Warn("Failed to set bot profile", "error", err)
	}

	messenger := messaging.NewTelegramService(client)
	sessions := session.NewManager(st)
	tracker := session.NewTracker(sessions, messenger)
	sweeper := notify.NewSweeper(st, messenger, notify.WithDelay(cfg.NotifyDelay))

	deps := &flow.Deps{
		Store:     st,
		Sessions:  sessions,
		Tracker:   tracker,
		Messenger: messenger,
		Notifier:  sweeper,
		Config: flow.Config{
			IsAdmin:  adminPredicate(cfg.AdminIDs),
			MediaDir: cfg.MediaDir,
		},
	}

	dispatcher := engine.NewDispatcher(sessions, deps.Transitions(),
		engine.WithErrorPolicy(deps.Recover),
		engine.WithUnmatchedPolicy(deps.Unmatched),
	)

	if err := messenger.Start(ctx); err != nil {
		return fmt.Errorf("failed to start messaging service: %w", err)
	}

	go func() {
		for ev := range messenger.Events() {
			dispatcher.Dispatch(ctx, ev)
		}
	}()

	sched := scheduler.NewScheduler()
	sweepSpec := fmt.Sprintf("@every %dm", cfg.SweepIntervalMinutes)
	if err := sched.AddJob(sweepSpec, func() {
		if err := sweeper.Run(ctx); err != nil {
			slog.Error("Notification sweep failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule notification sweep: %w", err)
	}
	slog.Info("GearBot running", "sweep", sweepSpec)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("Shutting down on signal", "signal", sig.String())

	sched.Stop()
	cancel()
	if err := messenger.Stop(); err != nil {
		slog.Error("Messaging service stop failed", "error", err)
	}
	dispatcher.Stop()
	return nil
}

// openStore picks a backend from the configured DSN.
func openStore(storeOpts []store.Option) (store.Store, error) {
	var sCfg store.Opts
	for _, opt := range storeOpts {
		opt(&sCfg)
	}
	switch store.DetectDSNType(sCfg.DSN) {
	case "postgres":
		slog.Info("Opening Postgres store")
		return store.NewPostgresStore(storeOpts...)
	default:
		slog.Info("Opening SQLite store", "path", sCfg.DSN)
		return store.NewSQLiteStore(storeOpts...)
	}
}

// setupBotProfile registers the command list and description.
func setupBotProfile(ctx context.Context, client *telegram.Client) error {
	commands, order := flow.Commands()
	if err := client.SetCommands(ctx, commands, order); err != nil {
		return err
	}
	return client.SetDescription(ctx, botDescription)
}

// adminPredicate builds the authorization predicate injected into the
// flow layer from the configured id list.
func adminPredicate(ids []int64) func(int64) bool {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(senderID int64) bool {
		_, ok := set[senderID]
		return ok
	}
}
