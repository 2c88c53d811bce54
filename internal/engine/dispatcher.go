package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BTreeMap/GearBot/internal/models"
	"github.com/BTreeMap/GearBot/internal/session"
)

// DefaultQueueSize is the default per-chat event queue buffer.
const DefaultQueueSize = 16

// Handler processes one inbound event for a transition. Handlers read
// and write session state through closures over their flow dependencies.
type Handler func(ctx context.Context, ev models.Event) error

// Transition maps a (state, event-pattern) pair to a handler. AnyState
// transitions match regardless of the session's current state and are
// evaluated in declaration order together with the rest.
type Transition struct {
	State    models.StateLabel
	AnyState bool
	Match    Matcher
	Name     string
	Handle   Handler
}

// ErrorPolicy is invoked when a handler returns an error or panics.
// It owns user-visible recovery (generic message, branch termination).
type ErrorPolicy func(ctx context.Context, ev models.Event, err error)

// UnmatchedPolicy is invoked when no transition accepts an event, so the
// surrounding delivery layer can still acknowledge a button press.
type UnmatchedPolicy func(ctx context.Context, ev models.Event)

// Opts holds configuration options for the Dispatcher.
type Opts struct {
	QueueSize   int
	OnError     ErrorPolicy
	OnUnmatched UnmatchedPolicy
}

// Option defines a configuration option for the Dispatcher.
type Option func(*Opts)

// WithQueueSize sets the per-chat event queue buffer size.
func WithQueueSize(n int) Option {
	return func(o *Opts) { o.QueueSize = n }
}

// WithErrorPolicy sets the handler error/panic recovery policy.
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(o *Opts) { o.OnError = p }
}

// WithUnmatchedPolicy sets the policy for events no transition accepts.
func WithUnmatchedPolicy(p UnmatchedPolicy) Option {
	return func(o *Opts) { o.OnUnmatched = p }
}

// Dispatcher routes inbound events through the transition table.
//
// Events for one chat id run on a single consumer goroutine in arrival
// order; sibling chats proceed in parallel. One event's failure (error
// or panic) never affects another chat's processing.
type Dispatcher struct {
	sessions    *session.Manager
	transitions []Transition
	queueSize   int
	onError     ErrorPolicy
	onUnmatched UnmatchedPolicy

	mu     sync.Mutex
	queues map[int64]chan models.Event
	wg     sync.WaitGroup
	done   chan struct{}
}

// NewDispatcher creates a Dispatcher over a declared transition table.
func NewDispatcher(sessions *session.Manager, transitions []Transition, opts ...Option) *Dispatcher {
	cfg := Opts{QueueSize: DefaultQueueSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("Creating Dispatcher", "transitions", len(transitions), "queueSize", cfg.QueueSize)
	return &Dispatcher{
		sessions:    sessions,
		transitions: transitions,
		queueSize:   cfg.QueueSize,
		onError:     cfg.OnError,
		onUnmatched: cfg.OnUnmatched,
		queues:      make(map[int64]chan models.Event),
		done:        make(chan struct{}),
	}
}

// Dispatch enqueues an event onto its chat's serial queue, creating the
// queue and its consumer goroutine on first use.
func (d *Dispatcher) Dispatch(ctx context.Context, ev models.Event) {
	d.mu.Lock()
	q, ok := d.queues[ev.ChatID]
	if !ok {
		q = make(chan models.Event, d.queueSize)
		d.queues[ev.ChatID] = q
		d.wg.Add(1)
		go d.consume(ctx, ev.ChatID, q)
	}
	d.mu.Unlock()

	select {
	case q <- ev:
	case <-ctx.Done():
		slog.Debug("Dispatcher dropping event, context cancelled", "chatID", ev.ChatID)
	case <-d.done:
		slog.Debug("Dispatcher dropping event, stopped", "chatID", ev.ChatID)
	}
}

// consume is the single consumer for one chat's queue.
func (d *Dispatcher) consume(ctx context.Context, chatID int64, q chan models.Event) {
	defer d.wg.Done()
	for {
		select {
		case ev := <-q:
			d.process(ctx, ev)
		case <-ctx.Done():
			return
		case <-d.done:
			return
		}
	}
}

// Stop terminates all per-chat consumers and waits for in-flight
// handlers to finish.
func (d *Dispatcher) Stop() {
	close(d.done)
	d.wg.Wait()
	slog.Info("Dispatcher stopped")
}

// process runs the first-match dispatch for one event.
func (d *Dispatcher) process(ctx context.Context, ev models.Event) {
	state, err := d.sessions.State(ctx, ev.ChatID)
	if err != nil {
		slog.Error("Dispatcher state lookup failed", "error", err, "chatID", ev.ChatID)
		d.fail(ctx, ev, err)
		return
	}

	for i := range d.transitions {
		tr := &d.transitions[i]
		if !tr.AnyState && tr.State != state {
			continue
		}
		if !tr.Match(ev) {
			continue
		}
		slog.Debug("Dispatcher transition matched", "chatID", ev.ChatID, "state", state, "transition", tr.Name)
		if err := d.run(ctx, tr, ev); err != nil {
			slog.Error("Dispatcher handler failed", "error", err, "chatID", ev.ChatID, "transition", tr.Name)
			d.fail(ctx, ev, err)
		}
		return
	}

	slog.Debug("Dispatcher no transition matched", "chatID", ev.ChatID, "state", state, "callback", ev.IsCallback())
	if d.onUnmatched != nil {
		d.onUnmatched(ctx, ev)
	}
}

// run executes a handler with panic isolation: a panicking handler is
// converted to an error for the recovery policy instead of taking down
// the chat's consumer goroutine.
func (d *Dispatcher) run(ctx context.Context, tr *Transition, ev models.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %q panicked: %v", tr.Name, r)
		}
	}()
	return tr.Handle(ctx, ev)
}

func (d *Dispatcher) fail(ctx context.Context, ev models.Event, err error) {
	if d.onError != nil {
		d.onError(ctx, ev, err)
	}
}
