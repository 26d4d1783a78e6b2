package countdown

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Action is the guarded operation. Its error only tells the button that the
// action settled unsuccessfully; reporting that failure is up to the action.
type Action func(ctx context.Context) error

// State is a snapshot of a Button.
type State struct {
	Deadline  time.Time
	Remaining time.Duration
	InFlight  bool
}

// Visible reports whether the control should be drawn at all.
func (s State) Visible() bool {
	return s.Remaining > 0
}

// Enabled reports whether an activation would currently invoke the action.
func (s State) Enabled() bool {
	return s.Visible() && !s.InFlight
}

// Button is a time-limited control around a single asynchronous action. It
// disappears once its window closes and allows at most one invocation of the
// action in flight at a time.
type Button struct {
	action   Action
	window   time.Duration
	interval time.Duration
	clock    Clock
	label    string
	onChange func(State)
	log      zerolog.Logger

	mu        sync.Mutex
	createdAt time.Time
	deadline  time.Time
	remaining time.Duration
	inFlight  bool

	// notifyMu serialises onChange calls with teardown so nothing is
	// delivered once Run has returned.
	notifyMu sync.Mutex
	live     bool
}

type Option func(*Button)

func WithWindow(d time.Duration) Option {
	return func(b *Button) {
		if d > 0 {
			b.window = d
		}
	}
}

func WithClock(c Clock) Option {
	return func(b *Button) {
		if c != nil {
			b.clock = c
		}
	}
}

func WithTickInterval(d time.Duration) Option {
	return func(b *Button) {
		if d > 0 {
			b.interval = d
		}
	}
}

func WithLabel(label string) Option {
	return func(b *Button) {
		b.label = label
	}
}

// WithOnChange registers a callback that receives every state change while
// the button is mounted. The callback must not block or call Activate.
func WithOnChange(fn func(State)) Option {
	return func(b *Button) {
		b.onChange = fn
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(b *Button) {
		b.log = l
	}
}

func NewButton(createdAt time.Time, action Action, opts ...Option) *Button {
	b := &Button{
		action:   action,
		window:   DefaultWindow,
		interval: TickInterval,
		clock:    SystemClock,
		label:    "Cancel",
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.createdAt = createdAt
	b.deadline = Deadline(createdAt, b.window)
	b.remaining = Remaining(b.deadline, b.clock.Now())
	return b
}

// SetCreatedAt replaces the creation timestamp. The deadline is only
// recomputed when the timestamp actually changes.
func (b *Button) SetCreatedAt(createdAt time.Time) {
	b.mu.Lock()
	if createdAt.Equal(b.createdAt) {
		b.mu.Unlock()
		return
	}
	b.createdAt = createdAt
	b.deadline = Deadline(createdAt, b.window)
	b.remaining = Remaining(b.deadline, b.clock.Now())
	st := b.stateLocked()
	b.mu.Unlock()
	b.notify(st)
}

func (b *Button) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *Button) stateLocked() State {
	return State{
		Deadline:  b.deadline,
		Remaining: b.remaining,
		InFlight:  b.inFlight,
	}
}

// Render returns the button text, or "" once the window has closed.
func (b *Button) Render() string {
	st := b.State()
	if !st.Visible() {
		return ""
	}
	if st.InFlight {
		return b.label + "..."
	}
	return fmt.Sprintf("%s (%s)", b.label, FormatRemaining(st.Remaining))
}

// Run recomputes the remaining time immediately and then once per tick until
// ctx is done. The ticker is released on return.
func (b *Button) Run(ctx context.Context) {
	ticker := b.clock.NewTicker(b.interval)
	defer ticker.Stop()

	b.notifyMu.Lock()
	b.live = true
	b.notifyMu.Unlock()
	defer func() {
		b.notifyMu.Lock()
		b.live = false
		b.notifyMu.Unlock()
	}()

	b.tick()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if ctx.Err() != nil {
				return
			}
			b.tick()
		}
	}
}

// Mount starts Run in the background. The returned function cancels it and
// waits for the loop to exit; it is safe to call more than once.
func (b *Button) Mount(ctx context.Context) (unmount func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(ctx)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

func (b *Button) tick() {
	b.mu.Lock()
	b.remaining = Remaining(b.deadline, b.clock.Now())
	st := b.stateLocked()
	b.mu.Unlock()
	b.notify(st)
}

// Activate invokes the action unless one is already in flight or the window
// has closed, in which case it returns false without doing anything. The
// window is checked against the clock, not the last tick. It blocks until the
// action settles and never reports the action's error.
func (b *Button) Activate(ctx context.Context) bool {
	b.mu.Lock()
	b.remaining = Remaining(b.deadline, b.clock.Now())
	if b.inFlight || b.remaining <= 0 {
		b.mu.Unlock()
		return false
	}
	b.inFlight = true
	st := b.stateLocked()
	b.mu.Unlock()
	b.notify(st)

	defer b.release()

	res := attempt(ctx, b.action)
	// The action owns failure reporting; the control only needs to know it
	// settled, so the error is dropped here on purpose.
	res.discard(b.log)
	return true
}

func (b *Button) release() {
	b.mu.Lock()
	b.inFlight = false
	st := b.stateLocked()
	b.mu.Unlock()
	b.notify(st)
}

func (b *Button) notify(st State) {
	if b.onChange == nil {
		return
	}
	b.notifyMu.Lock()
	defer b.notifyMu.Unlock()
	if !b.live {
		return
	}
	b.onChange(st)
}

type outcome struct {
	err error
}

func attempt(ctx context.Context, action Action) outcome {
	if action == nil {
		return outcome{}
	}
	return outcome{err: action(ctx)}
}

func (o outcome) discard(log zerolog.Logger) {
	if o.err == nil {
		return
	}
	log.Debug().Err(o.err).Msg("guarded action failed")
}
