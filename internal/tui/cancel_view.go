package tui

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/njprem/storefront/internal/countdown"
)

const (
	rowTitle  = 0
	rowButton = 2
	rowStatus = 4
	rowHelp   = 6
)

var (
	styleTitle  = tcell.StyleDefault.Bold(true)
	styleButton = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkRed)
	styleBusy   = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorDarkRed)
	styleClosed = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleHelp   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// CancelView renders a countdown.Button on a terminal screen. Enter activates
// the button; q, Esc and Ctrl-C leave the view.
type CancelView struct {
	screen tcell.Screen
	title  string
	log    zerolog.Logger

	mu     sync.Mutex
	status string
}

func NewCancelView(screen tcell.Screen, title string, log zerolog.Logger) *CancelView {
	return &CancelView{screen: screen, title: title, log: log}
}

// Changed is meant for countdown.WithOnChange. It only schedules a redraw.
func (v *CancelView) Changed(countdown.State) {
	v.wake()
}

// SetStatus replaces the status line. Actions use it to report their own
// failures since the button never surfaces them.
func (v *CancelView) SetStatus(msg string) {
	v.mu.Lock()
	v.status = msg
	v.mu.Unlock()
	v.wake()
}

func (v *CancelView) Status() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

func (v *CancelView) wake() {
	if err := v.screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
		v.log.Debug().Err(err).Msg("redraw dropped")
	}
}

// Run mounts button and handles input until the user quits or ctx is done.
// An activation still in flight when Run returns is cancelled and waited for.
func (v *CancelView) Run(ctx context.Context, button *countdown.Button) error {
	ctx, cancel := context.WithCancel(ctx)
	var activations sync.WaitGroup
	defer func() {
		cancel()
		activations.Wait()
	}()

	unmount := button.Mount(ctx)
	defer unmount()

	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	v.draw(button)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC,
					ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
					return nil
				case ev.Key() == tcell.KeyEnter:
					activations.Add(1)
					go func() {
						defer activations.Done()
						if !button.Activate(ctx) {
							v.log.Debug().Msg("activation ignored")
						}
					}()
				}
			case *tcell.EventResize:
				v.screen.Sync()
			}
			v.draw(button)
		}
	}
}

func (v *CancelView) draw(button *countdown.Button) {
	v.screen.Clear()
	drawText(v.screen, 0, rowTitle, styleTitle, v.title)

	label := button.Render()
	switch {
	case label == "":
		drawText(v.screen, 0, rowButton, styleClosed, "The cancellation window has closed.")
	case button.State().InFlight:
		drawText(v.screen, 0, rowButton, styleBusy, " "+label+" ")
	default:
		drawText(v.screen, 0, rowButton, styleButton, " "+label+" ")
	}

	if status := v.Status(); status != "" {
		drawText(v.screen, 0, rowStatus, styleStatus, status)
	}
	drawText(v.screen, 0, rowHelp, styleHelp, "Enter: cancel order   q: quit")
	v.screen.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	width, height := s.Size()
	if y >= height {
		return
	}
	for _, r := range text {
		if x >= width {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
