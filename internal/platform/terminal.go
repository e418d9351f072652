package platform

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/thinkeasyacademy/Dayplanner/internal/domain"
	"github.com/thinkeasyacademy/Dayplanner/internal/navstack"
)

const defaultBellEvery = 2 * time.Second

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	bodyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

// Terminal renders reminders on a text terminal. The alarm is the terminal
// bell, rung periodically until stopped. A terminal has no history stack, so
// Back never echoes.
type Terminal struct {
	mu        sync.Mutex
	out       io.Writer
	bell      bool
	bellEvery time.Duration
	stopBell  chan struct{}
}

// NewTerminal writes to w. The bell is only rung when w is a TTY.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{out: w, bell: isTTY(w), bellEvery: defaultBellEvery}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (t *Terminal) Permission() Permission { return PermissionGranted }

func (t *Terminal) RequestPermission(context.Context) error { return nil }

func (t *Terminal) Show(_ context.Context, title, body string) error {
	box := boxStyle.Render(titleStyle.Render(title) + "\n" + bodyStyle.Render(body))
	return t.println(box)
}

func (t *Terminal) Play(loop bool) error {
	if !t.bell {
		return ErrAudioUnavailable
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	if _, err := io.WriteString(t.out, "\a"); err != nil {
		return err
	}
	if !loop {
		return nil
	}
	stop := make(chan struct{})
	t.stopBell = stop
	go t.ring(stop)
	return nil
}

func (t *Terminal) ring(stop <-chan struct{}) {
	ticker := time.NewTicker(t.bellEvery)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.mu.Lock()
			_, _ = io.WriteString(t.out, "\a")
			t.mu.Unlock()
		}
	}
}

func (t *Terminal) Stop() error {
	t.mu.Lock()
	t.stopLocked()
	t.mu.Unlock()
	return nil
}

func (t *Terminal) stopLocked() {
	if t.stopBell != nil {
		close(t.stopBell)
		t.stopBell = nil
	}
}

func (t *Terminal) Push(navstack.Kind) {}

func (t *Terminal) Back() bool { return false }

func (t *Terminal) ReminderChanged(task *domain.Task) {
	if task == nil {
		_ = t.println(hintStyle.Render("reminder dismissed"))
		return
	}
	_ = t.println(hintStyle.Render(fmt.Sprintf("%q at %s  [d] dismiss  [v] view  [b] back", task.Title, task.Time)))
}

func (t *Terminal) OverlayClosed(kind navstack.Kind) {
	_ = t.println(hintStyle.Render("closed " + string(kind)))
}

func (t *Terminal) println(s string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintln(t.out, s)
	return err
}
