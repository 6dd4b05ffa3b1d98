package commands

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	bspinner "github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// Spinner colour cycle
var spinnerColors = []lipgloss.Color{
	lipgloss.Color("#7aa2f7"),
	lipgloss.Color("#7dcfff"),
	lipgloss.Color("#bb9af7"),
	lipgloss.Color("#9ece6a"),
}

// spinnerStyle supplies the glyph frames and frame rate
var spinnerStyle = bspinner.Dot

// spinner draws the "waiting for an answer" line of the one-shot mode
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(spinnerStyle.FPS)
		defer ticker.Stop()

		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws a spinner glyph and the message followed by three dots, one
// lit per frame
func (s *spinner) render() {
	glyph := lipgloss.NewStyle().
		Foreground(spinnerColors[s.frame%len(spinnerColors)]).
		Render(spinnerStyle.Frames[s.frame%len(spinnerStyle.Frames)])

	var dots strings.Builder
	lit := s.frame % 3
	for i := 0; i < 3; i++ {
		if i > 0 {
			dots.WriteString(" ")
		}
		if i == lit {
			color := spinnerColors[(s.frame/3)%len(spinnerColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(color).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("●"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s", glyph, msg, dots.String())
}

// stopOnce closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}
