package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Spinner displays an animated spinner with a message on a terminal
// stream. On anything else it prints the message once.
type Spinner struct {
	out     io.Writer
	tty     bool
	message string
	frames  []string
	done    chan struct{}
	wg      sync.WaitGroup
	stopped sync.Once
}

// Default spinner frames (dots style)
var defaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a spinner on f, usually os.Stderr so that stdout
// stays clean for reports.
func NewSpinner(f *os.File, message string) *Spinner {
	return &Spinner{
		out:     f,
		tty:     isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()),
		message: message,
		frames:  defaultFrames,
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if !s.tty {
		fmt.Fprintf(s.out, "%s...\n", s.message)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.done:
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				frame := s.frames[i%len(s.frames)]
				fmt.Fprintf(s.out, "\r%s %s", Bold.Render(frame), s.message)
			}
		}
	}()
}

// Stop stops the spinner. It is safe to call more than once.
func (s *Spinner) Stop() {
	s.stopped.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
}

// StopWithCheck stops the spinner and prints a success message.
func (s *Spinner) StopWithCheck(message string) {
	s.Stop()
	fmt.Fprintln(s.out, Check(message))
}
