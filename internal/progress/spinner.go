package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

const spinnerInterval = 100 * time.Millisecond

// Spinner animates a message during operations with no measurable
// progress, like a cargo build. On non-terminal outputs it prints the
// message once and stays quiet.
type Spinner struct {
	mu      sync.Mutex
	output  io.Writer
	message string
	done    chan struct{}
	anim    sync.WaitGroup
	stopped bool
	isTTY   bool
}

// NewSpinner creates a spinner writing to output (os.Stderr when nil).
func NewSpinner(output io.Writer) *Spinner {
	if output == nil {
		output = os.Stderr
	}
	return &Spinner{
		output: output,
		done:   make(chan struct{}),
		isTTY:  ShouldShowProgress(),
	}
}

// Start begins animating with the given message. Non-TTY mode prints the
// message once instead.
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	s.message = message
	s.stopped = false
	s.mu.Unlock()

	if !s.isTTY {
		fmt.Fprintf(s.output, "%s\n", message)
		return
	}

	s.anim.Add(1)
	go s.animate()
}

// SetMessage swaps the displayed message while running.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Stop halts the animation and clears the line. It returns only after the
// animation goroutine has finished writing. Safe to call twice.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.done)
	s.anim.Wait()

	if s.isTTY {
		fmt.Fprintf(s.output, "\r%s\r", strings.Repeat(" ", 80))
	}
}

// StopWithMessage halts the animation and leaves a final line behind.
func (s *Spinner) StopWithMessage(message string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.done)
	s.anim.Wait()

	if s.isTTY {
		fmt.Fprintf(s.output, "\r%s\r%s\n", strings.Repeat(" ", 80), message)
	} else {
		fmt.Fprintf(s.output, "%s\n", message)
	}
}

func (s *Spinner) animate() {
	defer s.anim.Done()
	frame := 0
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			msg := s.message
			s.mu.Unlock()

			char := spinnerFrames[frame%len(spinnerFrames)]
			line := fmt.Sprintf("\r%s %s", char, msg)
			if len(line) < 80 {
				line += strings.Repeat(" ", 80-len(line))
			}
			fmt.Fprint(s.output, line)

			frame++
		}
	}
}
