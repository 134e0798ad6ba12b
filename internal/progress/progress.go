// Package progress renders download progress and long-operation spinners
// on the user's terminal. It stays silent on non-terminal outputs.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// IsTerminalFunc reports whether a file descriptor is a terminal.
// Overridable for testing.
var IsTerminalFunc = term.IsTerminal

// barWidth is the character width of the rendered progress bar.
const barWidth = 30

// Writer counts bytes flowing through an io.Writer and renders a progress
// line. With a known total it shows a bar, percentage, speed, and ETA;
// otherwise just bytes and speed.
type Writer struct {
	dst       io.Writer
	output    io.Writer
	total     int64
	written   int64
	startTime time.Time
	lastPrint time.Time
	mu        sync.Mutex
}

// NewWriter wraps dst with progress display written to output. A total
// of <= 0 means unknown size.
func NewWriter(dst io.Writer, total int64, output io.Writer) *Writer {
	return &Writer{
		dst:       dst,
		output:    output,
		total:     total,
		startTime: time.Now(),
	}
}

// Write implements io.Writer, forwarding to the wrapped writer and
// updating the display.
func (pw *Writer) Write(p []byte) (int, error) {
	n, err := pw.dst.Write(p)
	if n > 0 {
		pw.mu.Lock()
		pw.written += int64(n)
		pw.maybePrint()
		pw.mu.Unlock()
	}
	return n, err
}

// Finish clears the progress line.
func (pw *Writer) Finish() {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	fmt.Fprintf(pw.output, "\r%s\r", strings.Repeat(" ", 80))
}

// maybePrint renders the current state, rate-limited to 10 updates per
// second to avoid flicker. Callers hold pw.mu.
func (pw *Writer) maybePrint() {
	now := time.Now()
	if now.Sub(pw.lastPrint) < 100*time.Millisecond {
		return
	}
	pw.lastPrint = now

	elapsed := now.Sub(pw.startTime).Seconds()
	if elapsed < 0.1 {
		return
	}

	line := pw.render(elapsed)
	// Pad to overwrite leftovers from a longer previous line.
	if len(line) < 80 {
		line += strings.Repeat(" ", 80-len(line))
	}
	_, _ = fmt.Fprint(pw.output, "\r"+line)
}

// render builds the progress line for the given elapsed seconds.
func (pw *Writer) render(elapsed float64) string {
	speed := float64(pw.written) / elapsed

	if pw.total <= 0 {
		return fmt.Sprintf("   Downloaded: %s (%s/s)",
			formatBytes(pw.written), formatBytes(int64(speed)))
	}

	percent := float64(pw.written) / float64(pw.total) * 100
	if percent > 100 {
		percent = 100
	}

	etaStr := "--:--"
	if speed > 0 {
		remaining := float64(pw.total-pw.written) / speed
		if remaining < 0 {
			remaining = 0
		}
		etaStr = formatDuration(remaining)
	}

	filled := int(percent / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("=", filled)
	if filled < barWidth {
		bar += ">" + strings.Repeat(" ", barWidth-filled-1)
	}

	return fmt.Sprintf("   [%s] %3.0f%% (%s/%s) %s/s ETA: %s",
		bar, percent,
		formatBytes(pw.written), formatBytes(pw.total),
		formatBytes(int64(speed)), etaStr)
}

// formatBytes renders a byte count in human-readable units.
func formatBytes(b int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case b >= gb:
		return fmt.Sprintf("%.1fGB", float64(b)/gb)
	case b >= mb:
		return fmt.Sprintf("%.1fMB", float64(b)/mb)
	case b >= kb:
		return fmt.Sprintf("%.1fKB", float64(b)/kb)
	default:
		return fmt.Sprintf("%dB", b)
	}
}

// formatDuration renders seconds as M:SS, or H:MM:SS past an hour.
func formatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int(seconds)
	if s >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", s/3600, (s%3600)/60, s%60)
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// ShouldShowProgress reports whether progress should render: stdout is a
// terminal.
func ShouldShowProgress() bool {
	return IsTerminalFunc(int(os.Stdout.Fd()))
}
