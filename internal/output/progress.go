package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Falls back to false for
// plain io.Writer values such as *bytes.Buffer.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// ProgressBar displays transfer progress in bytes.
// Example: [=========>          ]  45% 20 MB / 44 MB Downloading dataset
//
// ProgressBar is an io.Writer, so it can count a copy through io.TeeReader.
// A total of zero or less means the size is unknown; only the byte count is
// shown then.
type ProgressBar struct {
	total       int64
	current     int64
	description string
	width       int
	mu          sync.Mutex
	writer      io.Writer
	lastDraw    time.Time
}

// NewProgress creates a new progress bar for total bytes.
func NewProgress(total int64, description string) *ProgressBar {
	return &ProgressBar{
		total:       total,
		description: description,
		width:       40,
		writer:      os.Stderr,
	}
}

// SetWidth sets the width of the progress bar in characters.
func (p *ProgressBar) SetWidth(width int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width = width
}

// SetWriter sets the output writer (useful for testing).
func (p *ProgressBar) SetWriter(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = w
}

// Write counts len(b) bytes of progress. It never fails.
func (p *ProgressBar) Write(b []byte) (int, error) {
	p.Add(int64(len(b)))
	return len(b), nil
}

// Add advances the bar by n bytes. Redraws are throttled on a TTY.
func (p *ProgressBar) Add(n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current += n
	if p.total > 0 && p.current > p.total {
		p.current = p.total
	}

	if time.Since(p.lastDraw) < 100*time.Millisecond && p.current != p.total {
		return
	}
	p.render()
}

// Current returns the bytes counted so far.
func (p *ProgressBar) Current() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Finish completes the progress bar and moves to a new line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total > 0 {
		p.current = p.total
	}

	if writerIsTTY(p.writer) {
		p.render()
		fmt.Fprintln(p.writer)
		return
	}
	// Non-TTY output is a single summary line.
	fmt.Fprintf(p.writer, "%s %s\n", p.description, p.amount())
}

// render draws the progress bar (must be called with lock held).
// Non-TTY writers are left alone until Finish.
func (p *ProgressBar) render() {
	if !writerIsTTY(p.writer) {
		return
	}
	p.lastDraw = time.Now()

	if p.total <= 0 {
		fmt.Fprintf(p.writer, "\r%s %s", p.description, p.amount())
		return
	}

	percentage := int(p.current * 100 / p.total)
	fmt.Fprintf(p.writer, "\r%s %3d%% %s %s", p.bar(), percentage, p.amount(), p.description)
}

func (p *ProgressBar) bar() string {
	filled := 0
	if p.total > 0 {
		filled = int(p.current * int64(p.width) / p.total)
	}

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < p.width; i++ {
		switch {
		case i < filled-1:
			bar.WriteString("=")
		case i == filled-1:
			bar.WriteString(">")
		default:
			bar.WriteString(" ")
		}
	}
	bar.WriteString("]")
	return bar.String()
}

func (p *ProgressBar) amount() string {
	if p.total <= 0 {
		return humanize.Bytes(uint64(p.current))
	}
	return humanize.Bytes(uint64(p.current)) + " / " + humanize.Bytes(uint64(p.total))
}

// Spinner displays an animated spinner with a message and elapsed time.
// Example: |  Counting co-occurrences (3s elapsed)
type Spinner struct {
	message   string
	running   bool
	chars     []string
	mu        sync.Mutex
	writer    io.Writer
	ticker    *time.Ticker
	done      chan struct{}
	startTime time.Time
}

// NewSpinner creates a new spinner with a message.
// If the writer is not a TTY, the animation goroutine is skipped and the
// message is printed once so that log output is not cluttered.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		chars:   []string{"|", "/", "-", "\\"},
		writer:  os.Stderr,
		done:    make(chan struct{}),
	}
}

// SetWriter sets the output writer (useful for testing).
func (s *Spinner) SetWriter(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer = w
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.running = true
	s.startTime = time.Now()

	if !writerIsTTY(s.writer) {
		fmt.Fprintf(s.writer, "%s...\n", s.message)
		return
	}

	s.ticker = time.NewTicker(100 * time.Millisecond)

	go func() {
		idx := 0
		for {
			select {
			case <-s.ticker.C:
				s.mu.Lock()
				if !s.running {
					s.mu.Unlock()
					return
				}
				fmt.Fprintf(s.writer, "\r%s  %s", s.chars[idx], s.formatMessage())
				idx = (idx + 1) % len(s.chars)
				s.mu.Unlock()

			case <-s.done:
				return
			}
		}
	}()
}

// formatMessage must be called with lock held.
func (s *Spinner) formatMessage() string {
	elapsed := time.Since(s.startTime)
	if elapsed < time.Second {
		return s.message
	}
	return fmt.Sprintf("%s (%ds elapsed)", s.message, int(elapsed.Seconds()))
}

// Stop stops the spinner animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.done)

	// On non-TTY the \r does not overwrite.
	if writerIsTTY(s.writer) {
		fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", len(s.message)+20))
	}
}

// UpdateMessage updates the spinner message while it's running.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// StopWithMessage stops the spinner and displays a final message.
func (s *Spinner) StopWithMessage(message string) {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.writer, message)
}
