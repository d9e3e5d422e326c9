package batch

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressCallback defines the interface for progress reporting during batch processing.
type ProgressCallback interface {
	// OnStart is called when processing begins with the total number of files.
	OnStart(total int)

	// OnProgress is called after each file with current progress.
	OnProgress(current, total int)

	// OnComplete is called when processing is finished.
	OnComplete()

	// OnError is called when a file fails.
	OnError(current int, err error)
}

// NoOpProgressCallback implements ProgressCallback but does nothing.
// Useful as a default when no progress reporting is needed.
type NoOpProgressCallback struct{}

func (NoOpProgressCallback) OnStart(total int)              {}
func (NoOpProgressCallback) OnProgress(current, total int)  {}
func (NoOpProgressCallback) OnComplete()                    {}
func (NoOpProgressCallback) OnError(current int, err error) {}

// ConsoleProgressCallback displays a progress bar on the console.
type ConsoleProgressCallback struct {
	writer         io.Writer
	prefix         string
	width          int
	lastUpdate     time.Time
	updateInterval time.Duration
	mutex          sync.Mutex
	startTime      time.Time
}

// NewConsoleProgressCallback creates a new console progress reporter.
func NewConsoleProgressCallback(writer io.Writer, prefix string) *ConsoleProgressCallback {
	if writer == nil {
		writer = os.Stderr
	}
	return &ConsoleProgressCallback{
		writer:         writer,
		prefix:         prefix,
		width:          50,
		updateInterval: 100 * time.Millisecond,
	}
}

// WithUpdateInterval sets how frequently the progress bar redraws.
func (c *ConsoleProgressCallback) WithUpdateInterval(interval time.Duration) *ConsoleProgressCallback {
	if interval > 0 {
		c.updateInterval = interval
	}
	return c
}

func (c *ConsoleProgressCallback) OnStart(total int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.startTime = time.Now()
	c.lastUpdate = time.Time{}

	_, _ = fmt.Fprintf(c.writer, "%s0/%d (0.0%%)\n", c.prefix, total)
}

func (c *ConsoleProgressCallback) OnProgress(current, total int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	if now.Sub(c.lastUpdate) < c.updateInterval && current < total {
		return // Don't redraw too frequently
	}
	c.lastUpdate = now

	c.drawProgressBar(current, total, now)
}

func (c *ConsoleProgressCallback) OnComplete() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	elapsed := time.Since(c.startTime)
	_, _ = fmt.Fprintf(c.writer, "\n%sCompleted in %v\n", c.prefix, elapsed.Round(time.Millisecond))
}

func (c *ConsoleProgressCallback) OnError(current int, err error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, _ = fmt.Fprintf(c.writer, "\n%sError at file %d: %v\n", c.prefix, current, err)
}

func (c *ConsoleProgressCallback) drawProgressBar(current, total int, now time.Time) {
	if total == 0 {
		return
	}

	percent := float64(current) / float64(total) * 100.0
	filled := int(float64(c.width) * float64(current) / float64(total))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", c.width-filled)
	status := fmt.Sprintf("\r%s[%s] %d/%d (%.1f%%)", c.prefix, bar, current, total, percent)

	elapsed := now.Sub(c.startTime)
	if elapsed > 0 && current > 0 {
		rate := float64(current) / elapsed.Seconds()
		status += fmt.Sprintf(" %.1f/s", rate)
		if current < total {
			remaining := total - current
			etaSeconds := elapsed.Seconds() * float64(remaining) / float64(current)
			eta := time.Duration(etaSeconds) * time.Second
			status += fmt.Sprintf(" ETA: %v", eta.Round(time.Second))
		}
	}

	_, _ = fmt.Fprint(c.writer, status)
}
