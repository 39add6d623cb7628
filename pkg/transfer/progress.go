package transfer

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	progressWidth    = 30
	progressInterval = 100 * time.Millisecond
)

// progressBar renders a single-line carriage-return progress display.
// It implements io.Writer so it can sit next to the destination file.
type progressBar struct {
	out      io.Writer
	label    string
	total    int64
	done     int64
	start    time.Time
	lastDraw time.Time
}

func newProgressBar(out io.Writer, label string, total, already int64) *progressBar {
	now := time.Now()
	return &progressBar{out: out, label: label, total: total, done: already, start: now}
}

func (p *progressBar) Write(b []byte) (int, error) {
	p.done += int64(len(b))
	if now := time.Now(); now.Sub(p.lastDraw) >= progressInterval {
		p.draw(now)
		p.lastDraw = now
	}
	return len(b), nil
}

func (p *progressBar) Finish() {
	p.draw(time.Now())
	fmt.Fprintln(p.out)
}

func (p *progressBar) draw(now time.Time) {
	pct := 100.0
	if p.total > 0 {
		pct = float64(p.done) / float64(p.total) * 100
	}
	if pct > 100 {
		pct = 100
	}
	elapsed := now.Sub(p.start).Seconds()
	speed := 0.0
	if elapsed > 0 {
		speed = float64(p.done) / elapsed / 1024 / 1024
	}
	filled := int(pct / 100 * progressWidth)
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", progressWidth-filled)
	fmt.Fprintf(p.out, "\r%s [%s] %5.1f%% %.2f MB/s", p.label, bar, pct, speed)
}
