package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// barWidth is the number of cells in the progress bar.
const barWidth = 10

// ProgressBar draws a single-line progress indicator such as
// "[#####.....] 50% page.html". It is safe for concurrent use.
type ProgressBar struct {
	mu    sync.Mutex
	w     io.Writer
	width int
}

// NewProgressBar returns a ProgressBar drawing to w.
func NewProgressBar(w io.Writer) *ProgressBar {
	return &ProgressBar{w: w}
}

// Update redraws the bar for source at fraction, clamped to [0, 1].
func (p *ProgressBar) Update(source string, fraction float64) {
	fraction = min(max(fraction, 0), 1)
	filled := int(fraction*barWidth + 0.5)
	line := fmt.Sprintf("[%s%s] %.0f%% %s",
		strings.Repeat("#", filled),
		strings.Repeat(".", barWidth-filled),
		fraction*100,
		source,
	)

	p.mu.Lock()
	defer p.mu.Unlock()
	pad := max(p.width-len(line), 0)
	fmt.Fprintf(p.w, "\r%s%s", line, strings.Repeat(" ", pad))
	p.width = len(line)
}

// Clear erases the bar if one was drawn.
func (p *ProgressBar) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.width == 0 {
		return
	}
	fmt.Fprintf(p.w, "\r%s\r", strings.Repeat(" ", p.width))
	p.width = 0
}
