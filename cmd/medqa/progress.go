package main

import (
	"fmt"
	"io"
)

// progressMeter writes an in-place item counter to the terminal. A nil meter
// is a no-op so faults in suppression logic never panic the run.
type progressMeter struct {
	w       io.Writer
	started bool
}

func newProgressMeter(w io.Writer) *progressMeter {
	if w == nil {
		return nil
	}
	return &progressMeter{w: w}
}

func (p *progressMeter) update(done, total int) {
	if p == nil {
		return
	}
	p.started = true
	fmt.Fprintf(p.w, "\rProcessing %d/%d", done, total)
}

func (p *progressMeter) finish() {
	if p == nil || !p.started {
		return
	}
	fmt.Fprintln(p.w)
}
