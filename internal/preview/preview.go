// Package preview debounces live preview recomputation. Rapid parameter
// changes (a quality slider drag, say) coalesce into one transcode after a
// quiescence window, and only the latest request's result is ever delivered.
package preview

import (
	"sync"
	"time"

	"github.com/solorzano0401/genesis-tools/internal/constants"
	"github.com/solorzano0401/genesis-tools/internal/imaging"
)

// Params identifies one preview computation. Quality must already be the
// effective quality so that slider movement under PNG does not register as a
// change.
type Params struct {
	SourceID string
	Width    int
	Height   int
	Format   imaging.Format
	Quality  float64
}

// NewParams builds Params with the quality axis collapsed for the format.
func NewParams(sourceID string, w, h int, format imaging.Format, quality float64) Params {
	return Params{
		SourceID: sourceID,
		Width:    w,
		Height:   h,
		Format:   format,
		Quality:  imaging.EffectiveQuality(format, quality),
	}
}

// Result carries one computed preview back to the scheduler's sink.
type Result struct {
	Params Params
	Data   []byte
	Err    error
}

// Scheduler coalesces preview requests. Compute runs off the caller's
// goroutine once per settled request; Sink receives only results that are
// still the latest when they arrive. Both must be set before use.
type Scheduler struct {
	Compute func(Params) ([]byte, error)
	Sink    func(Result)
	// Window overrides the default quiescence period. Zero means the default.
	Window time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending Params
	seq     uint64
	last    *Params
}

// Request schedules a preview for p. Identical back-to-back parameters are
// ignored; otherwise any pending computation is superseded and the debounce
// window restarts.
func (s *Scheduler) Request(p Params) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last != nil && *s.last == p {
		return
	}
	if s.timer != nil && s.pending == p {
		return
	}

	s.pending = p
	s.seq++
	seq := s.seq

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.window(), func() {
		s.fire(seq, p)
	})
}

// Flush runs any pending request immediately instead of waiting out the
// window. Used on explicit user actions like pressing the process button.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.timer == nil || !s.timer.Stop() {
		s.mu.Unlock()
		return
	}
	seq, p := s.seq, s.pending
	s.mu.Unlock()

	s.fire(seq, p)
}

func (s *Scheduler) fire(seq uint64, p Params) {
	data, err := s.Compute(p)

	s.mu.Lock()
	if seq != s.seq {
		// A newer request was issued while this one computed. Drop it.
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.last = &p
	s.mu.Unlock()

	s.Sink(Result{Params: p, Data: data, Err: err})
}

func (s *Scheduler) window() time.Duration {
	if s.Window > 0 {
		return s.Window
	}
	return constants.DebounceWindow
}
