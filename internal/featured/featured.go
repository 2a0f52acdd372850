// Package featured cycles through the featured events shown on the landing
// page. The rotation advances on a timer or on explicit navigation and wraps
// at both ends.
package featured

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// ErrIndexOutOfRange is returned by Select for an index with no event.
var ErrIndexOutOfRange = errors.New("featured index out of range")

// Rotation is a circular cursor over event ids. It is safe for concurrent use.
type Rotation struct {
	mu    sync.Mutex
	ids   []string
	index int

	// reset is signalled by manual navigation so Run restarts its timer.
	reset chan struct{}
	log   *slog.Logger
}

// New creates a rotation positioned on the first id.
func New(ids []string, log *slog.Logger) *Rotation {
	return &Rotation{
		ids:   slices.Clone(ids),
		reset: make(chan struct{}, 1),
		log:   log,
	}
}

// Len returns the number of featured events.
func (r *Rotation) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}

// Current returns the position and id on display. ok is false when nothing
// is featured.
func (r *Rotation) Current() (index int, id string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ids) == 0 {
		return 0, "", false
	}
	return r.index, r.ids[r.index], true
}

// Next moves forward one slide and restarts the timer.
func (r *Rotation) Next() int {
	i := r.step(1)
	r.poke()
	return i
}

// Prev moves back one slide and restarts the timer.
func (r *Rotation) Prev() int {
	i := r.step(-1)
	r.poke()
	return i
}

// Select jumps to slide i and restarts the timer.
func (r *Rotation) Select(i int) error {
	r.mu.Lock()
	if i < 0 || i >= len(r.ids) {
		r.mu.Unlock()
		return ErrIndexOutOfRange
	}
	r.index = i
	r.mu.Unlock()

	r.poke()
	return nil
}

// Run advances the rotation every interval until ctx is done. With fewer
// than two featured events there is nothing to rotate and Run returns at
// once.
func (r *Rotation) Run(ctx context.Context, interval time.Duration) {
	if r.Len() < 2 {
		r.log.Debug("featured rotation idle", slog.Int("featured", r.Len()))
		return
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	r.log.Info("featured rotation started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			r.log.Info("featured rotation stopped")
			return
		case <-r.reset:
			timer.Reset(interval)
		case <-timer.C:
			i := r.step(1)
			r.log.Debug("featured rotation advanced", slog.Int("index", i))
			timer.Reset(interval)
		}
	}
}

func (r *Rotation) step(delta int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.ids)
	if n == 0 {
		return 0
	}
	r.index = ((r.index+delta)%n + n) % n
	return r.index
}

func (r *Rotation) poke() {
	select {
	case r.reset <- struct{}{}:
	default:
	}
}
