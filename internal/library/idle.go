package library

import (
	"context"
	"log"
	"time"
)

const (
	// SaveInterval is how often the idle saver looks at the library.
	SaveInterval = time.Second
	// IdleThreshold is how long the library must be left alone before it
	// is written.
	IdleThreshold = 3 * time.Second
)

// IdleSaver writes the library once the user stopped changing it for a
// while, so a drawing session does not turn into a write per stroke.
type IdleSaver struct {
	Library   *Library
	Interval  time.Duration
	Threshold time.Duration
	// OnSave, when set, is called after every save attempt.
	OnSave func(error)

	now func() time.Time
}

// NewIdleSaver returns a saver with the default timings.
func NewIdleSaver(l *Library) *IdleSaver {
	return &IdleSaver{Library: l, Interval: SaveInterval, Threshold: IdleThreshold, now: time.Now}
}

// Run checks the library every Interval until ctx is done, then saves any
// pending change one last time.
func (s *IdleSaver) Run(ctx context.Context) error {
	t := time.NewTicker(s.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			if dirty, _ := s.Library.Dirty(); dirty {
				// The parent context is gone; give the final write its own.
				fctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				s.save(fctx)
				cancel()
			}
			return nil
		case <-t.C:
			s.Tick(ctx)
		}
	}
}

// Tick saves when the library is dirty and has been idle long enough. It
// reports whether a save was attempted.
func (s *IdleSaver) Tick(ctx context.Context) bool {
	dirty, changed := s.Library.Dirty()
	if !dirty {
		return false
	}
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	if now().Sub(changed) < s.Threshold {
		return false
	}
	s.save(ctx)
	return true
}

func (s *IdleSaver) save(ctx context.Context) {
	err := s.Library.Save(ctx)
	if err != nil {
		log.Printf("library: %v", err)
	}
	if s.OnSave != nil {
		s.OnSave(err)
	}
}
