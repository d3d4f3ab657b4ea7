package status

import (
	"sync/atomic"
	"time"
)

// Stats collects generation and render metrics
// Writers update fields directly; the HUD reads a Snapshot
type Stats struct {
	Regenerations    atomic.Int64
	Rejected         atomic.Int64
	ResourceFailures atomic.Int64
	Points           atomic.Int64

	GenerationMillis Gauge
	FPS              Gauge

	LastError Message

	// Rejections by parameter field
	RejectedFields *Counters
}

func NewStats() *Stats {
	return &Stats{RejectedFields: NewCounters()}
}

// RecordGeneration notes a successful regeneration of count points
func (s *Stats) RecordGeneration(count int, elapsed time.Duration) {
	s.Regenerations.Add(1)
	s.Points.Store(int64(count))
	s.GenerationMillis.Set(float64(elapsed) / float64(time.Millisecond))
}

// RecordRejection notes an edit refused for field
func (s *Stats) RecordRejection(field string, err error) {
	s.Rejected.Add(1)
	if field != "" {
		s.RejectedFields.Inc(field)
	}
	if err != nil {
		s.LastError.Store(err.Error())
	}
}

// RecordResourceFailure notes a generation refused for buffer size
func (s *Stats) RecordResourceFailure(err error) {
	s.ResourceFailures.Add(1)
	if err != nil {
		s.LastError.Store(err.Error())
	}
}

// Snapshot is a plain copy of Stats for display
type Snapshot struct {
	Regenerations    int64
	Rejected         int64
	ResourceFailures int64
	Points           int64
	GenerationMillis float64
	FPS              float64
	LastError        string
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Regenerations:    s.Regenerations.Load(),
		Rejected:         s.Rejected.Load(),
		ResourceFailures: s.ResourceFailures.Load(),
		Points:           s.Points.Load(),
		GenerationMillis: s.GenerationMillis.Load(),
		FPS:              s.FPS.Load(),
		LastError:        s.LastError.Load(),
	}
}
