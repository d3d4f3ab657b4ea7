package status

import (
	"math"
	"sync/atomic"
)

// Gauge is a float64 stored as bits in an atomic word
// Zero value reads 0.0
type Gauge struct {
	bits atomic.Uint64
}

func (g *Gauge) Set(v float64) {
	g.bits.Store(math.Float64bits(v))
}

func (g *Gauge) Load() float64 {
	return math.Float64frombits(g.bits.Load())
}

// Add applies delta with a CAS loop and returns the new value
func (g *Gauge) Add(delta float64) float64 {
	for {
		old := g.bits.Load()
		next := math.Float64frombits(old) + delta
		if g.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// Message holds the latest short text, truncated to MaxMessageLen bytes
type Message struct {
	ptr atomic.Pointer[string]
}

const MaxMessageLen = 96

func (m *Message) Store(s string) {
	if len(s) > MaxMessageLen {
		s = s[:MaxMessageLen]
	}
	m.ptr.Store(&s)
}

func (m *Message) Load() string {
	if p := m.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
