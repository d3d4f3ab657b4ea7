package render

import (
	"sync"

	"github.com/lixenwraith/spiral-galaxy/galaxy"
)

// Scene is the galaxy.Sink read by the render loop
// Attach and Detach take the write lock and View holds the read lock for a whole
// frame, so a frame sees either the old cloud or the new one and a cloud is
// never released while a frame reads it
type Scene struct {
	mu     sync.RWMutex
	next   galaxy.Handle
	handle galaxy.Handle
	cloud  *galaxy.Cloud
	hints  galaxy.RenderHints

	// Total attach operations, for diagnostics
	attaches uint64
}

func NewScene() *Scene {
	return &Scene{}
}

// Attach displays c, replacing anything still attached
func (s *Scene) Attach(c *galaxy.Cloud, hints galaxy.RenderHints) galaxy.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.handle = s.next
	s.cloud = c
	s.hints = hints
	s.attaches++
	return s.handle
}

// Detach removes the cloud if h is the current handle
func (s *Scene) Detach(h galaxy.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h == 0 || h != s.handle {
		return
	}
	s.handle = 0
	s.cloud = nil
}

// CurrentHandle returns the attached handle, zero when empty
func (s *Scene) CurrentHandle() galaxy.Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handle
}

// Attached returns the number of attached clouds, 0 or 1
func (s *Scene) Attached() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cloud == nil {
		return 0
	}
	return 1
}

// Attaches returns how many clouds have been attached over the scene's life
func (s *Scene) Attaches() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attaches
}

// View runs fn with the attached cloud under the read lock
// fn must not retain the cloud; returns false when nothing is attached
func (s *Scene) View(fn func(c *galaxy.Cloud, hints galaxy.RenderHints)) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cloud == nil {
		return false
	}
	fn(s.cloud, s.hints)
	return true
}
