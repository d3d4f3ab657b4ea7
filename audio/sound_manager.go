package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SoundManager plays lifecycle cues; every method is safe when audio is
// disabled or the device failed to open
type SoundManager struct {
	mu          sync.Mutex
	cfg         *Config
	mixer       *beep.Mixer
	initialized bool
}

// NewSoundManager creates a manager; nil cfg uses DefaultConfig
func NewSoundManager(cfg *Config) *SoundManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	c.normalize()
	return &SoundManager{
		cfg:   &c,
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker; a disabled config is a no-op
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || !sm.cfg.Enabled {
		return nil
	}

	rate := beep.SampleRate(sm.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Active reports whether cues reach the speaker
func (sm *SoundManager) Active() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// Cleanup silences pending cues and closes the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	sm.initialized = false
}

// PlayGenerated chimes at a pitch set by the arm count
func (sm *SoundManager) PlayGenerated(branches int) {
	sm.play(func() beep.Streamer { return CreateGeneratedSound(sm.cfg, branches) })
}

func (sm *SoundManager) PlayRejected() {
	sm.play(func() beep.Streamer { return CreateRejectedSound(sm.cfg) })
}

func (sm *SoundManager) PlayRefused() {
	sm.play(func() beep.Streamer { return CreateRefusedSound(sm.cfg) })
}

func (sm *SoundManager) play(build func() beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	s := build()
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}
