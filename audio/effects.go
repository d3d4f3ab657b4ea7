package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SoundType identifies a lifecycle cue
type SoundType int

const (
	SoundGenerated SoundType = iota // new galaxy attached
	SoundRejected                   // parameter edit refused
	SoundRefused                    // generation exceeded the buffer limit
)

// Cue timing
const (
	chimeNoteDuration = 90 * time.Millisecond
	chimeAttack       = 5 * time.Millisecond
	chimeRelease      = 70 * time.Millisecond

	buzzDuration = 120 * time.Millisecond
	buzzAttack   = 5 * time.Millisecond
	buzzRelease  = 60 * time.Millisecond

	rumbleDuration = 300 * time.Millisecond
)

// Pentatonic steps above the base note; more arms climb the scale
var pentatonic = [...]float64{0, 2, 4, 7, 9}

const chimeBase = 440.0 // A4

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSaw
)

// oscillator generates raw audio waves for a fixed number of samples
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates an oscillator lasting duration
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.totalSamples - e.releaseSamples
	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = min(vol, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// rumble is a decaying low tone with deterministic crackle
type rumble struct {
	rate     beep.SampleRate
	pos      int
	duration int
	seed     uint32
}

func newRumble(rate beep.SampleRate) *rumble {
	return &rumble{rate: rate, duration: rate.N(rumbleDuration), seed: 0x9e3779b9}
}

func (g *rumble) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.duration {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.rate)
		env := math.Exp(-t * 8)

		g.seed ^= g.seed << 13
		g.seed ^= g.seed >> 17
		g.seed ^= g.seed << 5
		noise := float64(g.seed)/float64(math.MaxUint32)*2 - 1

		sample := env * (0.2*noise + 0.3*math.Sin(2*math.Pi*70*t))
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *rumble) Err() error { return nil }

// newVolume applies linear gain; math.Log2(0) is -Inf so zero becomes silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// BranchFrequency maps an arm count to a pentatonic pitch, rising an octave every five arms
func BranchFrequency(branches int) float64 {
	step := max(branches-2, 0)
	octave := step / len(pentatonic)
	semis := pentatonic[step%len(pentatonic)] + 12*float64(octave)
	return chimeBase * math.Pow(2, semis/12)
}

// CreateGeneratedSound is a two-note rising chime pitched by arm count
func CreateGeneratedSound(cfg *Config, branches int) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	root := BranchFrequency(branches)

	n1 := NewEnvelope(NewOscillator(root, chimeNoteDuration, WaveSine, rate),
		chimeNoteDuration, chimeAttack, chimeRelease, rate)
	n2 := NewEnvelope(NewOscillator(root*1.5, chimeNoteDuration, WaveSine, rate),
		chimeNoteDuration, chimeAttack, chimeRelease, rate)

	return newVolume(beep.Seq(n1, n2), 0.6*cfg.MasterVolume)
}

// CreateRejectedSound is a short saw buzz
func CreateRejectedSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	osc := NewOscillator(110, buzzDuration, WaveSaw, rate)
	shaped := NewEnvelope(osc, buzzDuration, buzzAttack, buzzRelease, rate)
	return newVolume(shaped, 0.4*cfg.MasterVolume)
}

// CreateRefusedSound is a falling rumble
func CreateRefusedSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	return newVolume(newRumble(rate), 0.8*cfg.MasterVolume)
}
