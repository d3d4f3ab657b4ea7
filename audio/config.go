package audio

// Config controls audio output
type Config struct {
	Enabled      bool
	MasterVolume float64 // 0.0-1.0
	SampleRate   int
}

// DefaultConfig returns the built-in audio settings
func DefaultConfig() *Config {
	return &Config{
		Enabled:      false,
		MasterVolume: 0.5,
		SampleRate:   44100,
	}
}

// normalize clamps volume and repairs the sample rate
func (c *Config) normalize() {
	if c.MasterVolume < 0 {
		c.MasterVolume = 0
	}
	if c.MasterVolume > 1 {
		c.MasterVolume = 1
	}
	if c.SampleRate <= 0 {
		c.SampleRate = 44100
	}
}
