// Package config assembles galaxy and viewer settings from defaults, TOML
// presets, .env files and GALAXY_* environment variables
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/lixenwraith/spiral-galaxy/galaxy"
)

// EnvPrefix namespaces every environment override
const EnvPrefix = "GALAXY_"

// Viewer holds the terminal viewer's settings
type Viewer struct {
	FPS           int
	RotationSpeed float64 // rad/s, galaxy yaws by -elapsed*speed
	Exposure      float64
	Sound         bool
	Volume        float64
	Debug         bool
	LogLevel      string
	LogFile       string
	LogJSON       bool
	Seed          uint64  // 0 seeds from the clock
	BufferLimit   int64   // bytes per generation, 0 disables
	RegenRate     float64 // regenerations per second
}

// DefaultViewer returns the stock viewer settings
func DefaultViewer() Viewer {
	return Viewer{
		FPS:           30,
		RotationSpeed: 0.04,
		Exposure:      0.6,
		Volume:        0.5,
		LogLevel:      "info",
		LogFile:       "galaxy.log",
		BufferLimit:   64 << 20,
		RegenRate:     20,
	}
}

// Validate checks the viewer settings galaxy.Params does not cover
func (v Viewer) Validate() error {
	switch {
	case v.FPS < 1 || v.FPS > 240:
		return fmt.Errorf("fps %d outside [1, 240]", v.FPS)
	case v.Exposure <= 0:
		return fmt.Errorf("exposure %v must be > 0", v.Exposure)
	case v.Volume < 0 || v.Volume > 1:
		return fmt.Errorf("volume %v outside [0, 1]", v.Volume)
	case v.BufferLimit < 0:
		return fmt.Errorf("buffer limit %d must be >= 0", v.BufferLimit)
	case v.RegenRate <= 0:
		return fmt.Errorf("regen rate %v must be > 0", v.RegenRate)
	}
	if _, err := ParseLogLevel(v.LogLevel); err != nil {
		return err
	}
	return nil
}

// Config is the assembled configuration
type Config struct {
	Galaxy galaxy.Params
	Viewer Viewer

	// Preset is the file the settings were read from, empty for none
	Preset string
}

// Default returns built-in settings
func Default() *Config {
	return &Config{
		Galaxy: galaxy.DefaultParams(),
		Viewer: DefaultViewer(),
	}
}

// LoadEnvFiles reads .env files into the process environment without
// overriding variables that are already set; missing files are skipped
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("env file %s: %w", p, err)
		}
	}
	return nil
}

// Override adjusts a Config after the environment has been applied
type Override func(*Config) error

// Load builds a Config: defaults, then the preset at path (if non-empty),
// then GALAXY_* variables, then overrides in order. The result is validated
func Load(path string, overrides ...Override) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.ReadPreset(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	for _, o := range overrides {
		if err := o(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks both sections
func (c *Config) Validate() error {
	if err := c.Galaxy.Validate(); err != nil {
		return err
	}
	return c.Viewer.Validate()
}

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// envError names the variable that failed to parse
func envError(key, value string, err error) error {
	return fmt.Errorf("env %s%s=%q: %w", EnvPrefix, key, value, err)
}

// ApplyEnv overlays GALAXY_* variables found through lookup
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"COUNT", &c.Galaxy.Count},
		{"BRANCHES", &c.Galaxy.Branches},
		{"FPS", &c.Viewer.FPS},
	}
	for _, f := range ints {
		if v, ok := get(f.key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return envError(f.key, v, err)
			}
			*f.dst = n
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"PARTICLE_SIZE", &c.Galaxy.ParticleSize},
		{"RADIUS", &c.Galaxy.Radius},
		{"SPIN", &c.Galaxy.Spin},
		{"RANDOMNESS", &c.Galaxy.Randomness},
		{"RANDOMNESS_POWER", &c.Galaxy.RandomnessPower},
		{"ROTATION_SPEED", &c.Viewer.RotationSpeed},
		{"EXPOSURE", &c.Viewer.Exposure},
		{"VOLUME", &c.Viewer.Volume},
		{"REGEN_RATE", &c.Viewer.RegenRate},
	}
	for _, f := range floats {
		if v, ok := get(f.key); ok {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return envError(f.key, v, err)
			}
			*f.dst = x
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"SOUND", &c.Viewer.Sound},
		{"DEBUG", &c.Viewer.Debug},
		{"LOG_JSON", &c.Viewer.LogJSON},
	}
	for _, f := range bools {
		if v, ok := get(f.key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return envError(f.key, v, err)
			}
			*f.dst = b
		}
	}

	colors := []struct {
		key string
		dst *galaxy.Color
	}{
		{"INSIDE_COLOR", &c.Galaxy.InsideColor},
		{"OUTSIDE_COLOR", &c.Galaxy.OutsideColor},
	}
	for _, f := range colors {
		if v, ok := get(f.key); ok {
			col, err := galaxy.ParseColor(v)
			if err != nil {
				return envError(f.key, v, err)
			}
			*f.dst = col
		}
	}

	if v, ok := get("SEED"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return envError("SEED", v, err)
		}
		c.Viewer.Seed = n
	}
	if v, ok := get("BUFFER_LIMIT"); ok {
		n, err := ParseBytes(v)
		if err != nil {
			return envError("BUFFER_LIMIT", v, err)
		}
		c.Viewer.BufferLimit = n
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Viewer.LogLevel = v
	}
	if v, ok := get("LOG_FILE"); ok {
		c.Viewer.LogFile = v
	}
	return nil
}

// ParseBytes reads a size with an optional k, m or g suffix (powers of 1024)
func ParseBytes(s string) (int64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "b")
	shift := 0
	switch {
	case strings.HasSuffix(s, "k"):
		shift = 10
	case strings.HasSuffix(s, "m"):
		shift = 20
	case strings.HasSuffix(s, "g"):
		shift = 30
	}
	if shift > 0 {
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative size %d", n)
	}
	if n > (1<<62)>>shift {
		return 0, fmt.Errorf("size %d too large", n)
	}
	return n << shift, nil
}
