package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/spiral-galaxy/galaxy"
)

// presetFile is the on-disk layout; pointer fields distinguish absent keys
type presetFile struct {
	Galaxy galaxySection `toml:"galaxy"`
	Viewer viewerSection `toml:"viewer"`
}

type galaxySection struct {
	Count           *int     `toml:"count,omitempty"`
	ParticleSize    *float64 `toml:"particle_size,omitempty"`
	Radius          *float64 `toml:"radius,omitempty"`
	Branches        *int     `toml:"branches,omitempty"`
	Spin            *float64 `toml:"spin,omitempty"`
	Randomness      *float64 `toml:"randomness,omitempty"`
	RandomnessPower *float64 `toml:"randomness_power,omitempty"`
	InsideColor     *string  `toml:"inside_color,omitempty"`
	OutsideColor    *string  `toml:"outside_color,omitempty"`
}

type viewerSection struct {
	FPS           *int     `toml:"fps,omitempty"`
	RotationSpeed *float64 `toml:"rotation_speed,omitempty"`
	Exposure      *float64 `toml:"exposure,omitempty"`
	Sound         *bool    `toml:"sound,omitempty"`
	Volume        *float64 `toml:"volume,omitempty"`
	Seed          *uint64  `toml:"seed,omitempty"`
	BufferLimit   *string  `toml:"buffer_limit,omitempty"`
	RegenRate     *float64 `toml:"regen_rate,omitempty"`
}

// ReadPreset overlays the TOML preset at path
// Unknown keys are rejected so typos do not pass silently
func (c *Config) ReadPreset(path string) error {
	var f presetFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return fmt.Errorf("preset %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("preset %s: unknown key %s", path, undecoded[0])
	}
	if err := f.apply(c); err != nil {
		return fmt.Errorf("preset %s: %w", path, err)
	}
	c.Preset = path
	return nil
}

func (f *presetFile) apply(c *Config) error {
	g, v := f.Galaxy, f.Viewer

	setInt(&c.Galaxy.Count, g.Count)
	setInt(&c.Galaxy.Branches, g.Branches)
	setFloat(&c.Galaxy.ParticleSize, g.ParticleSize)
	setFloat(&c.Galaxy.Radius, g.Radius)
	setFloat(&c.Galaxy.Spin, g.Spin)
	setFloat(&c.Galaxy.Randomness, g.Randomness)
	setFloat(&c.Galaxy.RandomnessPower, g.RandomnessPower)
	if g.InsideColor != nil {
		col, err := galaxy.ParseColor(*g.InsideColor)
		if err != nil {
			return fmt.Errorf("galaxy.inside_color: %w", err)
		}
		c.Galaxy.InsideColor = col
	}
	if g.OutsideColor != nil {
		col, err := galaxy.ParseColor(*g.OutsideColor)
		if err != nil {
			return fmt.Errorf("galaxy.outside_color: %w", err)
		}
		c.Galaxy.OutsideColor = col
	}

	setInt(&c.Viewer.FPS, v.FPS)
	setFloat(&c.Viewer.RotationSpeed, v.RotationSpeed)
	setFloat(&c.Viewer.Exposure, v.Exposure)
	setFloat(&c.Viewer.Volume, v.Volume)
	setFloat(&c.Viewer.RegenRate, v.RegenRate)
	if v.Sound != nil {
		c.Viewer.Sound = *v.Sound
	}
	if v.Seed != nil {
		c.Viewer.Seed = *v.Seed
	}
	if v.BufferLimit != nil {
		n, err := ParseBytes(*v.BufferLimit)
		if err != nil {
			return fmt.Errorf("viewer.buffer_limit: %w", err)
		}
		c.Viewer.BufferLimit = n
	}
	return nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

// SavePreset writes p and the viewer's look settings as a TOML preset
// The file is written beside its final path and renamed into place
func SavePreset(path string, p galaxy.Params, v Viewer) error {
	inside, outside := p.InsideColor.Hex(), p.OutsideColor.Hex()
	limit := fmt.Sprintf("%d", v.BufferLimit)
	f := presetFile{
		Galaxy: galaxySection{
			Count:           &p.Count,
			ParticleSize:    &p.ParticleSize,
			Radius:          &p.Radius,
			Branches:        &p.Branches,
			Spin:            &p.Spin,
			Randomness:      &p.Randomness,
			RandomnessPower: &p.RandomnessPower,
			InsideColor:     &inside,
			OutsideColor:    &outside,
		},
		Viewer: viewerSection{
			FPS:           &v.FPS,
			RotationSpeed: &v.RotationSpeed,
			Exposure:      &v.Exposure,
			Sound:         &v.Sound,
			Volume:        &v.Volume,
			BufferLimit:   &limit,
			RegenRate:     &v.RegenRate,
		},
	}
	if v.Seed != 0 {
		f.Viewer.Seed = &v.Seed
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".preset-*.toml")
	if err != nil {
		return fmt.Errorf("save preset %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(f); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("save preset %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save preset %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save preset %s: %w", path, err)
	}
	return nil
}
