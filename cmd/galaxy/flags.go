package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/lixenwraith/spiral-galaxy/config"
	"github.com/lixenwraith/spiral-galaxy/galaxy"
)

// defaultPresetPath is where S saves when no preset was loaded
const defaultPresetPath = "galaxy.toml"

// cliFlags are the command-line settings; only flags the user set override
// the preset and environment
type cliFlags struct {
	fs *flag.FlagSet

	preset  string
	envFile string
	color   string

	count           int
	particleSize    float64
	radius          float64
	branches        int
	spin            float64
	randomness      float64
	randomnessPower float64
	inside          string
	outside         string

	fps       int
	rotation  float64
	exposure  float64
	sound     bool
	volume    float64
	debug     bool
	logLevel  string
	logFile   string
	logJSON   bool
	seed      uint64
	limit     string
	regenRate float64

	png    string
	width  int
	height int
	at     time.Duration
}

func newFlags(name string) *cliFlags {
	c := &cliFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	d := galaxy.DefaultParams()
	v := config.DefaultViewer()
	fs := c.fs

	fs.StringVar(&c.preset, "config", "", "TOML preset to load")
	fs.StringVar(&c.envFile, "env", ".env", "dotenv file, skipped when missing")
	fs.StringVar(&c.color, "color", "auto", "Color mode: auto, truecolor, 256")

	fs.IntVar(&c.count, "count", d.Count, "number of points")
	fs.Float64Var(&c.particleSize, "size", d.ParticleSize, "point size in world units")
	fs.Float64Var(&c.radius, "radius", d.Radius, "galaxy radius")
	fs.IntVar(&c.branches, "branches", d.Branches, "number of spiral arms")
	fs.Float64Var(&c.spin, "spin", d.Spin, "arm twist per unit radius")
	fs.Float64Var(&c.randomness, "randomness", d.Randomness, "randomness (carried, does not scale jitter)")
	fs.Float64Var(&c.randomnessPower, "power", d.RandomnessPower, "jitter falloff exponent")
	fs.StringVar(&c.inside, "inside", d.InsideColor.Hex(), "core color")
	fs.StringVar(&c.outside, "outside", d.OutsideColor.Hex(), "rim color")

	fs.IntVar(&c.fps, "fps", v.FPS, "frames per second")
	fs.Float64Var(&c.rotation, "rotation", v.RotationSpeed, "self-rotation speed in rad/s")
	fs.Float64Var(&c.exposure, "exposure", v.Exposure, "brightness scale")
	fs.BoolVar(&c.sound, "sound", v.Sound, "play audio cues")
	fs.Float64Var(&c.volume, "volume", v.Volume, "audio volume 0-1")
	fs.BoolVar(&c.debug, "debug", v.Debug, "write a log file")
	fs.StringVar(&c.logLevel, "log-level", v.LogLevel, "debug, info, warn or error")
	fs.StringVar(&c.logFile, "log-file", v.LogFile, "log file path")
	fs.BoolVar(&c.logJSON, "log-json", v.LogJSON, "JSON log records")
	fs.Uint64Var(&c.seed, "seed", v.Seed, "random seed, 0 for clock")
	fs.StringVar(&c.limit, "limit", fmt.Sprint(v.BufferLimit), "max buffer bytes per generation (k/m/g suffix), 0 disables")
	fs.Float64Var(&c.regenRate, "regen-rate", v.RegenRate, "max regenerations per second")

	fs.StringVar(&c.png, "png", "", "render one frame to this PNG and exit")
	fs.IntVar(&c.width, "width", 1280, "snapshot width")
	fs.IntVar(&c.height, "height", 720, "snapshot height")
	fs.DurationVar(&c.at, "at", 0, "snapshot rotation time")
	return c
}

func (c *cliFlags) parse(args []string) error {
	return c.fs.Parse(args)
}

// apply copies explicitly set flags onto cfg
func (c *cliFlags) apply(cfg *config.Config) error {
	var err error
	c.fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "count":
			cfg.Galaxy.Count = c.count
		case "size":
			cfg.Galaxy.ParticleSize = c.particleSize
		case "radius":
			cfg.Galaxy.Radius = c.radius
		case "branches":
			cfg.Galaxy.Branches = c.branches
		case "spin":
			cfg.Galaxy.Spin = c.spin
		case "randomness":
			cfg.Galaxy.Randomness = c.randomness
		case "power":
			cfg.Galaxy.RandomnessPower = c.randomnessPower
		case "inside":
			cfg.Galaxy.InsideColor, err = parseFlagColor(f.Name, c.inside)
		case "outside":
			cfg.Galaxy.OutsideColor, err = parseFlagColor(f.Name, c.outside)
		case "fps":
			cfg.Viewer.FPS = c.fps
		case "rotation":
			cfg.Viewer.RotationSpeed = c.rotation
		case "exposure":
			cfg.Viewer.Exposure = c.exposure
		case "sound":
			cfg.Viewer.Sound = c.sound
		case "volume":
			cfg.Viewer.Volume = c.volume
		case "debug":
			cfg.Viewer.Debug = c.debug
		case "log-level":
			cfg.Viewer.LogLevel = c.logLevel
		case "log-file":
			cfg.Viewer.LogFile = c.logFile
		case "log-json":
			cfg.Viewer.LogJSON = c.logJSON
		case "seed":
			cfg.Viewer.Seed = c.seed
		case "limit":
			var n int64
			if n, err = config.ParseBytes(c.limit); err != nil {
				err = fmt.Errorf("flag -limit=%q: %w", c.limit, err)
				return
			}
			cfg.Viewer.BufferLimit = n
		case "regen-rate":
			cfg.Viewer.RegenRate = c.regenRate
		}
	})
	return err
}

func parseFlagColor(name, s string) (galaxy.Color, error) {
	c, err := galaxy.ParseColor(s)
	if err != nil {
		return c, fmt.Errorf("flag -%s: %w", name, err)
	}
	return c, nil
}

// loadConfig resolves defaults < preset < environment < flags
func (c *cliFlags) loadConfig() (*config.Config, error) {
	if err := config.LoadEnvFiles(c.envFile); err != nil {
		return nil, err
	}
	return config.Load(c.preset, c.apply)
}
