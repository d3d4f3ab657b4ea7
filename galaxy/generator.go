package galaxy

import (
	"io"
	"log/slog"
	"time"
)

// Handle identifies a cloud attached to a Sink; zero means none
type Handle uint64

// RenderHints is pass-through material configuration for the sink
type RenderHints struct {
	PointSize        float64
	SizeAttenuation  bool
	AdditiveBlending bool
	DepthWrite       bool
}

// DefaultRenderHints mirrors the stock points material
func DefaultRenderHints() RenderHints {
	return RenderHints{
		PointSize:        DefaultParams().ParticleSize,
		SizeAttenuation:  true,
		AdditiveBlending: true,
		DepthWrite:       false,
	}
}

// Sink displays generated clouds
// Detach of an unknown or zero handle must be a no-op
type Sink interface {
	Attach(c *Cloud, hints RenderHints) Handle
	Detach(h Handle)
}

// Option configures a Generator
type Option func(*Generator)

// WithBufferLimit caps the buffer bytes one generation may allocate; 0 disables
func WithBufferLimit(bytes int64) Option {
	return func(g *Generator) { g.limit = bytes }
}

// WithRenderHints sets the base hints; PointSize is always taken from Params
func WithRenderHints(h RenderHints) Option {
	return func(g *Generator) { g.hints = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// Generator owns the current cloud and replaces it on Regenerate
// Not safe for concurrent Regenerate calls; callers serialize
type Generator struct {
	sink  Sink
	src   Source
	limit int64
	hints RenderHints
	log   *slog.Logger

	current *Cloud
	handle  Handle
}

// NewGenerator creates a generator feeding sink, sampling from src
func NewGenerator(sink Sink, src Source, opts ...Option) *Generator {
	g := &Generator{
		sink:  sink,
		src:   src,
		hints: DefaultRenderHints(),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Regenerate validates p, disposes the prior cloud and attaches a new one
// On ConfigurationError or ResourceError nothing changes and the prior cloud stays attached
func (g *Generator) Regenerate(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := g.admit(p); err != nil {
		g.log.Warn("generation refused", "count", p.Count, "error", err)
		return err
	}

	g.dispose()

	start := time.Now()
	cloud, err := Build(p, g.src)
	if err != nil {
		// Unreachable after Validate; kept so the sink state stays consistent
		return err
	}

	hints := g.hints
	hints.PointSize = p.ParticleSize

	g.current = cloud
	g.handle = g.sink.Attach(cloud, hints)

	g.log.Debug("galaxy generated",
		"count", p.Count,
		"branches", p.Branches,
		"handle", uint64(g.handle),
		"elapsed", time.Since(start),
	)
	return nil
}

// Current returns the attached cloud, nil before the first Regenerate
func (g *Generator) Current() *Cloud {
	return g.current
}

// Handle returns the sink handle of the attached cloud
func (g *Generator) Handle() Handle {
	return g.handle
}

// Close detaches and releases the current cloud
func (g *Generator) Close() {
	g.dispose()
}

func (g *Generator) admit(p Params) error {
	if g.limit <= 0 {
		return nil
	}
	if need := p.BufferBytes(); need > g.limit {
		return &ResourceError{Count: p.Count, Bytes: need, Limit: g.limit}
	}
	return nil
}

// dispose detaches before release so no frame reads freed buffers
func (g *Generator) dispose() {
	if g.current == nil {
		return
	}
	g.sink.Detach(g.handle)
	g.current.Release()
	g.current = nil
	g.handle = 0
}
