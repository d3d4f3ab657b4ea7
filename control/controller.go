package control

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lixenwraith/spiral-galaxy/galaxy"
	"github.com/lixenwraith/spiral-galaxy/status"
)

// Result reports one finished regeneration attempt
type Result struct {
	Params  galaxy.Params
	Err     error
	Elapsed time.Duration
}

// Option configures a Controller
type Option func(*Controller)

// WithRateLimit paces regenerations; edits arriving meanwhile coalesce
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Controller) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
		}
	}
}

func WithStats(s *status.Stats) Option {
	return func(c *Controller) {
		if s != nil {
			c.stats = s
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithNotify registers a callback run on the worker after every attempt
func WithNotify(fn func(Result)) Option {
	return func(c *Controller) { c.notify = fn }
}

type request struct {
	params galaxy.Params
	seq    uint64
}

// Controller holds the committed Params and drives the generator
// Edits are validated and committed synchronously; regeneration runs on the
// Run goroutine, latest edit wins when several arrive before it is free
type Controller struct {
	gen     *galaxy.Generator
	stats   *status.Stats
	limiter *rate.Limiter
	log     *slog.Logger
	notify  func(Result)

	mu        sync.Mutex
	committed galaxy.Params
	generated galaxy.Params
	built     bool
	seq       uint64

	pending chan request
}

// New validates initial, commits it and queues the first generation
// The generator must not be used by anyone else while Run is active
func New(gen *galaxy.Generator, initial galaxy.Params, opts ...Option) (*Controller, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		gen:       gen,
		stats:     status.NewStats(),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		committed: initial,
		pending:   make(chan request, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.mu.Lock()
	c.submitLocked()
	c.mu.Unlock()
	return c, nil
}

// Params returns the committed parameter set
func (c *Controller) Params() galaxy.Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.committed
}

// Generated returns the params of the cloud currently displayed
func (c *Controller) Generated() (galaxy.Params, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generated, c.built
}

// Stats exposes the metrics the controller records
func (c *Controller) Stats() *status.Stats {
	return c.stats
}

// Apply runs edit against the committed params
// A ConfigurationError rejects the edit and keeps the last valid params
func (c *Controller) Apply(edit func(galaxy.Params) (galaxy.Params, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := edit(c.committed)
	if err == nil {
		err = next.Validate()
	}
	if err != nil {
		field := ""
		var cerr *galaxy.ConfigurationError
		if errors.As(err, &cerr) {
			field = cerr.Field
		}
		c.stats.RecordRejection(field, err)
		c.log.Info("edit rejected", "field", field, "error", err)
		return err
	}

	c.committed = next
	c.submitLocked()
	return nil
}

// Load commits a whole parameter set, e.g. a preset
func (c *Controller) Load(p galaxy.Params) error {
	return c.Apply(func(galaxy.Params) (galaxy.Params, error) { return p, nil })
}

// Regenerate resamples the committed params without editing them
func (c *Controller) Regenerate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitLocked()
}

func (c *Controller) SetCount(n int) error {
	return c.Apply(func(p galaxy.Params) (galaxy.Params, error) { return p.WithCount(n) })
}

func (c *Controller) SetParticleSize(v float64) error {
	return c.Apply(func(p galaxy.Params) (galaxy.Params, error) { return p.WithParticleSize(v) })
}

func (c *Controller) SetRadius(v float64) error {
	return c.Apply(func(p galaxy.Params) (galaxy.Params, error) { return p.WithRadius(v) })
}

func (c *Controller) SetBranches(n int) error {
	return c.Apply(func(p galaxy.Params) (galaxy.Params, error) { return p.WithBranches(n) })
}

func (c *Controller) SetSpin(v float64) error {
	return c.Apply(func(p galaxy.Params) (galaxy.Params, error) { return p.WithSpin(v) })
}

func (c *Controller) SetRandomness(v float64) error {
	return c.Apply(func(p galaxy.Params) (galaxy.Params, error) { return p.WithRandomness(v) })
}

func (c *Controller) SetRandomnessPower(v float64) error {
	return c.Apply(func(p galaxy.Params) (galaxy.Params, error) { return p.WithRandomnessPower(v) })
}

func (c *Controller) SetInsideColor(text string) error {
	return c.Apply(func(p galaxy.Params) (galaxy.Params, error) { return p.WithInsideColor(text) })
}

func (c *Controller) SetOutsideColor(text string) error {
	return c.Apply(func(p galaxy.Params) (galaxy.Params, error) { return p.WithOutsideColor(text) })
}

// submitLocked queues the committed params, replacing any queued request
func (c *Controller) submitLocked() {
	c.seq++
	req := request{params: c.committed, seq: c.seq}
	for {
		select {
		case c.pending <- req:
			return
		default:
		}
		select {
		case <-c.pending:
		default:
		}
	}
}

// Run serves regeneration requests until ctx is done
func (c *Controller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-c.pending:
			if c.limiter != nil {
				if err := c.limiter.Wait(ctx); err != nil {
					return ctx.Err()
				}
				// Edits that arrived while waiting supersede req
				select {
				case newer := <-c.pending:
					req = newer
				default:
				}
			}
			c.execute(req)
		}
	}
}

func (c *Controller) execute(req request) {
	start := time.Now()
	err := c.gen.Regenerate(req.params)
	elapsed := time.Since(start)

	c.mu.Lock()
	switch {
	case err == nil:
		c.generated = req.params
		c.built = true
		c.stats.RecordGeneration(req.params.Count, elapsed)
		c.log.Debug("regenerated", "params", req.params.String(), "elapsed", elapsed)
	case errors.Is(err, galaxy.ErrResource):
		c.stats.RecordResourceFailure(err)
		// Fall back to what is on screen unless a newer edit already replaced the request
		if c.built && req.seq == c.seq {
			c.committed = c.generated
		}
		c.log.Warn("regeneration refused", "error", err)
	default:
		c.stats.RecordRejection("", err)
		c.log.Error("regeneration failed", "error", err)
	}
	c.mu.Unlock()

	if c.notify != nil {
		c.notify(Result{Params: req.params, Err: err, Elapsed: elapsed})
	}
}

// Close releases the generator's cloud; call after Run has returned
func (c *Controller) Close() {
	c.gen.Close()
}
