package render

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/spiral-galaxy/vmath"
)

// Camera defaults for the galaxy view
const (
	DefaultFov  = 75.0 // degrees, vertical
	DefaultNear = 0.1
	DefaultFar  = 100.0

	minDistance  = 0.5
	maxDistance  = 60.0
	maxElevation = math.Pi/2 - 0.01

	// Spring tuning for damped orbit controls
	springFrequency = 6.0
	springDamping   = 1.0
)

// DefaultEye is the initial camera position
var DefaultEye = mgl32.Vec3{3, 2.5, 4}

// orbitAxis is one damped spherical coordinate
type orbitAxis struct {
	pos, vel, target float64
}

func (a *orbitAxis) step(s *harmonica.Spring) {
	a.pos, a.vel = s.Update(a.pos, a.vel, a.target)
}

func (a *orbitAxis) snap() {
	a.pos, a.vel = a.target, 0
}

// Camera orbits a center point in spherical coordinates
// Input moves targets; Update eases the current pose toward them
type Camera struct {
	Fov, Near, Far float32
	Center         mgl32.Vec3

	spring    harmonica.Spring
	azimuth   orbitAxis
	elevation orbitAxis
	distance  orbitAxis
}

// NewCamera places the camera at eye looking at the origin, damped at fps
func NewCamera(eye mgl32.Vec3, fps int) *Camera {
	c := &Camera{
		Fov:    DefaultFov,
		Near:   DefaultNear,
		Far:    DefaultFar,
		spring: harmonica.NewSpring(harmonica.FPS(max(fps, 1)), springFrequency, springDamping),
	}
	c.LookFrom(eye)
	return c
}

// LookFrom jumps to eye without easing
func (c *Camera) LookFrom(eye mgl32.Vec3) {
	rel := eye.Sub(c.Center)
	d := float64(rel.Len())
	if d == 0 {
		d = minDistance
		rel = mgl32.Vec3{0, 0, float32(d)}
	}
	c.azimuth.target = math.Atan2(float64(rel.X()), float64(rel.Z()))
	c.elevation.target = math.Asin(vmath.Clamp(float64(rel.Y())/d, -1, 1))
	c.distance.target = d
	c.Snap()
}

// Orbit rotates the target pose; elevation stays short of the poles
func (c *Camera) Orbit(dAzimuth, dElevation float64) {
	c.azimuth.target += dAzimuth
	c.elevation.target = vmath.Clamp(c.elevation.target+dElevation, -maxElevation, maxElevation)
}

// Zoom scales the target distance; factor < 1 moves closer
func (c *Camera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.distance.target = vmath.Clamp(c.distance.target*factor, minDistance, maxDistance)
}

// Update advances the damping by one frame
func (c *Camera) Update() {
	c.azimuth.step(&c.spring)
	c.elevation.step(&c.spring)
	c.distance.step(&c.spring)
}

// Snap completes any easing immediately
func (c *Camera) Snap() {
	c.azimuth.snap()
	c.elevation.snap()
	c.distance.snap()
}

// Eye returns the current camera position
func (c *Camera) Eye() mgl32.Vec3 {
	az, el, d := c.azimuth.pos, c.elevation.pos, c.distance.pos
	return c.Center.Add(mgl32.Vec3{
		float32(d * math.Cos(el) * math.Sin(az)),
		float32(d * math.Sin(el)),
		float32(d * math.Cos(el) * math.Cos(az)),
	})
}

// Distance returns the current distance to the center
func (c *Camera) Distance() float64 {
	return c.distance.pos
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.Center, mgl32.Vec3{0, 1, 0})
}

func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), aspect, c.Near, c.Far)
}

// Azimuth returns the current heading in [-π, π)
func (c *Camera) Azimuth() float64 {
	return vmath.WrapAngle(c.azimuth.pos)
}

// Elevation returns the current angle above the galaxy plane
func (c *Camera) Elevation() float64 {
	return c.elevation.pos
}
