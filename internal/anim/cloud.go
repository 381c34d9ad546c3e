// Package anim advances the particle cloud and the background starfield one
// frame at a time.
//
// The step is not normalised by frame time: the cloud eases a fixed fraction
// of the remaining distance per frame, so a faster display morphs faster.
package anim

import (
	"errors"
	"fmt"
	"math"

	"github.com/iburimskiy/particle-wishes/internal/shape"
)

// Params tunes the per-frame update.
type Params struct {
	Ease          float64 // fraction of the remaining distance covered per frame
	Turbulence    float64 // amplitude of the per-slot sine wobble
	Spin          float64 // radians added to the cloud's y rotation per frame
	SwayAmplitude float64 // peak x rotation in radians
	SwayFrequency float64 // x rotation frequency in radians per second
	StarSpin      float64 // radians removed from the starfield's y rotation per frame
}

// DefaultParams returns the tuning the scene was designed with.
func DefaultParams() Params {
	return Params{
		Ease:          0.05,
		Turbulence:    0.02,
		Spin:          0.005,
		SwayAmplitude: 0.1,
		SwayFrequency: 0.5,
		StarSpin:      0.0005,
	}
}

// ErrSizeMismatch is returned when a target buffer does not match the cloud.
var ErrSizeMismatch = errors.New("target size does not match cloud")

// Ease moves every slot of live toward target scaled by expansion, then adds
// a sine wobble phased by the flat slot index, so the x, y and z of one
// particle drift out of step.
func Ease(live, target shape.Positions, expansion, elapsed float64, p Params) {
	n := min(len(live), len(target))
	for i := 0; i < n; i++ {
		v := float64(live[i])
		diff := float64(target[i])*expansion - v
		v += diff * p.Ease
		v += math.Sin(elapsed+float64(i)) * p.Turbulence
		live[i] = float32(v)
	}
}

// Cloud is the morphing particle cloud. Only Step writes the live buffer;
// renderers read it through Live.
type Cloud struct {
	live   shape.Positions
	target shape.Positions
	params Params

	RotationX float64
	RotationY float64
}

// NewCloud returns a cloud of count particles collapsed at the origin.
func NewCloud(count int, p Params) *Cloud {
	return &Cloud{
		live:   make(shape.Positions, count*3),
		target: make(shape.Positions, count*3),
		params: p,
	}
}

// SetTarget replaces the shape the cloud eases toward. The buffer is kept,
// not copied; callers must not modify it afterwards.
func (c *Cloud) SetTarget(target shape.Positions) error {
	if len(target) != len(c.live) {
		return fmt.Errorf("%w: got %d slots, want %d", ErrSizeMismatch, len(target), len(c.live))
	}
	c.target = target
	return nil
}

// Step advances one frame at the given elapsed time in seconds.
func (c *Cloud) Step(expansion, elapsed float64) {
	Ease(c.live, c.target, expansion, elapsed, c.params)

	c.RotationY += c.params.Spin
	c.RotationX = math.Sin(elapsed*c.params.SwayFrequency) * c.params.SwayAmplitude
}

// Live returns the rendered positions. Treat as read-only.
func (c *Cloud) Live() shape.Positions { return c.live }

// Target returns the shape currently eased toward.
func (c *Cloud) Target() shape.Positions { return c.target }

// Len returns the particle count.
func (c *Cloud) Len() int { return c.live.Len() }
