// Package systems contains the ECS systems that run the rain.
package systems

import (
	"image/color"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rain/components"
	"github.com/pthm-cable/rain/surface"
)

// RainFieldConfig holds the pool parameters.
type RainFieldConfig struct {
	Bounds components.Bounds
	Target int
	Band   int
	Step   components.Step
	Speed  int // carried on each drop; 0 = components.DefaultSpeed
}

// DropStyle describes how a drop is drawn.
type DropStyle struct {
	Radius      float32
	StrokeWidth float32
	Color       color.RGBA
}

// DefaultDropStyle draws a 1px gray dot.
var DefaultDropStyle = DropStyle{
	Radius:      1,
	StrokeWidth: 1,
	Color:       color.RGBA{R: 128, G: 128, B: 128, A: 255},
}

// RainField keeps a pool of raindrops at a target population.
type RainField struct {
	drops  *ecs.Map1[components.Raindrop]
	filter *ecs.Filter1[components.Raindrop]
	world  *ecs.World
	rng    *rand.Rand

	bounds components.Bounds
	target int
	band   int
	step   components.Step
	speed  int

	count  int
	toCull []ecs.Entity
}

// NewRainField creates an empty field in the given world.
func NewRainField(w *ecs.World, rng *rand.Rand, cfg RainFieldConfig) *RainField {
	if cfg.Band < 1 {
		cfg.Band = 1
	}
	if cfg.Speed == 0 {
		cfg.Speed = components.DefaultSpeed
	}
	return &RainField{
		drops:  ecs.NewMap1[components.Raindrop](w),
		filter: ecs.NewFilter1[components.Raindrop](w),
		world:  w,
		rng:    rng,
		bounds: cfg.Bounds,
		target: cfg.Target,
		band:   cfg.Band,
		step:   cfg.Step,
		speed:  cfg.Speed,
		toCull: make([]ecs.Entity, 0, cfg.Target),
	}
}

// Update runs one fixed-step pass: advance, cull, replenish.
func (f *RainField) Update() (spawned, culled int) {
	f.Advance()
	culled = f.Cull()
	spawned = f.Replenish()
	return spawned, culled
}

// Advance moves every drop by one frame step.
func (f *RainField) Advance() {
	query := f.filter.Query()
	for query.Next() {
		query.Get().Advance(f.step)
	}
}

// AdvanceScaled moves every drop by step*scale.
func (f *RainField) AdvanceScaled(scale float64) {
	query := f.filter.Query()
	for query.Next() {
		query.Get().AdvanceScaled(f.step, scale)
	}
}

// Cull removes drops that have reached the bottom of the frame.
// Drops are never removed for leaving the sides.
func (f *RainField) Cull() int {
	f.toCull = f.toCull[:0]

	query := f.filter.Query()
	for query.Next() {
		if query.Get().Y >= f.bounds.Height {
			f.toCull = append(f.toCull, query.Entity())
		}
	}

	// Query iteration is complete; the world is unlocked
	for _, e := range f.toCull {
		f.world.RemoveEntity(e)
	}
	f.count -= len(f.toCull)
	return len(f.toCull)
}

// Replenish spawns drops until the pool is back at its target.
func (f *RainField) Replenish() int {
	deficit := f.target - f.count
	for i := 0; i < deficit; i++ {
		d := components.NewRaindrop(f.rng, f.bounds, f.band)
		d.Speed = f.speed
		f.drops.NewEntity(&d)
	}
	if deficit < 0 {
		return 0
	}
	f.count += deficit
	return deficit
}

// Draw issues one filled ellipse per visible drop and returns how many were drawn.
// Drops still above the top edge are skipped.
func (f *RainField) Draw(s surface.DrawingSession, style DropStyle) int {
	drawn := 0
	query := f.filter.Query()
	for query.Next() {
		d := query.Get()
		if d.Y <= 0 {
			continue
		}
		s.DrawFilledEllipse(float32(d.X), float32(d.Y), style.Radius, style.Radius, style.Color, style.StrokeWidth)
		drawn++
	}
	return drawn
}

// Spawn adds a specific drop to the pool.
func (f *RainField) Spawn(d components.Raindrop) ecs.Entity {
	f.count++
	return f.drops.NewEntity(&d)
}

// Drops returns a copy of every drop in iteration order.
func (f *RainField) Drops() []components.Raindrop {
	out := make([]components.Raindrop, 0, f.count)
	query := f.filter.Query()
	for query.Next() {
		out = append(out, *query.Get())
	}
	return out
}

// Len returns the current pool size.
func (f *RainField) Len() int {
	return f.count
}

// Target returns the population the pool is kept at.
func (f *RainField) Target() int {
	return f.target
}

// Bounds returns the current frame bounds.
func (f *RainField) Bounds() components.Bounds {
	return f.bounds
}

// SetBounds changes the frame bounds used for spawning and culling.
func (f *RainField) SetBounds(b components.Bounds) {
	f.bounds = b
}

// SetTarget changes the target population. A lower target takes effect as drops are culled.
func (f *RainField) SetTarget(n int) {
	if n < 0 {
		n = 0
	}
	f.target = n
}
