package components

import (
	"math"

	"shapecast/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Oscillator moves an object back and forth around the position it started at.
type Oscillator struct {
	engine.BaseComponent
	Amplitude rl.Vector3
	Frequency float32 // cycles per second
	Phase     float32

	start   rl.Vector3
	time    float32
	started bool
}

func (o *Oscillator) Start() {
	if g := o.GetGameObject(); g != nil {
		o.start = g.Transform.Position
		o.started = true
	}
}

func (o *Oscillator) Update(deltaTime float32) {
	g := o.GetGameObject()
	if g == nil {
		return
	}
	if !o.started {
		o.Start()
	}

	o.time += deltaTime
	s := float32(math.Sin(2*math.Pi*float64(o.time*o.Frequency) + float64(o.Phase)))
	g.Transform.Position = rl.Vector3Add(o.start, rl.Vector3Scale(o.Amplitude, s))
}
