package components

import (
	"fmt"

	"shapecast/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("Rotator", rotatorFactory)
	engine.RegisterComponent("Oscillator", oscillatorFactory)
	engine.RegisterComponent("Camera", cameraFactory)
}

func rotatorFactory(props map[string]any) (engine.Component, error) {
	speed, err := propFloat(props, "speed", 90)
	if err != nil {
		return nil, err
	}
	axis, err := propString(props, "axis", "y")
	if err != nil {
		return nil, err
	}
	return &Rotator{Speed: speed, Axis: axis}, nil
}

func oscillatorFactory(props map[string]any) (engine.Component, error) {
	amp, err := propVec3(props, "amplitude", rl.Vector3{X: 1})
	if err != nil {
		return nil, err
	}
	freq, err := propFloat(props, "frequency", 1)
	if err != nil {
		return nil, err
	}
	phase, err := propFloat(props, "phase", 0)
	if err != nil {
		return nil, err
	}
	return &Oscillator{Amplitude: amp, Frequency: freq, Phase: phase}, nil
}

func cameraFactory(props map[string]any) (engine.Component, error) {
	c := NewCamera()
	var err error
	if c.FOV, err = propFloat(props, "fov", c.FOV); err != nil {
		return nil, err
	}
	if c.Target, err = propVec3(props, "target", c.Target); err != nil {
		return nil, err
	}
	projection, err := propString(props, "projection", "perspective")
	if err != nil {
		return nil, err
	}
	switch projection {
	case "perspective":
	case "orthographic":
		c.Projection = rl.CameraOrthographic
	default:
		return nil, fmt.Errorf("projection: unknown value %q", projection)
	}
	return c, nil
}

func propFloat(props map[string]any, key string, fallback float32) (float32, error) {
	v, ok := props[key]
	if !ok {
		return fallback, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%s: expected number, got %T", key, v)
	}
	return float32(f), nil
}

func propString(props map[string]any, key, fallback string) (string, error) {
	v, ok := props[key]
	if !ok {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected string, got %T", key, v)
	}
	return s, nil
}

// propVec3 reads a JSON array of three numbers.
func propVec3(props map[string]any, key string, fallback rl.Vector3) (rl.Vector3, error) {
	v, ok := props[key]
	if !ok {
		return fallback, nil
	}
	arr, ok := v.([]any)
	if !ok || len(arr) != 3 {
		return rl.Vector3{}, fmt.Errorf("%s: expected [x, y, z]", key)
	}
	var out [3]float32
	for i, e := range arr {
		f, ok := e.(float64)
		if !ok {
			return rl.Vector3{}, fmt.Errorf("%s[%d]: expected number, got %T", key, i, e)
		}
		out[i] = float32(f)
	}
	return rl.Vector3{X: out[0], Y: out[1], Z: out[2]}, nil
}
