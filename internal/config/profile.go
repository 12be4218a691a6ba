// Package config loads hitbox profiles from YAML and watches them for edits.
package config

import (
	"fmt"
	"os"
	"strconv"

	"shapecast/internal/engine"
	"shapecast/internal/hitbox"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"
)

// Vec3 is written as a three element list, e.g. [0, 0.5, 1].
type Vec3 struct {
	rl.Vector3
}

func (v *Vec3) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: vector must be a list", value.Line)
	}
	if len(value.Content) != 3 {
		return fmt.Errorf("line %d: vector needs 3 components, got %d", value.Line, len(value.Content))
	}
	var c [3]float32
	for i, n := range value.Content {
		f, err := strconv.ParseFloat(n.Value, 32)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		c[i] = float32(f)
	}
	v.Vector3 = rl.Vector3{X: c[0], Y: c[1], Z: c[2]}
	return nil
}

type OrientationSpec struct {
	Position Vec3 `yaml:"position"`
	// Rotation is in Euler degrees, like scene transforms.
	Rotation Vec3 `yaml:"rotation"`
}

type CastSpec struct {
	Type        string           `yaml:"type"`
	Size        *Vec3            `yaml:"size"`
	Radius      float32          `yaml:"radius"`
	Orientation *OrientationSpec `yaml:"orientation"`
}

type PointSpec struct {
	Object  string `yaml:"object"`
	Offsets []Vec3 `yaml:"offsets"`
}

// Profile is one hitbox configuration. Unset fields leave the hitbox as is.
type Profile struct {
	Name           string         `yaml:"name"`
	Resolution     float64        `yaml:"resolution"`
	FilterHitParts *bool          `yaml:"filter_hit_parts"`
	Cast           *CastSpec      `yaml:"cast"`
	Attributes     map[string]any `yaml:"attributes"`
	Points         []PointSpec    `yaml:"points"`
}

// Load reads and parses the profile at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return p, nil
}

func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Profile) validate() error {
	if p.Resolution < 0 {
		return fmt.Errorf("resolution %v must be positive", p.Resolution)
	}
	if _, err := p.CastData(); err != nil {
		return err
	}
	for i, pt := range p.Points {
		if pt.Object == "" {
			return fmt.Errorf("points[%d]: object is required", i)
		}
	}
	return nil
}

// CastData builds the cast data the profile describes. A profile without a
// cast section yields the default raycast.
func (p *Profile) CastData() (hitbox.CastData, error) {
	cd := hitbox.DefaultCastData()
	if p.Cast == nil {
		return cd, nil
	}
	if p.Cast.Type != "" {
		shape, err := hitbox.ParseCastShape(p.Cast.Type)
		if err != nil {
			return cd, err
		}
		cd.Shape = shape
	}
	if p.Cast.Size != nil {
		cd.Size = p.Cast.Size.Vector3
	}
	cd.Radius = p.Cast.Radius
	if o := p.Cast.Orientation; o != nil {
		cd.Orientation = engine.NewPose(o.Position.Vector3, o.Rotation.Vector3)
	}
	return cd, cd.Validate()
}

// Apply pushes the profile into h. Point objects are looked up by name in
// scene; their earlier points are replaced so a profile can be applied
// again after an edit.
func (p *Profile) Apply(h *hitbox.Hitbox, scene *engine.Scene) error {
	cd, err := p.CastData()
	if err != nil {
		return fmt.Errorf("config: apply %q: %w", p.Name, err)
	}
	targets := make([]*engine.GameObject, len(p.Points))
	for i, pt := range p.Points {
		if scene == nil {
			return fmt.Errorf("config: apply %q: points need a scene", p.Name)
		}
		obj := scene.FindByName(pt.Object)
		if obj == nil {
			return fmt.Errorf("config: apply %q: object %q not found", p.Name, pt.Object)
		}
		targets[i] = obj
	}

	before := h.Err()
	if p.Resolution > 0 {
		h.SetResolution(p.Resolution)
	}
	if p.FilterHitParts != nil {
		h.FilterHitParts = *p.FilterHitParts
	}
	if p.Cast != nil {
		h.SetCastData(cd)
	}
	for k, v := range p.Attributes {
		h.Attributes[k] = v
	}
	for _, obj := range targets {
		h.RemovePoints(obj)
	}
	for i, pt := range p.Points {
		offsets := make([]rl.Vector3, len(pt.Offsets))
		for j, o := range pt.Offsets {
			offsets[j] = o.Vector3
		}
		h.SetPoints(targets[i], offsets...)
	}
	h.Reconcile()

	if err := h.Err(); err != nil && err != before {
		return fmt.Errorf("config: apply %q: %w", p.Name, err)
	}
	return nil
}
