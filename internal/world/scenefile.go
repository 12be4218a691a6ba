package world

import (
	"encoding/json"
	"fmt"
	"os"

	"shapecast/internal/components"
	"shapecast/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// --- JSON types ---

type SceneFile struct {
	Objects []ObjectDef `json:"objects"`
}

type ObjectDef struct {
	Name       string            `json:"name"`
	Tags       []string          `json:"tags,omitempty"`
	Active     *bool             `json:"active,omitempty"`
	Position   [3]float32        `json:"position"`
	Rotation   [3]float32        `json:"rotation"`
	Scale      [3]float32        `json:"scale"`
	Components []json.RawMessage `json:"components,omitempty"`
	Children   []ObjectDef       `json:"children,omitempty"`
}

type componentHeader struct {
	Type string `json:"type"`
}

type boxColliderDef struct {
	Type     string     `json:"type"`
	Size     [3]float32 `json:"size"`
	Offset   [3]float32 `json:"offset,omitempty"`
	Material string     `json:"material,omitempty"`
}

type sphereColliderDef struct {
	Type     string     `json:"type"`
	Radius   float32    `json:"radius"`
	Offset   [3]float32 `json:"offset,omitempty"`
	Material string     `json:"material,omitempty"`
}

type dmgPointDef struct {
	Type       string     `json:"type"`
	Offset     [3]float32 `json:"offset"`
	Group      string     `json:"group,omitempty"`
	CastType   string     `json:"castType,omitempty"`
	CastSize   [3]float32 `json:"castSize,omitempty"`
	CastRadius float32    `json:"castRadius,omitempty"`
}

type scriptDef struct {
	Type  string         `json:"type"`
	Name  string         `json:"name"`
	Props map[string]any `json:"props,omitempty"`
}

func vec(a [3]float32) rl.Vector3 {
	return rl.Vector3{X: a[0], Y: a[1], Z: a[2]}
}

func arr(v rl.Vector3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// --- Loading ---

func (w *World) LoadScene(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scene: %w", err)
	}
	if err := w.LoadSceneData(data); err != nil {
		return fmt.Errorf("scene %s: %w", path, err)
	}
	return nil
}

// LoadSceneData builds every object in data and adds it to the scene and
// the physics world. Nothing is added if any object fails to build.
func (w *World) LoadSceneData(data []byte) error {
	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parse scene: %w", err)
	}

	roots := make([]*engine.GameObject, 0, len(sf.Objects))
	for _, objDef := range sf.Objects {
		g, err := buildObject(objDef)
		if err != nil {
			return err
		}
		roots = append(roots, g)
	}
	for _, g := range roots {
		w.Spawn(g)
	}
	return nil
}

func buildObject(objDef ObjectDef) (*engine.GameObject, error) {
	g := engine.NewGameObject(objDef.Name)
	g.Tags = objDef.Tags
	if objDef.Active != nil {
		g.Active = *objDef.Active
	}
	g.Transform.Position = vec(objDef.Position)
	g.Transform.Rotation = vec(objDef.Rotation)

	// Default scale to 1 if zero
	if objDef.Scale != [3]float32{} {
		g.Transform.Scale = vec(objDef.Scale)
	}

	for i, raw := range objDef.Components {
		c, err := loadComponent(raw)
		if err != nil {
			return nil, fmt.Errorf("object %q component %d: %w", objDef.Name, i, err)
		}
		g.AddComponent(c)
	}

	for _, childDef := range objDef.Children {
		child, err := buildObject(childDef)
		if err != nil {
			return nil, err
		}
		g.AddChild(child)
	}
	return g, nil
}

func loadComponent(raw json.RawMessage) (engine.Component, error) {
	var header componentHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, err
	}

	switch header.Type {
	case "BoxCollider":
		var def boxColliderDef
		if err := json.Unmarshal(raw, &def); err != nil {
			return nil, err
		}
		col := components.NewBoxCollider(vec(def.Size))
		col.Offset = vec(def.Offset)
		col.Material = def.Material
		return col, nil
	case "SphereCollider":
		var def sphereColliderDef
		if err := json.Unmarshal(raw, &def); err != nil {
			return nil, err
		}
		col := components.NewSphereCollider(def.Radius)
		col.Offset = vec(def.Offset)
		col.Material = def.Material
		return col, nil
	case "DmgPoint":
		var def dmgPointDef
		if err := json.Unmarshal(raw, &def); err != nil {
			return nil, err
		}
		p := components.NewDmgPoint(vec(def.Offset))
		p.Group = def.Group
		p.CastType = def.CastType
		p.CastSize = vec(def.CastSize)
		p.CastRadius = def.CastRadius
		return p, nil
	case "Script":
		var def scriptDef
		if err := json.Unmarshal(raw, &def); err != nil {
			return nil, err
		}
		return engine.CreateComponent(def.Name, def.Props)
	}
	return nil, fmt.Errorf("unknown component type %q", header.Type)
}

// --- Saving ---

func (w *World) SaveScene(path string) error {
	var sf SceneFile

	for _, g := range w.Scene.GameObjects {
		if g.Parent != nil {
			continue
		}
		sf.Objects = append(sf.Objects, objectDef(g))
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}

	return nil
}

func objectDef(g *engine.GameObject) ObjectDef {
	objDef := ObjectDef{
		Name:     g.Name,
		Tags:     g.Tags,
		Position: arr(g.Transform.Position),
		Rotation: arr(g.Transform.Rotation),
		Scale:    arr(g.Transform.Scale),
	}
	if !g.Active {
		inactive := false
		objDef.Active = &inactive
	}

	for _, c := range g.Components() {
		if raw := serializeComponent(c); raw != nil {
			objDef.Components = append(objDef.Components, raw)
		}
	}
	for _, child := range g.Children {
		objDef.Children = append(objDef.Children, objectDef(child))
	}
	return objDef
}

func serializeComponent(c engine.Component) json.RawMessage {
	var def any

	switch comp := c.(type) {
	case *components.BoxCollider:
		def = boxColliderDef{
			Type:     "BoxCollider",
			Size:     arr(comp.Size),
			Offset:   arr(comp.Offset),
			Material: comp.Material,
		}

	case *components.SphereCollider:
		def = sphereColliderDef{
			Type:     "SphereCollider",
			Radius:   comp.Radius,
			Offset:   arr(comp.Offset),
			Material: comp.Material,
		}

	case *components.DmgPoint:
		def = dmgPointDef{
			Type:       "DmgPoint",
			Offset:     arr(comp.Offset),
			Group:      comp.Group,
			CastType:   comp.CastType,
			CastSize:   arr(comp.CastSize),
			CastRadius: comp.CastRadius,
		}

	case *components.Rotator:
		def = scriptDef{Type: "Script", Name: "Rotator", Props: map[string]any{
			"speed": comp.Speed,
			"axis":  comp.Axis,
		}}

	case *components.Oscillator:
		def = scriptDef{Type: "Script", Name: "Oscillator", Props: map[string]any{
			"amplitude": arr(comp.Amplitude),
			"frequency": comp.Frequency,
			"phase":     comp.Phase,
		}}

	case *components.Camera:
		projection := "perspective"
		if comp.Projection == rl.CameraOrthographic {
			projection = "orthographic"
		}
		def = scriptDef{Type: "Script", Name: "Camera", Props: map[string]any{
			"fov":        comp.FOV,
			"target":     arr(comp.Target),
			"projection": projection,
		}}

	default:
		return nil
	}

	data, err := json.Marshal(def)
	if err != nil {
		return nil
	}
	return data
}
