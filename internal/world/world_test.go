package world

import (
	"path/filepath"
	"testing"

	"shapecast/internal/assets"
	"shapecast/internal/components"
	"shapecast/internal/engine"
	"shapecast/internal/hitbox"
	"shapecast/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/require"
)

const arena = `{
  "objects": [
    {
      "name": "Wall",
      "tags": ["static"],
      "position": [0, 0, 5.1],
      "rotation": [0, 0, 0],
      "scale": [1, 1, 1],
      "components": [
        {"type": "BoxCollider", "size": [4, 4, 0.2], "material": "Stone"}
      ]
    },
    {
      "name": "Sword",
      "position": [0, 0, 0],
      "rotation": [0, 0, 0],
      "scale": [0, 0, 0],
      "children": [
        {
          "name": "Blade",
          "position": [0, 0, 0],
          "rotation": [0, 0, 0],
          "scale": [1, 1, 1],
          "components": [
            {"type": "DmgPoint", "offset": [0, 0, 0], "group": "edge"},
            {"type": "SphereCollider", "radius": 0.1}
          ]
        }
      ]
    },
    {
      "name": "Spinner",
      "position": [20, 0, 0],
      "rotation": [0, 0, 0],
      "scale": [1, 1, 1],
      "components": [
        {"type": "Script", "name": "Rotator", "props": {"speed": 180, "axis": "y"}},
        {"type": "Script", "name": "Oscillator", "props": {"amplitude": [0, 1, 0], "frequency": 0.5, "phase": 1}}
      ]
    }
  ]
}`

func TestLoadSceneData(t *testing.T) {
	w := New()
	require.NoError(t, w.LoadSceneData([]byte(arena)))

	require.Len(t, w.Scene.GameObjects, 4)
	sword := w.Scene.FindByName("Sword")
	blade := w.Scene.FindByName("Blade")
	require.NotNil(t, sword)
	require.Same(t, sword, blade.Parent)
	require.Equal(t, rl.Vector3{X: 1, Y: 1, Z: 1}, sword.Transform.Scale)

	p := engine.GetComponent[*components.DmgPoint](blade)
	require.NotNil(t, p)
	require.Equal(t, "edge", p.Group)

	wall := w.Scene.FindByName("Wall")
	require.Equal(t, "Stone", engine.GetComponent[*components.BoxCollider](wall).Material)
	require.True(t, wall.HasTag("static"))

	spinner := w.Scene.FindByName("Spinner")
	require.Equal(t, float32(180), engine.GetComponent[*components.Rotator](spinner).Speed)
	require.Equal(t, float32(1), engine.GetComponent[*components.Oscillator](spinner).Phase)

	require.ElementsMatch(t, []*engine.GameObject{wall, blade}, w.GetCollidableObjects())
}

func TestLoadSceneDataIsAllOrNothing(t *testing.T) {
	w := New()
	bad := `{"objects": [
		{"name": "Ok", "components": [{"type": "BoxCollider", "size": [1, 1, 1]}]},
		{"name": "Bad", "components": [{"type": "ModelRenderer"}]}
	]}`
	err := w.LoadSceneData([]byte(bad))
	require.ErrorContains(t, err, `object "Bad" component 0`)
	require.Empty(t, w.Scene.GameObjects)
	require.Empty(t, w.Physics.Objects())

	err = w.LoadSceneData([]byte(`{"objects": [{"name": "S", "components": [{"type": "Script", "name": "Rotator", "props": {"speed": "fast"}}]}]}`))
	require.Error(t, err)

	err = w.LoadSceneData([]byte(`{"objects": [{"name": "S", "components": [{"type": "Script", "name": "Teleporter"}]}]}`))
	require.Error(t, err)
}

func TestLoadSceneMissingFile(t *testing.T) {
	w := New()
	err := w.LoadScene(filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorContains(t, err, "read scene")
}

func TestSaveSceneRoundTrip(t *testing.T) {
	w := New()
	require.NoError(t, w.LoadSceneData([]byte(arena)))
	w.Scene.FindByName("Wall").Active = false

	path := filepath.Join(t.TempDir(), "arena.json")
	require.NoError(t, w.SaveScene(path))

	loaded := New()
	require.NoError(t, loaded.LoadScene(path))
	require.Len(t, loaded.Scene.GameObjects, 4)
	require.False(t, loaded.Scene.FindByName("Wall").Active)

	blade := loaded.Scene.FindByName("Blade")
	require.Equal(t, "Sword", blade.Parent.Name)
	require.Equal(t, "edge", engine.GetComponent[*components.DmgPoint](blade).Group)

	osc := engine.GetComponent[*components.Oscillator](loaded.Scene.FindByName("Spinner"))
	require.Equal(t, rl.Vector3{Y: 1}, osc.Amplitude)
	require.Equal(t, float32(0.5), osc.Frequency)
}

func TestHitboxCastsAgainstLoadedScene(t *testing.T) {
	w := New()
	require.NoError(t, w.LoadSceneData([]byte(arena)))
	w.Start()

	sword := w.Scene.FindByName("Sword")
	h, err := hitbox.New(sword, w.Physics, nil)
	require.NoError(t, err)
	require.Len(t, h.GetAllSegments(), 1)

	var hits []physics.RaycastHit
	h.OnHit(func(hit physics.RaycastHit, _ *hitbox.Segment) { hits = append(hits, hit) })
	h.HitStart()

	w.Update(1.0 / 60)
	sword.Transform.Position = rl.Vector3{Z: 10}
	w.Update(1.0 / 60)

	require.Len(t, hits, 1)
	require.Equal(t, "Wall", hits[0].GameObject.Name)
	require.Equal(t, "Stone", hits[0].Material)
	require.InDelta(t, 5, hits[0].Distance, 1e-3)
}

func TestSceneUpdateMovesScriptedColliders(t *testing.T) {
	w := New()
	require.NoError(t, w.LoadSceneData([]byte(arena)))
	w.Start()

	spinner := w.Scene.FindByName("Spinner")
	w.Update(0.5)
	require.InDelta(t, 90, spinner.Transform.Rotation.Y, 1e-3)
}

type drawCall struct {
	kind  string
	color rl.Color
}

type recorder struct{ calls []drawCall }

func (r *recorder) Line(_, _ rl.Vector3, c rl.Color) { r.calls = append(r.calls, drawCall{"line", c}) }
func (r *recorder) Box(_ engine.Pose, _ rl.Vector3, c rl.Color) {
	r.calls = append(r.calls, drawCall{"box", c})
}
func (r *recorder) Sphere(_ rl.Vector3, _ float32, c rl.Color) {
	r.calls = append(r.calls, drawCall{"sphere", c})
}

func TestRendererTintsByMaterial(t *testing.T) {
	w := New()
	require.NoError(t, w.LoadSceneData([]byte(arena)))
	w.Palette.Set(&assets.Material{Name: "Stone", Color: rl.Gray})

	r := NewRenderer(w.Palette)
	var rec recorder
	r.Draw(&rec, w.Scene.GameObjects)
	require.Equal(t, []drawCall{
		{"box", rl.Gray},
		{"sphere", w.Palette.Fallback},
		{"sphere", r.PointColor},
	}, rec.calls)

	rec.calls = nil
	r.ShowPoints = false
	w.Scene.FindByName("Wall").Active = false
	r.Draw(&rec, w.Scene.GameObjects)
	require.Equal(t, []drawCall{{"sphere", w.Palette.Fallback}}, rec.calls)
}
