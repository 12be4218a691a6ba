package world

import (
	"shapecast/internal/assets"
	"shapecast/internal/engine"
	"shapecast/internal/physics"
)

// World owns a scene and the physics world its colliders live in.
type World struct {
	Scene   *engine.Scene
	Physics *physics.World
	Palette *assets.Palette
}

// New creates an empty scene whose heartbeat rebuilds the physics grid
// before anything else subscribes, so hitboxes cast against this frame's
// transforms.
func New() *World {
	w := &World{
		Scene:   engine.NewScene("Main"),
		Physics: physics.NewWorld(),
		Palette: assets.NewPalette(),
	}
	w.Physics.Attach(w.Scene.Heartbeat)
	return w
}

// Spawn adds root and every descendant to the scene and the physics world.
func (w *World) Spawn(root *engine.GameObject) {
	w.Scene.AddGameObject(root)
	for _, d := range root.Descendants() {
		w.Scene.AddGameObject(d)
	}
	w.Physics.AddTree(root)
}

func (w *World) Start() {
	w.Scene.Start()
}

func (w *World) Update(deltaTime float32) {
	w.Scene.Update(deltaTime)
}

// GetCollidableObjects returns all GameObjects that have a collider
func (w *World) GetCollidableObjects() []*engine.GameObject {
	var result []*engine.GameObject
	for _, g := range w.Physics.Objects() {
		if hasCollider(g) {
			result = append(result, g)
		}
	}
	return result
}

func (w *World) Unload() {
	w.Physics.Detach()
}
