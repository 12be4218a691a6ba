package engine

type Scene struct {
	Name        string
	GameObjects []*GameObject
	Heartbeat   *Heartbeat
	uidMap      map[uint64]*GameObject
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:        name,
		GameObjects: make([]*GameObject, 0),
		Heartbeat:   NewHeartbeat(),
		uidMap:      make(map[uint64]*GameObject),
	}
}

func (s *Scene) AddGameObject(g *GameObject) {
	if s.uidMap == nil {
		s.uidMap = make(map[uint64]*GameObject)
	}
	g.Scene = s
	s.GameObjects = append(s.GameObjects, g)
	s.uidMap[g.UID] = g
}

// RemoveGameObject removes g and any of its descendants that were added to the scene.
func (s *Scene) RemoveGameObject(g *GameObject) {
	doomed := map[*GameObject]bool{g: true}
	for _, d := range g.Descendants() {
		doomed[d] = true
	}
	kept := s.GameObjects[:0]
	for _, obj := range s.GameObjects {
		if doomed[obj] {
			delete(s.uidMap, obj.UID)
			obj.Scene = nil
			continue
		}
		kept = append(kept, obj)
	}
	clear(s.GameObjects[len(kept):])
	s.GameObjects = kept
}

// FindByUID is an O(1) lookup of a scene object.
func (s *Scene) FindByUID(uid uint64) *GameObject {
	return s.uidMap[uid]
}

func (s *Scene) FindByName(name string) *GameObject {
	for _, g := range s.GameObjects {
		if g.Name == name {
			return g
		}
		for _, d := range g.Descendants() {
			if d.Name == name {
				return d
			}
		}
	}
	return nil
}

func (s *Scene) FindByTag(tag string) []*GameObject {
	var result []*GameObject
	for _, g := range s.GameObjects {
		if g.HasTag(tag) {
			result = append(result, g)
		}
	}
	return result
}

func (s *Scene) Start() {
	for _, g := range s.GameObjects {
		g.Start()
	}
}

// Update runs component updates first, then steps the heartbeat so
// subscribers observe this frame's transforms.
func (s *Scene) Update(deltaTime float32) {
	for _, g := range s.GameObjects {
		g.Update(deltaTime)
	}
	if s.Heartbeat != nil {
		s.Heartbeat.Step(deltaTime)
	}
}
