package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Material is how a collider material is drawn. Cast results carry the
// material name, so the same name picks the debug color.
type Material struct {
	Name  string
	Color rl.Color
}

// materialDef is the JSON format for material files
type materialDef struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type paletteFile struct {
	Materials []materialDef `json:"materials"`
}

// Color name mapping for materials
var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"Gold":      rl.Gold,
	"White":     rl.White,
	"Gray":      rl.Gray,
	"LightGray": rl.LightGray,
	"DarkGray":  rl.DarkGray,
	"Black":     rl.Black,
	"Pink":      rl.Pink,
	"Maroon":    rl.Maroon,
	"Brown":     rl.Brown,
	"Beige":     rl.Beige,
	"SkyBlue":   rl.SkyBlue,
	"DarkBlue":  rl.DarkBlue,
	"Lime":      rl.Lime,
	"DarkGreen": rl.DarkGreen,
	"Magenta":   rl.Magenta,
}

// LookupColor returns a raylib color from a name string
func LookupColor(name string) (rl.Color, bool) {
	c, ok := colorByName[name]
	return c, ok
}

// Palette maps material names to colors. It is safe for concurrent use so
// a reload can swap entries while the draw loop reads them.
type Palette struct {
	mu        sync.RWMutex
	materials map[string]*Material
	Fallback  rl.Color
}

func NewPalette() *Palette {
	return &Palette{
		materials: make(map[string]*Material),
		Fallback:  rl.LightGray,
	}
}

// LoadPalette reads a JSON file of the form {"materials": [{"name", "color"}]}.
func LoadPalette(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read palette: %w", err)
	}
	var pf paletteFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse palette: %w", err)
	}
	p := NewPalette()
	for _, def := range pf.Materials {
		c, ok := LookupColor(def.Color)
		if !ok {
			return nil, fmt.Errorf("palette %s: material %q has unknown color %q", path, def.Name, def.Color)
		}
		p.Set(&Material{Name: def.Name, Color: c})
	}
	return p, nil
}

func (p *Palette) Set(m *Material) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.materials[m.Name] = m
}

func (p *Palette) Get(name string) *Material {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.materials[name]
}

// ColorFor returns the material's color, or Fallback for unknown names.
func (p *Palette) ColorFor(name string) rl.Color {
	if m := p.Get(name); m != nil {
		return m.Color
	}
	return p.Fallback
}

func (p *Palette) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.materials)
}
