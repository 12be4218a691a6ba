// Stress test comparing the 3D grid caster with the planar chipmunk caster
// under a spinning multi-point hitbox.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	"shapecast/internal/components"
	"shapecast/internal/engine"
	"shapecast/internal/hitbox"
	"shapecast/internal/physics"
	"shapecast/internal/planar"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/profile"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

type result struct {
	caster  string
	targets int
	perTick time.Duration
	updates int
	hits    int
}

func main() {
	ticks := flag.Int("ticks", 600, "heartbeat steps per run")
	points := flag.Int("points", 8, "emission points on the blade")
	shape := flag.String("shape", "ray", "cast shape: ray, block or sphere")
	cpuProfile := flag.Bool("cpuprofile", false, "write a CPU profile to the working directory")
	flag.Parse()

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	cd, err := castData(*shape)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("sweepbench: %d ticks, %d points, %s", *ticks, *points, cd.Shape)))

	// Test various target counts
	testCounts := []int{100, 500, 1000, 2000, 5000}

	var results []result
	for _, count := range testCounts {
		for _, name := range []string{"world", "planar"} {
			r, err := run(name, count, *ticks, *points, cd)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %d: %v\n", name, count, err)
				continue
			}
			results = append(results, r)
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("caster", "targets", "per tick", "updates", "hits").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range results {
		t.Row(r.caster, strconv.Itoa(r.targets), r.perTick.Round(time.Microsecond).String(), strconv.Itoa(r.updates), strconv.Itoa(r.hits))
	}
	fmt.Println(t.Render())
}

func castData(shape string) (hitbox.CastData, error) {
	s, err := hitbox.ParseCastShape(shape)
	if err != nil {
		return hitbox.CastData{}, err
	}
	switch s {
	case hitbox.Blockcast:
		return hitbox.NewBlockcast(rl.Vector3{X: 0.3, Y: 0.3, Z: 0.3}), nil
	case hitbox.Spherecast:
		return hitbox.NewSpherecast(0.2), nil
	}
	return hitbox.DefaultCastData(), nil
}

type caster interface {
	hitbox.Caster
	AddTree(root *engine.GameObject)
	Attach(ticks engine.TickSource)
	Detach()
}

// scatter places count colliders in a disc the blade sweeps through.
func scatter(rng *rand.Rand, count int) []*engine.GameObject {
	spawn := float32(10.0) + float32(count)/100.0
	targets := make([]*engine.GameObject, count)
	for i := range targets {
		g := engine.NewGameObject(fmt.Sprintf("Target_%d", i))
		angle := rng.Float64() * 2 * math.Pi
		dist := float32(rng.Float64()) * spawn
		g.Transform.Position = rl.Vector3{
			X: float32(math.Cos(angle)) * dist,
			Y: 1,
			Z: float32(math.Sin(angle)) * dist,
		}
		if i%2 == 0 {
			g.AddComponent(components.NewSphereCollider(0.3 + rng.Float32()*0.4))
		} else {
			s := 0.4 + rng.Float32()*0.6
			g.AddComponent(components.NewBoxCollider(rl.Vector3{X: s, Y: 2, Z: s}))
			g.Transform.Rotation.Y = rng.Float32() * 360
		}
		targets[i] = g
	}
	return targets
}

func run(name string, count, ticks, points int, cd hitbox.CastData) (result, error) {
	rng := rand.New(rand.NewSource(42)) // Consistent results

	var c caster
	switch name {
	case "world":
		c = physics.NewWorld()
	case "planar":
		c = planar.NewSpace()
	default:
		return result{}, fmt.Errorf("unknown caster %q", name)
	}

	hb := engine.NewHeartbeat()
	c.Attach(hb)
	defer c.Detach()

	for _, g := range scatter(rng, count) {
		c.AddTree(g)
	}

	sword := engine.NewGameObject("Sword")
	sword.Transform.Position.Y = 1
	sword.AddComponent(&components.Rotator{Speed: 360, Axis: "y"})
	reach := float32(10.0) + float32(count)/100.0
	for i := 1; i <= points; i++ {
		sword.AddComponent(components.NewDmgPoint(rl.Vector3{X: reach * float32(i) / float32(points)}))
	}

	h, err := hitbox.New(sword, c, hb, hitbox.WithCastData(cd), hitbox.WithFilterHitParts(true))
	if err != nil {
		return result{}, err
	}
	defer h.Destroy()

	r := result{caster: name, targets: count}
	h.OnUpdate(func(float32) { r.updates++ })
	h.OnHit(func(physics.RaycastHit, *hitbox.Segment) { r.hits++ })
	h.HitStart()

	const dt = float32(1.0 / 60)
	start := time.Now()
	for i := 0; i < ticks; i++ {
		sword.Update(dt)
		hb.Step(dt)
	}
	r.perTick = time.Since(start) / time.Duration(ticks)
	if err := h.Err(); err != nil {
		return r, err
	}
	return r, nil
}
