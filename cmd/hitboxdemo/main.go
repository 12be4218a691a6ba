// Command hitboxdemo opens a window with a spinning sword whose hitbox is
// configured from a YAML profile that reloads on save.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/profile"
)

func main() {
	scenePath := flag.String("scene", "assets/scenes/demo.json", "scene file")
	profilePath := flag.String("hitbox", "assets/hitboxes/sword.yaml", "hitbox profile")
	materialsPath := flag.String("materials", "assets/materials.json", "material palette")
	casterName := flag.String("caster", "world", "cast provider: world or planar")
	cpuProfile := flag.Bool("cpuprofile", false, "write a CPU profile to the working directory")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	d, err := NewDemo(Options{
		Scene:     *scenePath,
		Hitbox:    *profilePath,
		Materials: *materialsPath,
		Caster:    *casterName,
	})
	if err != nil {
		log.Fatalf("hitboxdemo: %v", err)
	}
	d.Run()
}
