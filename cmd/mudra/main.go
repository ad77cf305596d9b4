package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/ui"
)

func main() {
	fmt.Println("Mudra - Gesture Media Controller")

	dataDir, err := config.DataDir()
	if err != nil {
		log.Fatalf("Failed to get data directory: %v", err)
	}

	configPath := filepath.Join(dataDir, config.DefaultFileName)
	cfg := config.Load(configPath)

	st, err := store.New(filepath.Join(dataDir, "mudra.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if err := st.Bindings().SeedDefaults(); err != nil {
		log.Fatalf("Failed to seed default bindings: %v", err)
	}

	pluginDir := cfg.PluginDir
	if pluginDir == "" {
		pluginDir = findPluginDir(dataDir)
	}

	core := app.New(app.Config{
		Store:        st,
		PluginDir:    pluginDir,
		Source:       cfg.CaptureSource(),
		Cooldown:     cfg.Cooldown(),
		MotionThresh: cfg.MotionThreshold,
		Detector: detector.Config{
			MaxHands:      cfg.MaxHands,
			MinConfidence: cfg.MinConfidence,
		},
	})

	if err := core.DiscoverPlugins(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	} else {
		log.Printf("Discovered %d plugins in %s", len(core.PluginManager().List()), pluginDir)
	}

	srv := server.New(server.Config{
		Store: st,
		App:   core,
	})

	go func() {
		addr := cfg.HTTPAddr
		if addr == "" {
			addr = ":8080"
		}
		log.Printf("Starting HTTP server on %s", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	if err := core.Start(); err != nil {
		log.Printf("Pipeline not started: %v", err)
	}

	// Blocks until the window closes.
	ui.CreateApp(core, cfg, configPath).Run()

	core.Stop()
}

// findPluginDir searches for the plugins directory in common locations.
// It checks "plugins", "../plugins", next to the executable, and the
// data directory. Returns the first that exists, else the data dir path.
func findPluginDir(dataDir string) string {
	candidates := []string{"plugins", filepath.Join("..", "plugins")}

	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "plugins"))
	}
	candidates = append(candidates, filepath.Join(dataDir, "plugins"))

	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	return filepath.Join(dataDir, "plugins")
}
