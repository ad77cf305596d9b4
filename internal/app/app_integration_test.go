package app

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// writeFakePlugin installs a shell script plugin that always succeeds.
func writeFakePlugin(t *testing.T, pluginDir, name string, actions string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell script plugins not supported on windows")
	}

	dir := filepath.Join(pluginDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("create plugin dir: %v", err)
	}

	manifest := `{"name": "` + name + `", "version": "1.0.0", "executable": "` + name + `", "actions": ` + actions + `}`
	if err := os.WriteFile(filepath.Join(dir, "plugin.json"), []byte(manifest), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	script := "#!/bin/sh\ncat > /dev/null\necho '{\"success\": true}'\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0755); err != nil {
		t.Fatalf("write executable: %v", err)
	}
}

func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()

	tmpDir := t.TempDir()

	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.Bindings().SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults() error = %v", err)
	}

	pluginDir := filepath.Join(tmpDir, "plugins")
	writeFakePlugin(t, pluginDir, "mediakeys", `["play", "pause", "next", "previous"]`)
	writeFakePlugin(t, pluginDir, "volume", `["volume_up", "volume_down"]`)

	a := New(Config{
		Store:        s,
		PluginDir:    pluginDir,
		Source:       capture.Source{Type: capture.SourceUSB},
		MotionThresh: 0.05,
	})
	a.SetDetector(detector.NewMockDetector())

	if err := a.DiscoverPlugins(); err != nil {
		t.Fatalf("DiscoverPlugins() error = %v", err)
	}

	return a, s
}

func TestApp_DetectionToFingerCount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, _ := newTestApp(t)

	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.FingerPoseLandmarks(5)})
	a.SetDetector(mock)

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	hands, err := a.Detector().Detect(&frame)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(hands) == 0 {
		t.Fatal("no hands detected by mock detector")
	}

	fingers := gesture.CountFingers(&hands[0])
	if fingers != 5 {
		t.Fatalf("CountFingers() = %d, want 5", fingers)
	}

	action, ok := gesture.ActionFor(fingers)
	if !ok || action != gesture.ActionPlay {
		t.Errorf("ActionFor(5) = %q, want play", action)
	}
}

func TestApp_ExecuteAction_RecordsEventAndNotifies(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, s := newTestApp(t)

	var got []gesture.Event
	a.OnEvent(func(ev gesture.Event) {
		got = append(got, ev)
	})

	a.executeAction(5, gesture.ActionPlay)

	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	if got[0].Action != gesture.ActionPlay || got[0].Fingers != 5 {
		t.Errorf("event = %+v", got[0])
	}

	events, err := s.Events().Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("stored %d events, want 1", len(events))
	}
	if events[0].Action != "play" || !events[0].Success {
		t.Errorf("stored event = %+v", events[0])
	}
}

func TestApp_ExecuteAction_BindingResolvesPlugin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, s := newTestApp(t)

	a.executeAction(3, gesture.ActionVolumeUp)

	events, _ := s.Events().Recent(10)
	if len(events) != 1 {
		t.Fatalf("stored %d events, want 1", len(events))
	}
	if events[0].Action != "volume_up" {
		t.Errorf("action = %q, want volume_up", events[0].Action)
	}
	if !events[0].Success {
		t.Error("volume plugin should have succeeded")
	}
}

func TestApp_ExecuteAction_DisabledBindingSkipped(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, s := newTestApp(t)

	binding, _ := s.Bindings().GetByFingers(0)
	binding.Enabled = false
	if err := s.Bindings().Update(binding); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	notified := false
	a.OnEvent(func(gesture.Event) { notified = true })

	a.executeAction(0, gesture.ActionPause)

	if notified {
		t.Error("disabled binding should not trigger an event")
	}

	events, _ := s.Events().Recent(10)
	if len(events) != 0 {
		t.Errorf("stored %d events, want 0", len(events))
	}
}

func TestApp_CooldownSuppressesRepeats(t *testing.T) {
	a, _ := newTestApp(t)
	a.SetCooldown(time.Hour)

	if !a.cooldown.Allow() {
		t.Fatal("first trigger should pass the cooldown")
	}
	if a.cooldown.Allow() {
		t.Error("second trigger inside the window should be suppressed")
	}
}

func TestApp_SetEnabled(t *testing.T) {
	a, _ := newTestApp(t)

	if !a.IsEnabled() {
		t.Error("detection should start enabled")
	}

	a.SetEnabled(false)
	if a.IsEnabled() {
		t.Error("SetEnabled(false) should disable detection")
	}
}
