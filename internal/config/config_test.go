package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/capture"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Source != capture.SourceUSB {
		t.Errorf("Source = %q, want %q", cfg.Source, capture.SourceUSB)
	}
	if cfg.MinConfidence != 0.7 {
		t.Errorf("MinConfidence = %f, want 0.7", cfg.MinConfidence)
	}
	if cfg.MaxHands != 1 {
		t.Errorf("MaxHands = %d, want 1", cfg.MaxHands)
	}
	if cfg.CooldownSeconds != 2.0 {
		t.Errorf("CooldownSeconds = %f, want 2.0", cfg.CooldownSeconds)
	}
	if cfg.VolumeStep != 0.05 {
		t.Errorf("VolumeStep = %f, want 0.05", cfg.VolumeStep)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "nope.json"))

	if cfg == nil {
		t.Fatal("Load returned nil for missing file")
	}
	if cfg.CooldownSeconds != 2.0 {
		t.Errorf("missing file should yield defaults, CooldownSeconds = %f", cfg.CooldownSeconds)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.SetSource(capture.SourceRTSP)
	cfg.SetRTSPURL("rtsp://cam.local/stream")
	cfg.SetCooldownSeconds(3.5)
	cfg.SetCameraIndex(2)

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded := Load(path)

	if loaded.Source != capture.SourceRTSP {
		t.Errorf("Source = %q, want %q", loaded.Source, capture.SourceRTSP)
	}
	if loaded.RTSPURL != "rtsp://cam.local/stream" {
		t.Errorf("RTSPURL = %q", loaded.RTSPURL)
	}
	if loaded.CameraIndex != 2 {
		t.Errorf("CameraIndex = %d, want 2", loaded.CameraIndex)
	}
	if loaded.Cooldown() != 3500*time.Millisecond {
		t.Errorf("Cooldown() = %v, want 3.5s", loaded.Cooldown())
	}
}

func TestSetCooldownSeconds_Ignored(t *testing.T) {
	cfg := Default()

	cfg.SetCooldownSeconds(0)
	if cfg.CooldownSeconds != 2.0 {
		t.Errorf("zero cooldown should be ignored, got %f", cfg.CooldownSeconds)
	}

	cfg.SetCooldownSeconds(-1)
	if cfg.CooldownSeconds != 2.0 {
		t.Errorf("negative cooldown should be ignored, got %f", cfg.CooldownSeconds)
	}
}

func TestCaptureSource(t *testing.T) {
	cfg := Default()
	cfg.SetSource(capture.SourceFile)
	cfg.SetVideoPath("demo.mp4")

	src := cfg.CaptureSource()
	if src.Type != capture.SourceFile {
		t.Errorf("Type = %q, want %q", src.Type, capture.SourceFile)
	}
	if src.Path != "demo.mp4" {
		t.Errorf("Path = %q, want demo.mp4", src.Path)
	}
}
