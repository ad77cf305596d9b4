// Package config loads and persists application settings as a JSON file.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
)

// DefaultFileName is the config file name inside the data directory.
const DefaultFileName = "config.json"

// Config holds application settings. Fields mutated from the UI are
// guarded by the embedded mutex; use the accessors for those.
type Config struct {
	mu sync.RWMutex

	// Video source selection
	Source        capture.SourceType `json:"source"`
	CameraIndex   int                `json:"camera_index"`
	RTSPURL       string             `json:"rtsp_url"`
	RTSPTransport string             `json:"rtsp_transport"`
	VideoPath     string             `json:"video_path"`

	// Detection
	MaxHands        int     `json:"max_hands"`
	MinConfidence   float64 `json:"min_confidence"`
	MotionThreshold float64 `json:"motion_threshold"`

	// Gesture dispatch
	CooldownSeconds float64 `json:"cooldown_seconds"`
	VolumeStep      float64 `json:"volume_step"`

	// Surfaces
	HTTPAddr  string `json:"http_addr"`
	PluginDir string `json:"plugin_dir"`
}

// Default returns a Config with the stock settings.
func Default() *Config {
	return &Config{
		Source:          capture.SourceUSB,
		CameraIndex:     0,
		RTSPTransport:   "tcp",
		MaxHands:        1,
		MinConfidence:   0.7,
		MotionThreshold: 1.0,
		CooldownSeconds: 2.0,
		VolumeStep:      0.05,
		HTTPAddr:        ":8080",
	}
}

// Load reads the config file at path, returning defaults when the file
// is missing or unreadable.
func Load(path string) *Config {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return Default()
	}

	return cfg
}

// Save writes the config as JSON to path, creating parent directories.
func (c *Config) Save(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// CaptureSource builds the capture.Source described by this config.
func (c *Config) CaptureSource() capture.Source {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return capture.Source{
		Type:      c.Source,
		DeviceID:  c.CameraIndex,
		URL:       c.RTSPURL,
		Transport: c.RTSPTransport,
		Path:      c.VideoPath,
	}
}

// Cooldown returns the configured cooldown window as a Duration.
func (c *Config) Cooldown() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.CooldownSeconds * float64(time.Second))
}

// SetSource switches the active video source.
func (c *Config) SetSource(s capture.SourceType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Source = s
}

// SetCameraIndex sets the USB device index.
func (c *Config) SetCameraIndex(idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CameraIndex = idx
}

// SetVideoPath sets the video file path for the file source.
func (c *Config) SetVideoPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.VideoPath = path
}

// SetRTSPURL sets the network camera stream URL.
func (c *Config) SetRTSPURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RTSPURL = url
}

// SetRTSPTransport sets the RTSP transport, tcp or udp.
func (c *Config) SetRTSPTransport(transport string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RTSPTransport = transport
}

// SetCooldownSeconds updates the cooldown window. Values <= 0 are ignored.
func (c *Config) SetCooldownSeconds(s float64) {
	if s <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CooldownSeconds = s
}

// DataDir returns the application data directory (~/.mudra), creating
// it if needed.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, ".mudra")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	return dir, nil
}
