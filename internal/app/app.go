// Package app wires the capture, detection, and action pipeline together.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active detection.
	ActiveFPS = 15
	// IdleTimeout is how long without motion before dropping back to idle.
	IdleTimeout = 2 * time.Second
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	PluginDir    string
	Source       capture.Source
	Cooldown     time.Duration
	MotionThresh float64
	Detector     detector.Config
}

// EventListener receives recognized gesture events.
type EventListener func(gesture.Event)

// FrameListener receives annotated preview frames as JPEG bytes.
type FrameListener func(jpeg []byte)

// App orchestrates frame capture, hand detection, finger counting, and
// plugin action execution.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	cooldown   *gesture.Cooldown
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor
	enabled    bool
	mu         sync.RWMutex
	stopCh     chan struct{}

	subMu      sync.RWMutex
	eventSubs  []EventListener
	frameSubs  []FrameListener
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // 1% pixel change
	}

	detCfg := config.Detector
	if detCfg.MaxHands <= 0 {
		detCfg = detector.DefaultConfig()
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.Source),
		motion:     capture.NewMotionDetector(motionThreshold),
		cooldown:   gesture.NewCooldown(config.Cooldown),
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(0),
		enabled:    true,
	}

	// Try MediaPipe first, fall back to the mock detector.
	if mp, err := detector.NewMediaPipeDetector(detCfg); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables gesture detection. The preview stream
// keeps running either way.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use. Only valid before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetCooldown changes the debounce window for triggered actions.
func (a *App) SetCooldown(window time.Duration) {
	a.cooldown.SetWindow(window)
}

// OnEvent registers a listener for recognized gesture events.
func (a *App) OnEvent(fn EventListener) {
	a.subMu.Lock()
	defer a.subMu.Unlock()
	a.eventSubs = append(a.eventSubs, fn)
}

// OnFrame registers a listener for annotated preview frames.
func (a *App) OnFrame(fn FrameListener) {
	a.subMu.Lock()
	defer a.subMu.Unlock()
	a.frameSubs = append(a.frameSubs, fn)
}

func (a *App) notifyEvent(ev gesture.Event) {
	a.subMu.RLock()
	defer a.subMu.RUnlock()
	for _, fn := range a.eventSubs {
		fn(ev)
	}
}

func (a *App) publishFrame(jpeg []byte) {
	a.subMu.RLock()
	defer a.subMu.RUnlock()
	for _, fn := range a.frameSubs {
		fn(jpeg)
	}
}

func (a *App) hasFrameSubs() bool {
	a.subMu.RLock()
	defer a.subMu.RUnlock()
	return len(a.frameSubs) > 0
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}

// IsRunning reports whether the pipeline is running.
func (a *App) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Store returns the backing store, which may be nil.
func (a *App) Store() *store.Store {
	return a.config.Store
}
