package app

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// runPipeline is the main loop that processes frames from the camera.
//
// Pipeline logic:
// 1. Start in idle mode (5 FPS)
// 2. On motion, switch to active mode (15 FPS)
// 3. Mirror live frames so the preview behaves like a mirror
// 4. Detect hands and count raised fingers
// 5. Debounce through the cooldown, then execute the bound plugin action
// 6. After 2s without motion, drop back to idle mode
func (a *App) runPipeline(stopCh chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Mirror live frames only. File playback stays as recorded.
			if !a.camera.IsFile() {
				gocv.Flip(*frame, frame, 1)
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					ticker.Reset(time.Second / time.Duration(ActiveFPS))
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > IdleTimeout {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					ticker.Reset(time.Second / time.Duration(IdleFPS))
					log.Println("Switched to idle mode")
				}
			}

			if !activeMode || !a.IsEnabled() {
				a.publishJPEG(frame)
				frame.Close()
				continue
			}

			hands, err := a.Detector().Detect(frame)
			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				a.publishJPEG(frame)
				frame.Close()
				continue
			}

			fingers := -1
			if len(hands) > 0 {
				hand := &hands[0]
				fingers = gesture.CountFingers(hand)

				detector.DrawLandmarks(frame, hand)
				gocv.PutText(frame, fmt.Sprintf("fingers: %d", fingers),
					image.Pt(10, 30), gocv.FontHersheySimplex, 0.8,
					color.RGBA{G: 255, A: 255}, 2)
			}

			a.publishJPEG(frame)
			frame.Close()

			if fingers < 0 {
				continue
			}

			action, ok := gesture.ActionFor(fingers)
			if !ok {
				continue
			}

			if !a.cooldown.Allow() {
				continue
			}

			a.executeAction(fingers, action)
		}
	}
}

// publishJPEG encodes the frame and fans it out to frame listeners.
func (a *App) publishJPEG(frame *gocv.Mat) {
	if !a.hasFrameSubs() {
		return
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return
	}
	defer buf.Close()

	// Copy out, the NativeByteBuffer is freed on Close.
	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	a.publishFrame(data)
}

// executeAction resolves the binding for a finger count and runs its
// plugin, then records the event.
func (a *App) executeAction(fingers int, fallback gesture.Action) {
	pluginName := ""
	actionName := string(fallback)
	var params json.RawMessage

	if a.config.Store != nil {
		binding, err := a.config.Store.Bindings().GetByFingers(fingers)
		if err != nil {
			log.Printf("Error loading binding for %d fingers: %v", fingers, err)
		} else if binding != nil {
			if !binding.Enabled {
				log.Printf("Binding for %d fingers is disabled, skipping", fingers)
				return
			}
			pluginName = binding.PluginName
			actionName = binding.ActionName
			params = binding.Params
		}
	}

	if pluginName == "" {
		pluginName = a.pluginForAction(actionName)
	}

	success := a.runPlugin(pluginName, actionName, fingers, params)

	ev := gesture.Event{
		Fingers: fingers,
		Action:  gesture.Action(actionName),
		Time:    time.Now(),
	}

	if a.config.Store != nil {
		err := a.config.Store.Events().Append(&store.Event{
			Fingers: fingers,
			Action:  actionName,
			Success: success,
		})
		if err != nil {
			log.Printf("Error recording event: %v", err)
		}
	}

	a.notifyEvent(ev)
}

// pluginForAction finds a discovered plugin that supports the action.
func (a *App) pluginForAction(action string) string {
	for _, p := range a.pluginMgr.List() {
		if p.Supports(action) {
			return p.Manifest.Name
		}
	}
	return ""
}

// runPlugin executes the named plugin and reports success.
func (a *App) runPlugin(pluginName, action string, fingers int, params json.RawMessage) bool {
	if pluginName == "" {
		log.Printf("No plugin for action %q (%d fingers)", action, fingers)
		return false
	}

	p, err := a.pluginMgr.Get(pluginName)
	if err != nil {
		log.Printf("Plugin %q not found for action %q", pluginName, action)
		return false
	}

	resp, err := a.pluginExec.Execute(p, &plugin.Request{
		Action:  action,
		Fingers: fingers,
		Params:  params,
	})
	if err != nil {
		log.Printf("Plugin %s failed: %v", pluginName, err)
		return false
	}
	if !resp.Success {
		log.Printf("Plugin %s rejected action %q: %s", pluginName, action, resp.Error)
		return false
	}

	log.Printf("Executed %s via %s (%d fingers)", action, pluginName, fingers)
	return true
}
