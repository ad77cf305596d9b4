// Package main provides a system volume plugin for macOS. It adjusts
// the output volume in configurable steps via AppleScript.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action  string          `json:"action"`
	Fingers int             `json:"fingers"`
	Params  json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// params holds the optional per-binding configuration.
type params struct {
	Step float64 `json:"step"`
}

// defaultStep is the volume change per trigger, as a fraction of full
// volume.
const defaultStep = 0.05

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	step := defaultStep
	if len(req.Params) > 0 {
		var p params
		if err := json.Unmarshal(req.Params, &p); err == nil && p.Step > 0 {
			step = p.Step
		}
	}

	var direction float64
	switch req.Action {
	case "volume_up":
		direction = 1
	case "volume_down":
		direction = -1
	default:
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	newVolume, err := adjustVolume(direction * step)
	if err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}

	data, _ := json.Marshal(map[string]float64{"volume": newVolume})
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: true,
		Data:    data,
	})
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: false,
		Error:   errMsg,
	})
}

// adjustVolume shifts the output volume by delta (fraction of full
// scale, clamped to [0, 1]) and returns the new level.
func adjustVolume(delta float64) (float64, error) {
	current, err := currentVolume()
	if err != nil {
		return 0, err
	}

	target := current + delta
	if target < 0 {
		target = 0
	}
	if target > 1 {
		target = 1
	}

	script := fmt.Sprintf("set volume output volume %d", int(target*100+0.5))
	if err := runAppleScript(script); err != nil {
		return 0, err
	}

	return target, nil
}

// currentVolume reads the output volume as a fraction of full scale.
func currentVolume() (float64, error) {
	cmd := exec.Command("osascript", "-e", "output volume of (get volume settings)")
	output, err := cmd.Output()
	if err != nil {
		return 0, err
	}

	level, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return 0, fmt.Errorf("unexpected volume output %q: %w", output, err)
	}

	return float64(level) / 100, nil
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
