// Package main provides a media key plugin for macOS. It drives the
// play/pause, next, and previous media keys via AppleScript.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
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

// Media key codes as seen by System Events.
const (
	keyPlayPause = 100 // F8
	keyNext      = 101 // F9
	keyPrevious  = 98  // F7
)

// actionKeys maps action names to media key codes. Play and pause both
// send the toggle key, the player resolves which one it means.
var actionKeys = map[string]int{
	"play":     keyPlayPause,
	"pause":    keyPlayPause,
	"next":     keyNext,
	"previous": keyPrevious,
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	keyCode, ok := actionKeys[req.Action]
	if !ok {
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	if err := pressKey(keyCode); err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}

	writeSuccessResponse()
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{
		Success: false,
		Error:   errMsg,
	})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

// pressKey sends a key code through System Events.
func pressKey(code int) error {
	script := fmt.Sprintf("tell application \"System Events\"\n\tkey code %d\nend tell", code)
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
