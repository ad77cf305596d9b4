package capture

import (
	"testing"
)

func TestNewCamera_Defaults(t *testing.T) {
	tests := []struct {
		name   string
		source Source
	}{
		{
			name:   "usb device 0",
			source: Source{Type: SourceUSB, DeviceID: 0},
		},
		{
			name:   "usb device 1",
			source: Source{Type: SourceUSB, DeviceID: 1},
		},
		{
			name:   "rtsp stream",
			source: Source{Type: SourceRTSP, URL: "rtsp://example/stream"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.source)

			if cam == nil {
				t.Fatal("NewCamera returned nil")
			}

			if got := cam.FPS(); got != DefaultFPS {
				t.Errorf("FPS() = %d, want %d (default)", got, DefaultFPS)
			}

			if cam.IsOpen() {
				t.Error("camera should not be open initially")
			}

			if cam.IsFile() {
				t.Error("IsFile() should be false for non-file sources")
			}
		})
	}
}

func TestNewCamera_FileSource(t *testing.T) {
	cam := NewCamera(Source{Type: SourceFile, Path: "clip.mp4"})

	if !cam.IsFile() {
		t.Error("IsFile() should be true for file sources")
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(Source{Type: SourceUSB})

	tests := []struct {
		name    string
		fps     int
		wantFPS int
	}{
		{name: "set to 10", fps: 10, wantFPS: 10},
		{name: "set to 30", fps: 30, wantFPS: 30},
		{name: "set to 1", fps: 1, wantFPS: 1},
		{name: "set to 0 keeps previous", fps: 0, wantFPS: 1},
		{name: "negative keeps previous", fps: -5, wantFPS: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)

			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
		})
	}
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(Source{Type: SourceUSB})

	_, err := cam.ReadFrame()
	if err != ErrCameraNotOpen {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(Source{Type: SourceUSB})

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on unopened camera should return nil, got: %v", err)
	}
}

func TestCamera_Open_MissingFile(t *testing.T) {
	cam := NewCamera(Source{Type: SourceFile, Path: "testdata/does-not-exist.mp4"})

	if err := cam.Open(); err == nil {
		t.Error("Open() should fail for a missing video file")
		cam.Close()
	}

	if cam.IsOpen() {
		t.Error("camera should not be open after a failed Open()")
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(Source{Type: SourceUSB, DeviceID: 0})

	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		if mat == nil || mat.Empty() {
			t.Error("ReadFrame() returned nil or empty mat")
		} else {
			mat.Close()
		}
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}
