// Package capture provides video frame acquisition using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultFPS    = 5
	DefaultWidth  = 640
	DefaultHeight = 480
)

// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// ErrNoCamera is returned when no working video source could be opened.
var ErrNoCamera = errors.New("no working camera found")

// SourceType selects where frames come from.
type SourceType string

const (
	// SourceUSB reads from a local camera device by index.
	SourceUSB SourceType = "usb"
	// SourceRTSP reads from a network camera stream.
	SourceRTSP SourceType = "rtsp"
	// SourceFile reads from a video file, looping at EOF.
	SourceFile SourceType = "file"
)

// Source describes a video source.
type Source struct {
	Type      SourceType
	DeviceID  int    // USB device index
	URL       string // RTSP stream URL
	Transport string // RTSP transport, "tcp" or "udp"
	Path      string // video file path
}

// Camera defines the interface for frame source implementations.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
	// IsFile reports whether frames come from a video file. File frames
	// are not mirrored and loop at EOF instead of failing.
	IsFile() bool
}

// cameraImpl manages video capture from a USB camera, an RTSP stream or
// a video file using GoCV.
type cameraImpl struct {
	source  Source
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
	fps     int
}

// NewCamera creates a Camera for the given source.
// The default FPS is 5 for performance reasons.
func NewCamera(source Source) Camera {
	return &cameraImpl{
		source: source,
		fps:    DefaultFPS,
	}
}

// Open opens the video source. RTSP sources fall back to a USB camera
// when the stream cannot be opened; a failing USB index falls back to
// the first working probed index.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	var (
		capture *gocv.VideoCapture
		err     error
	)

	switch c.source.Type {
	case SourceFile:
		capture, err = openFile(c.source.Path)
	case SourceRTSP:
		capture, err = openRTSP(c.source.URL, c.source.Transport)
		if err != nil {
			log.Printf("RTSP source failed (%v), falling back to USB camera", err)
			capture, err = openUSB(c.source.DeviceID)
		}
	default:
		capture, err = openUSB(c.source.DeviceID)
	}

	if err != nil {
		return err
	}

	if c.source.Type == SourceUSB || c.source.Type == "" {
		// Pin the resolution for predictable detection performance.
		capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
		capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
		capture.Set(gocv.VideoCaptureFPS, float64(c.fps))
	}

	c.capture = capture
	c.running = true

	return nil
}

// openFile opens a video file and verifies it yields frames.
func openFile(path string) (*gocv.VideoCapture, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("video file not found: %w", err)
	}

	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video file: %w", err)
	}

	if !verifyReadable(capture) {
		capture.Close()
		return nil, errors.New("video file opened but yields no frames")
	}

	// Rewind past the verification read.
	capture.Set(gocv.VideoCapturePosFrames, 0)

	return capture, nil
}

// openRTSP opens a network camera stream via the FFMPEG backend.
func openRTSP(url, transport string) (*gocv.VideoCapture, error) {
	if url == "" {
		return nil, errors.New("rtsp url not configured")
	}
	if transport == "" {
		transport = "tcp"
	}

	os.Setenv("OPENCV_FFMPEG_CAPTURE_OPTIONS", "rtsp_transport;"+transport)

	capture, err := gocv.OpenVideoCaptureWithAPI(url, gocv.VideoCaptureFFmpeg)
	if err != nil {
		return nil, fmt.Errorf("open rtsp stream: %w", err)
	}

	// Keep one frame buffered to reduce latency.
	capture.Set(gocv.VideoCaptureBufferSize, 1)

	if !verifyReadable(capture) {
		capture.Close()
		return nil, errors.New("rtsp stream opened but yields no frames")
	}

	return capture, nil
}

// openUSB opens a local device, probing other indices when the
// configured one does not work.
func openUSB(deviceID int) (*gocv.VideoCapture, error) {
	capture, err := gocv.OpenVideoCapture(deviceID)
	if err == nil {
		if verifyReadable(capture) {
			return capture, nil
		}
		capture.Close()
	}

	log.Printf("USB camera %d not available, probing other devices", deviceID)

	for _, info := range ProbeCameras(maxProbeIndex) {
		if info.Index == deviceID {
			continue
		}
		capture, err := gocv.OpenVideoCapture(info.Index)
		if err == nil {
			log.Printf("using USB camera %d as fallback", info.Index)
			return capture, nil
		}
	}

	return nil, ErrNoCamera
}

// verifyReadable reads one test frame to confirm the source works.
func verifyReadable(capture *gocv.VideoCapture) bool {
	mat := gocv.NewMat()
	defer mat.Close()
	return capture.Read(&mat) && !mat.Empty()
}

// Close closes the video source and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame from the source.
// The caller is responsible for closing the returned Mat.
// For video files, EOF rewinds to the beginning and reads again.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		if c.source.Type == SourceFile {
			c.capture.Set(gocv.VideoCapturePosFrames, 0)
			if c.capture.Read(&mat) && !mat.Empty() {
				return &mat, nil
			}
		}
		mat.Close()
		return nil, errors.New("failed to read frame from source")
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	return &mat, nil
}

// SetFPS sets the frames per second for capture.
// Values less than or equal to 0 are ignored.
func (c *cameraImpl) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps

	if c.capture != nil && c.source.Type != SourceFile {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current frames per second setting.
func (c *cameraImpl) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

// IsOpen returns true if the source is currently open.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

// IsFile reports whether this camera reads from a video file.
func (c *cameraImpl) IsFile() bool {
	return c.source.Type == SourceFile
}
