package capture

import "gocv.io/x/gocv"

// maxProbeIndex is the highest device index checked during enumeration.
const maxProbeIndex = 10

// CameraInfo describes a working camera device found by ProbeCameras.
type CameraInfo struct {
	Index  int
	Width  int
	Height int
	FPS    float64
}

// ProbeCameras checks device indices [0, max) and returns those that
// open and yield a frame, with their reported resolution and FPS.
func ProbeCameras(max int) []CameraInfo {
	if max <= 0 {
		max = maxProbeIndex
	}

	var cameras []CameraInfo

	for i := 0; i < max; i++ {
		capture, err := gocv.OpenVideoCapture(i)
		if err != nil {
			continue
		}

		if verifyReadable(capture) {
			cameras = append(cameras, CameraInfo{
				Index:  i,
				Width:  int(capture.Get(gocv.VideoCaptureFrameWidth)),
				Height: int(capture.Get(gocv.VideoCaptureFrameHeight)),
				FPS:    capture.Get(gocv.VideoCaptureFPS),
			})
		}

		capture.Close()
	}

	return cameras
}
