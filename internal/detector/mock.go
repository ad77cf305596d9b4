package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// fingerColumns is the x position of each non-thumb finger, index to pinky.
var fingerColumns = [4]float64{0.58, 0.52, 0.46, 0.40}

// fingerJoints lists the MCP landmark index of each non-thumb finger;
// PIP, DIP and tip follow consecutively.
var fingerJoints = [4]int{IndexMCP, MiddleMCP, RingMCP, PinkyMCP}

// FingerPoseLandmarks returns a preset right-hand HandLandmarks with the
// given number of fingers raised (0-5). Fingers are raised index-first;
// the thumb is raised only for a count of 5. Y grows downward, so a
// raised fingertip sits above (smaller y than) its PIP joint; a raised
// thumb extends left of its IP joint (smaller x).
func FingerPoseLandmarks(count int) HandLandmarks {
	if count < 0 {
		count = 0
	}
	if count > 5 {
		count = 5
	}

	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.85}

	// Thumb chain extends toward smaller x.
	landmarks.Points[ThumbCMC] = Point3D{X: 0.42, Y: 0.78}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.38, Y: 0.74}
	landmarks.Points[ThumbIP] = Point3D{X: 0.34, Y: 0.70}
	if count == 5 {
		landmarks.Points[ThumbTip] = Point3D{X: 0.28, Y: 0.68}
	} else {
		// Tucked across the palm, tip right of the IP joint.
		landmarks.Points[ThumbTip] = Point3D{X: 0.40, Y: 0.70}
	}

	raised := count
	if raised > 4 {
		raised = 4
	}

	for f := 0; f < 4; f++ {
		x := fingerColumns[f]
		mcp := fingerJoints[f]

		landmarks.Points[mcp] = Point3D{X: x, Y: 0.65}
		landmarks.Points[mcp+1] = Point3D{X: x, Y: 0.55} // PIP

		if f < raised {
			landmarks.Points[mcp+2] = Point3D{X: x, Y: 0.45} // DIP
			landmarks.Points[mcp+3] = Point3D{X: x, Y: 0.35} // tip
		} else {
			// Curled: tip folds back below the PIP joint.
			landmarks.Points[mcp+2] = Point3D{X: x, Y: 0.60, Z: -0.03}
			landmarks.Points[mcp+3] = Point3D{X: x, Y: 0.62, Z: -0.02}
		}
	}

	return landmarks
}

// FistLandmarks returns a closed fist (zero fingers raised).
func FistLandmarks() HandLandmarks {
	return FingerPoseLandmarks(0)
}

// OpenPalmLandmarks returns an open palm (all five fingers raised).
func OpenPalmLandmarks() HandLandmarks {
	return FingerPoseLandmarks(5)
}
