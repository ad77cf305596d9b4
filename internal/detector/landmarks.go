// Package detector provides hand landmark detection for the Mudra media controller.
package detector

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Hand landmark indices following the MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a landmark position. X and Y are normalized to the
// frame (0.0-1.0, origin at the top-left), Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks for one detected hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// connections pairs landmark indices that form the hand skeleton,
// mirroring MediaPipe's HAND_CONNECTIONS.
var connections = [][2]int{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{IndexMCP, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{MiddleMCP, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{RingMCP, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
	{Wrist, PinkyMCP},
}

var (
	skeletonColor = color.RGBA{R: 0, G: 200, B: 0}
	jointColor    = color.RGBA{R: 0, G: 0, B: 230}
)

// DrawLandmarks renders the hand skeleton onto the frame for the live
// preview. Landmark coordinates are denormalized against the frame size.
func DrawLandmarks(frame *gocv.Mat, hand *HandLandmarks) {
	if frame == nil || frame.Empty() || hand == nil {
		return
	}

	w := frame.Cols()
	h := frame.Rows()

	toPixel := func(p Point3D) image.Point {
		return image.Point{X: int(p.X * float64(w)), Y: int(p.Y * float64(h))}
	}

	for _, c := range connections {
		gocv.Line(frame, toPixel(hand.Points[c[0]]), toPixel(hand.Points[c[1]]), skeletonColor, 2)
	}

	for i := 0; i < NumLandmarks; i++ {
		gocv.Circle(frame, toPixel(hand.Points[i]), 3, jointColor, -1)
	}
}
