// Package gesture turns hand landmarks into media-control events.
package gesture

import "github.com/ayusman/mudra/internal/detector"

// fingertips holds the tip landmark index of each non-thumb finger.
var fingertips = [4]int{detector.IndexTip, detector.MiddleTip, detector.RingTip, detector.PinkyTip}

// CountFingers returns how many fingers are raised on the hand (0-5).
//
// A non-thumb finger counts as raised when its tip sits above its PIP
// joint (smaller y, since image y grows downward). The thumb moves
// sideways rather than up, so it counts when its tip sits left of its
// IP joint (smaller x). The raw comparison is returned as-is: partially
// occluded or sideways hands yield whatever the coordinates say.
func CountFingers(hand *detector.HandLandmarks) int {
	if hand == nil {
		return 0
	}

	count := 0

	if hand.Points[detector.ThumbTip].X < hand.Points[detector.ThumbIP].X {
		count++
	}

	for _, tip := range fingertips {
		if hand.Points[tip].Y < hand.Points[tip-2].Y {
			count++
		}
	}

	return count
}
