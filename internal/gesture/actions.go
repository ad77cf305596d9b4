package gesture

import "time"

// Action is a symbolic media-control action triggered by a gesture.
type Action string

const (
	ActionPause      Action = "pause"
	ActionNext       Action = "next"
	ActionPrevious   Action = "previous"
	ActionVolumeUp   Action = "volume_up"
	ActionVolumeDown Action = "volume_down"
	ActionPlay       Action = "play"
)

// DefaultActions maps a finger count to its symbolic action.
var DefaultActions = map[int]Action{
	0: ActionPause,
	1: ActionNext,
	2: ActionPrevious,
	3: ActionVolumeUp,
	4: ActionVolumeDown,
	5: ActionPlay,
}

// ActionFor returns the action bound to a finger count, or false when
// the count has no binding.
func ActionFor(fingers int) (Action, bool) {
	a, ok := DefaultActions[fingers]
	return a, ok
}

// Event is one recognized gesture: a finger count paired with the
// action it resolved to and the time it was observed.
type Event struct {
	Fingers int       `json:"fingers"`
	Action  Action    `json:"action"`
	Time    time.Time `json:"time"`
}
