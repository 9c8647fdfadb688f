package ui

// Action is a user command from the keyboard, mouse or remote.
type Action int

const (
	ActionNone Action = iota
	ActionPlay
	ActionPause
	ActionPlayPause
	ActionStop
	ActionFastForward
	ActionRewind
	ActionFullscreen
)

func (a Action) String() string {
	switch a {
	case ActionPlay:
		return "play"
	case ActionPause:
		return "pause"
	case ActionPlayPause:
		return "play-pause"
	case ActionStop:
		return "stop"
	case ActionFastForward:
		return "fast-forward"
	case ActionRewind:
		return "rewind"
	case ActionFullscreen:
		return "fullscreen"
	default:
		return "none"
	}
}
