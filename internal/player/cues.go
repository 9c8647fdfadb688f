package player

import "time"

// Cue is a point in playback time that fires a named signal.
type Cue struct {
	At     time.Duration
	Signal string
}

// Exhausted is the cursor value once every cue has fired.
const Exhausted = -1

// CueScheduler walks a time-ordered cue list exactly once.
// It is not a priority queue: seeking backwards does not re-arm cues.
type CueScheduler struct {
	cues   []Cue
	cursor int
}

// NewCueScheduler copies cues, which must already be sorted by At.
func NewCueScheduler(cues []Cue) *CueScheduler {
	s := &CueScheduler{cues: append([]Cue(nil), cues...), cursor: Exhausted}
	if len(s.cues) > 0 {
		s.cursor = 0
	}
	return s
}

// Advance returns, in order, every cue due at pos that has not fired yet.
func (s *CueScheduler) Advance(pos time.Duration) []Cue {
	var fired []Cue
	for s.cursor != Exhausted && s.cues[s.cursor].At <= pos {
		fired = append(fired, s.cues[s.cursor])
		s.cursor++
		if s.cursor == len(s.cues) {
			s.cursor = Exhausted
		}
	}
	return fired
}

// Cursor is the index of the next unfired cue, or Exhausted.
func (s *CueScheduler) Cursor() int {
	return s.cursor
}
