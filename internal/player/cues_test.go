package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ms(n int64) time.Duration { return time.Duration(n) * time.Millisecond }

func TestCueSchedulerCommercialScenario(t *testing.T) {
	s := NewCueScheduler([]Cue{
		{At: ms(300000), Signal: "Commercial"},
		{At: ms(600000), Signal: "Commercial"},
	})

	var firedAt []int64
	for _, pos := range []int64{100000, 300000, 450000, 600000, 700000} {
		for range s.Advance(ms(pos)) {
			firedAt = append(firedAt, pos)
		}
	}

	assert.Equal(t, []int64{300000, 600000}, firedAt)
	assert.Equal(t, Exhausted, s.Cursor())
}

func TestCueSchedulerEmptyStartsExhausted(t *testing.T) {
	s := NewCueScheduler(nil)
	assert.Equal(t, Exhausted, s.Cursor())
	assert.Empty(t, s.Advance(time.Hour))
	assert.Equal(t, Exhausted, s.Cursor())
}

func TestCueSchedulerFiresEachOnceInOrderNeverEarly(t *testing.T) {
	cues := []Cue{
		{At: ms(10), Signal: "a"},
		{At: ms(20), Signal: "b"},
		{At: ms(20), Signal: "c"},
		{At: ms(35), Signal: "d"},
		{At: ms(80), Signal: "e"},
	}
	s := NewCueScheduler(cues)

	var fired []Cue
	for pos := int64(0); pos <= 100; pos += 7 {
		for _, c := range s.Advance(ms(pos)) {
			assert.LessOrEqual(t, c.At, ms(pos), "cue %s fired early", c.Signal)
			fired = append(fired, c)
		}
	}

	assert.Equal(t, cues, fired)
	assert.Equal(t, Exhausted, s.Cursor())
}

func TestCueSchedulerCatchesUpAfterJump(t *testing.T) {
	s := NewCueScheduler([]Cue{
		{At: ms(100), Signal: "a"},
		{At: ms(200), Signal: "b"},
		{At: ms(300), Signal: "c"},
	})

	got := s.Advance(ms(250))
	assert.Equal(t, []Cue{{At: ms(100), Signal: "a"}, {At: ms(200), Signal: "b"}}, got)
	assert.Equal(t, 2, s.Cursor())

	// a backwards seek does not re-arm fired cues
	assert.Empty(t, s.Advance(ms(50)))
	assert.Equal(t, 2, s.Cursor())
}

func TestCueSchedulerCopiesInput(t *testing.T) {
	cues := []Cue{{At: ms(5), Signal: "a"}}
	s := NewCueScheduler(cues)
	cues[0].Signal = "changed"

	assert.Equal(t, "a", s.Advance(ms(5))[0].Signal)
}

func TestCueSchedulerSeekBackDoesNotRearm(t *testing.T) {
	s := NewCueScheduler([]Cue{{At: ms(1000), Signal: "a"}, {At: ms(5000), Signal: "b"}})

	assert.Len(t, s.Advance(ms(1500)), 1)
	assert.Empty(t, s.Advance(ms(200)))
	assert.Empty(t, s.Advance(ms(1500)))
	assert.Equal(t, 1, s.Cursor())
}
