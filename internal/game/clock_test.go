package game

import (
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-survive/internal/tuning"
)

func TestClockAt(t *testing.T) {
	tests := map[string]struct {
		tick      uint64
		expClock  Clock
		expString string
		expPeriod string
	}{
		"start": {
			tick:      0,
			expClock:  Clock{Day: 1, Hour: 7},
			expString: "7:00 AM, day 1",
			expPeriod: "morning",
		},
		"one tick": {
			tick:      1,
			expClock:  Clock{Day: 1, Hour: 7, Second: 15},
			expString: "7:00 AM, day 1",
			expPeriod: "morning",
		},
		"a minute": {
			tick:      4,
			expClock:  Clock{Day: 1, Hour: 7, Minute: 1},
			expString: "7:01 AM, day 1",
			expPeriod: "morning",
		},
		"noon": {
			tick:      5 * 240,
			expClock:  Clock{Day: 1, Hour: 12},
			expString: "12:00 PM, day 1",
			expPeriod: "afternoon",
		},
		"evening": {
			tick:      11*240 + 120,
			expClock:  Clock{Day: 1, Hour: 18, Minute: 30},
			expString: "6:30 PM, day 1",
			expPeriod: "evening",
		},
		"midnight rolls the day": {
			tick:      17 * 240,
			expClock:  Clock{Day: 2},
			expString: "12:00 AM, day 2",
			expPeriod: "night",
		},
		"dawn on day three": {
			tick:      (17+24+5)*240 + 45*4,
			expClock:  Clock{Day: 3, Hour: 5, Minute: 45},
			expString: "5:45 AM, day 3",
			expPeriod: "dawn",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := clockAt(tt.tick, 15)
			testutil.AssertEqual(t, "clock", c, tt.expClock)
			testutil.AssertEqual(t, "string", c.String(), tt.expString)
			testutil.AssertEqual(t, "period", c.Period(), tt.expPeriod)
		})
	}
}

func TestWorld_ClockFollowsTicks(t *testing.T) {
	tu := tuning.Default()
	tu.Clock.TickSeconds = 60 * 60
	w, _ := startWorld(t, WithTuning(tu))

	tickN(t, w, 3)
	testutil.AssertEqual(t, "clock", mustSnapshot(t, w).Clock, Clock{Day: 1, Hour: 10})
}
