package game

import "fmt"

const (
	clockStartDay  = 1
	clockStartHour = 7
	secondsPerHour = 60 * 60
	secondsPerDay  = 24 * secondsPerHour
)

// Clock is the in-game time of day.
type Clock struct {
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// clockAt is the time after tick ticks of tickSeconds each, counted from
// 07:00 on day 1.
func clockAt(tick uint64, tickSeconds int) Clock {
	elapsed := uint64(clockStartHour*secondsPerHour) + tick*uint64(tickSeconds)
	sec := elapsed % secondsPerDay
	return Clock{
		Day:    clockStartDay + int(elapsed/secondsPerDay),
		Hour:   int(sec / secondsPerHour),
		Minute: int(sec % secondsPerHour / 60),
		Second: int(sec % 60),
	}
}

// String formats the clock as "7:05 AM, day 1".
func (c Clock) String() string {
	hour, half := c.Hour, "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		half = "PM"
	case hour > 12:
		hour -= 12
		half = "PM"
	}
	return fmt.Sprintf("%d:%02d %s, day %d", hour, c.Minute, half, c.Day)
}

// Period names the part of the day.
func (c Clock) Period() string {
	switch {
	case c.Hour >= 5 && c.Hour < 7:
		return "dawn"
	case c.Hour >= 7 && c.Hour < 12:
		return "morning"
	case c.Hour >= 12 && c.Hour < 17:
		return "afternoon"
	case c.Hour >= 17 && c.Hour < 20:
		return "evening"
	default:
		return "night"
	}
}

func (s *state) clock() Clock {
	return clockAt(s.tick, s.tuning.Clock.TickSeconds)
}
