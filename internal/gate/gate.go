// Package gate decides whether a polling tick falls inside the configured
// run window. The daemon wakes up every scheduler tick; the gate makes the
// process self-select the correct tick, so it is a coarse check tolerant of
// scheduler jitter, not an exact-trigger mechanism.
package gate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Period selects which days a scheduled run is eligible on.
type Period string

const (
	PeriodDaily     Period = "Daily"
	PeriodWeekly    Period = "Weekly" // runs on Sunday
	PeriodMonday    Period = "Monday"
	PeriodTuesday   Period = "Tuesday"
	PeriodWednesday Period = "Wednesday"
	PeriodThursday  Period = "Thursday"
	PeriodFriday    Period = "Friday"
	PeriodSaturday  Period = "Saturday"
	PeriodSunday    Period = "Sunday"
)

// DefaultTimeOfDay is substituted for any time string that fails validation.
const DefaultTimeOfDay = "17:00"

// DefaultToleranceMin is the run-window half-width in minutes when the
// schedule leaves it unset.
const DefaultToleranceMin = 3

// Schedule is the normalized run schedule. Produced once at the config
// boundary; the gate never sees raw user input shapes.
type Schedule struct {
	Period       Period
	TimeOfDay    string // "HH:MM", 24h
	ToleranceMin int    // run-window half-width; <=0 means DefaultToleranceMin
}

// Decision is the gate's verdict for one tick. Never persisted; recomputed
// on every invocation.
type Decision struct {
	ShouldRun bool
	Reason    string // set when ShouldRun is false
}

var timeOfDayRe = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})$`)

// ParseTimeOfDay validates an "HH:MM" string (H:M, HH:M and H:MM are also
// accepted). Invalid input falls back to DefaultTimeOfDay; it never errors,
// matching the forgiving handling of stored settings.
func ParseTimeOfDay(s string) (hour, minute int) {
	m := timeOfDayRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return parseKnown(DefaultTimeOfDay)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if h < 0 || h > 23 || min < 0 || min > 59 {
		return parseKnown(DefaultTimeOfDay)
	}
	return h, min
}

func parseKnown(s string) (int, int) {
	parts := strings.SplitN(s, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h, m
}

// ValidTimeOfDay reports whether s is a well-formed 24h "HH:MM" value.
func ValidTimeOfDay(s string) bool {
	m := timeOfDayRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return false
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return h >= 0 && h <= 23 && min >= 0 && min <= 59
}

// Decide reports whether a run scheduled by s should fire at now.
// Pure function of its inputs; no clock access, no side effects.
func Decide(s Schedule, now time.Time) Decision {
	targetHour, targetMinute := ParseTimeOfDay(s.TimeOfDay)

	tolerance := s.ToleranceMin
	if tolerance <= 0 {
		tolerance = DefaultToleranceMin
	}

	diff := (now.Hour()*60 + now.Minute()) - (targetHour*60 + targetMinute)
	if diff < 0 {
		diff = -diff
	}
	if diff > tolerance {
		return Decision{Reason: "outside time window"}
	}

	if !dayEligible(s.Period, now.Weekday()) {
		return Decision{Reason: "not scheduled day"}
	}

	return Decision{ShouldRun: true}
}

func dayEligible(p Period, day time.Weekday) bool {
	switch p {
	case PeriodDaily, "":
		return true
	case PeriodWeekly, PeriodSunday:
		return day == time.Sunday
	case PeriodMonday:
		return day == time.Monday
	case PeriodTuesday:
		return day == time.Tuesday
	case PeriodWednesday:
		return day == time.Wednesday
	case PeriodThursday:
		return day == time.Thursday
	case PeriodFriday:
		return day == time.Friday
	case PeriodSaturday:
		return day == time.Saturday
	default:
		// Unknown period values normalize to Daily at the config boundary;
		// treat any stragglers the same way here.
		return true
	}
}

// ParsePeriod maps a configured period name to a Period, defaulting to Daily.
func ParsePeriod(s string) Period {
	switch strings.TrimSpace(s) {
	case string(PeriodWeekly):
		return PeriodWeekly
	case string(PeriodMonday):
		return PeriodMonday
	case string(PeriodTuesday):
		return PeriodTuesday
	case string(PeriodWednesday):
		return PeriodWednesday
	case string(PeriodThursday):
		return PeriodThursday
	case string(PeriodFriday):
		return PeriodFriday
	case string(PeriodSaturday):
		return PeriodSaturday
	case string(PeriodSunday):
		return PeriodSunday
	default:
		return PeriodDaily
	}
}
