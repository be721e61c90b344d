package gate

import (
	"testing"
	"time"
)

func at(day time.Weekday, hour, min int) time.Time {
	// 2025-06-01 is a Sunday; walk forward to the wanted weekday.
	base := time.Date(2025, 6, 1, hour, min, 0, 0, time.UTC)
	return base.AddDate(0, 0, int(day-time.Sunday))
}

func TestDecideTimeWindow(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		timeOfDay string
		tolerance int
		now       time.Time
		shouldRun bool
	}{
		{name: "exact", timeOfDay: "17:00", now: at(time.Monday, 17, 0), shouldRun: true},
		{name: "within tolerance before", timeOfDay: "17:00", now: at(time.Monday, 16, 57), shouldRun: true},
		{name: "within tolerance after", timeOfDay: "17:00", now: at(time.Monday, 17, 3), shouldRun: true},
		{name: "just outside", timeOfDay: "17:00", now: at(time.Monday, 17, 4), shouldRun: false},
		{name: "hours off", timeOfDay: "17:00", now: at(time.Monday, 9, 0), shouldRun: false},
		{name: "custom tolerance", timeOfDay: "12:00", tolerance: 10, now: at(time.Monday, 12, 10), shouldRun: true},
		{name: "custom tolerance exceeded", timeOfDay: "12:00", tolerance: 10, now: at(time.Monday, 12, 11), shouldRun: false},
		{name: "invalid time falls back to 17:00", timeOfDay: "25:99", now: at(time.Monday, 17, 1), shouldRun: true},
		{name: "empty time falls back to 17:00", timeOfDay: "", now: at(time.Monday, 17, 0), shouldRun: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(Schedule{Period: PeriodDaily, TimeOfDay: tt.timeOfDay, ToleranceMin: tt.tolerance}, tt.now)
			if d.ShouldRun != tt.shouldRun {
				t.Fatalf("ShouldRun = %v, want %v (reason %q)", d.ShouldRun, tt.shouldRun, d.Reason)
			}
			if !d.ShouldRun && d.Reason == "" {
				t.Fatal("skip decision must carry a reason")
			}
		})
	}
}

func TestDecideDayFilter(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		period    Period
		day       time.Weekday
		shouldRun bool
	}{
		{name: "daily any day", period: PeriodDaily, day: time.Wednesday, shouldRun: true},
		{name: "weekly on sunday", period: PeriodWeekly, day: time.Sunday, shouldRun: true},
		{name: "weekly not monday", period: PeriodWeekly, day: time.Monday, shouldRun: false},
		{name: "friday on friday", period: PeriodFriday, day: time.Friday, shouldRun: true},
		{name: "friday on thursday", period: PeriodFriday, day: time.Thursday, shouldRun: false},
		{name: "sunday alias of weekly", period: PeriodSunday, day: time.Sunday, shouldRun: true},
		{name: "empty period is daily", period: "", day: time.Saturday, shouldRun: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(Schedule{Period: tt.period, TimeOfDay: "10:00"}, at(tt.day, 10, 0))
			if d.ShouldRun != tt.shouldRun {
				t.Fatalf("ShouldRun = %v, want %v (reason %q)", d.ShouldRun, tt.shouldRun, d.Reason)
			}
		})
	}
}

func TestDecideDayCheckedOnlyInsideWindow(t *testing.T) {
	t.Parallel()
	// Wrong day AND wrong time: time window is reported, not the day.
	d := Decide(Schedule{Period: PeriodFriday, TimeOfDay: "17:00"}, at(time.Monday, 9, 0))
	if d.ShouldRun {
		t.Fatal("expected skip")
	}
	if d.Reason != "outside time window" {
		t.Fatalf("Reason = %q, want %q", d.Reason, "outside time window")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		h, m int
	}{
		{"17:00", 17, 0},
		{"9:5", 9, 5},
		{"09:05", 9, 5},
		{"23:59", 23, 59},
		{"0:0", 0, 0},
		{" 8:30 ", 8, 30},
		// invalid inputs fall back to 17:00
		{"24:00", 17, 0},
		{"12:60", 17, 0},
		{"1200", 17, 0},
		{"ab:cd", 17, 0},
		{"", 17, 0},
		{"17:00:00", 17, 0},
	}
	for _, tt := range tests {
		h, m := ParseTimeOfDay(tt.in)
		if h != tt.h || m != tt.m {
			t.Fatalf("ParseTimeOfDay(%q) = %d:%d, want %d:%d", tt.in, h, m, tt.h, tt.m)
		}
	}
}

func TestValidTimeOfDay(t *testing.T) {
	t.Parallel()
	valid := []string{"0:0", "9:5", "17:00", "23:59"}
	for _, s := range valid {
		if !ValidTimeOfDay(s) {
			t.Fatalf("ValidTimeOfDay(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "24:00", "12:60", "noon", "17", "17:"}
	for _, s := range invalid {
		if ValidTimeOfDay(s) {
			t.Fatalf("ValidTimeOfDay(%q) = true, want false", s)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	t.Parallel()
	if got := ParsePeriod("Weekly"); got != PeriodWeekly {
		t.Fatalf("ParsePeriod(Weekly) = %v", got)
	}
	if got := ParsePeriod("Thursday"); got != PeriodThursday {
		t.Fatalf("ParsePeriod(Thursday) = %v", got)
	}
	for _, s := range []string{"", "Fortnightly", "daily"} {
		if got := ParsePeriod(s); got != PeriodDaily {
			t.Fatalf("ParsePeriod(%q) = %v, want Daily", s, got)
		}
	}
}
