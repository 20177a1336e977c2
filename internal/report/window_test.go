package report

import (
	"testing"
	"time"

	"rollcall.org/internal/roster"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindow(t *testing.T) {
	// 2025-03-12 is a Wednesday.
	ref := date(2025, time.March, 12)

	cases := []struct {
		mode       Mode
		start, end string
	}{
		{ModeDaily, "2025-03-12", "2025-03-12"},
		{ModeWeekly, "2025-03-09", "2025-03-15"}, // Sunday through Saturday
		{ModeMonthly, "2025-03-01", "2025-03-31"},
	}
	for _, tc := range cases {
		start, end, err := Window(ref, tc.mode)
		if err != nil {
			t.Fatalf("Window(%s): %v", tc.mode, err)
		}
		if start != tc.start || end != tc.end {
			t.Errorf("Window(%s) = [%s, %s], want [%s, %s]", tc.mode, start, end, tc.start, tc.end)
		}
	}
}

func TestWindowOnSunday(t *testing.T) {
	start, end, err := Window(date(2025, time.March, 9), ModeWeekly)
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if start != "2025-03-09" || end != "2025-03-15" {
		t.Fatalf("week anchored on Sunday = [%s, %s]", start, end)
	}
}

func TestWindowFebruary(t *testing.T) {
	start, end, err := Window(date(2024, time.February, 15), ModeMonthly)
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if start != "2024-02-01" || end != "2024-02-29" {
		t.Fatalf("leap February window = [%s, %s]", start, end)
	}
}

func TestWindowUnknownMode(t *testing.T) {
	if _, _, err := Window(date(2025, time.March, 12), Mode("hourly")); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestWeeklySeries(t *testing.T) {
	ref := date(2025, time.March, 12)
	records := []roster.Record{
		record("r1", "a", "2025-03-12", roster.StatusPresent, 1),
		record("r2", "b", "2025-03-12", roster.StatusPresent, 2),
		record("r3", "a", "2025-03-06", roster.StatusLate, 3),
		record("r4", "a", "2025-03-05", roster.StatusPresent, 4), // before window
	}

	series := WeeklySeries(records, ref)
	if len(series) != 7 {
		t.Fatalf("len = %d, want 7", len(series))
	}
	if series[0].Date != "2025-03-06" || series[6].Date != "2025-03-12" {
		t.Fatalf("window bounds = [%s, %s]", series[0].Date, series[6].Date)
	}
	if series[0].Weekday != "Thu" {
		t.Fatalf("weekday label = %q, want Thu", series[0].Weekday)
	}
	if series[0].Late != 1 || series[6].Present != 2 {
		t.Fatalf("counts wrong: first=%+v last=%+v", series[0], series[6])
	}
}

func TestEmployeeCalendar(t *testing.T) {
	ref := date(2025, time.March, 12)
	records := []roster.Record{
		{ID: "r1", EmployeeID: "a", Date: "2025-03-03", Status: roster.StatusLeave, Notes: "PTO", Timestamp: 1},
		record("r2", "b", "2025-03-03", roster.StatusPresent, 2),
	}

	days := EmployeeCalendar("a", records, ref)
	if len(days) != 31 {
		t.Fatalf("len = %d, want 31", len(days))
	}
	if days[0].Date != "2025-03-01" || days[30].Date != "2025-03-31" {
		t.Fatalf("month bounds = [%s, %s]", days[0].Date, days[30].Date)
	}
	third := days[2]
	if third.Status != roster.StatusLeave || third.Notes != "PTO" {
		t.Fatalf("marked day not projected: %+v", third)
	}
	if days[3].Status != "" {
		t.Fatalf("unmarked day should have empty status: %+v", days[3])
	}
}
