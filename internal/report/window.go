package report

import (
	"fmt"
	"time"

	"rollcall.org/internal/roster"
)

// Mode selects how a reference date expands into a reporting window.
type Mode string

const (
	ModeDaily   Mode = "daily"
	ModeWeekly  Mode = "weekly"
	ModeMonthly Mode = "monthly"
)

// Window expands ref into an inclusive [start, end] date range. Weeks start
// on Sunday; months cover the full calendar month containing ref; daily
// degenerates to a single-day range.
func Window(ref time.Time, mode Mode) (start, end string, err error) {
	switch mode {
	case ModeDaily:
		d := ref.Format(dateLayout)
		return d, d, nil
	case ModeWeekly:
		first := ref.AddDate(0, 0, -int(ref.Weekday()))
		last := first.AddDate(0, 0, 6)
		return first.Format(dateLayout), last.Format(dateLayout), nil
	case ModeMonthly:
		first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		last := first.AddDate(0, 1, -1)
		return first.Format(dateLayout), last.Format(dateLayout), nil
	default:
		return "", "", fmt.Errorf("unknown report mode %q", mode)
	}
}

// DayCounts is one day of the dashboard's weekly bar chart.
type DayCounts struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	StatusCounts
}

// WeeklySeries tallies the seven days ending at ref, oldest first.
func WeeklySeries(records []roster.Record, ref time.Time) []DayCounts {
	out := make([]DayCounts, 0, 7)
	for i := 6; i >= 0; i-- {
		day := ref.AddDate(0, 0, -i)
		date := day.Format(dateLayout)
		dc := DayCounts{Date: date, Weekday: day.Weekday().String()[:3]}
		for _, rec := range records {
			if rec.Date == date {
				dc.add(rec.Status)
			}
		}
		out = append(out, dc)
	}
	return out
}

// CalendarDay is one cell of an employee's month view. Status is empty when
// the day is unmarked.
type CalendarDay struct {
	Date   string        `json:"date"`
	Status roster.Status `json:"status,omitempty"`
	Notes  string        `json:"notes,omitempty"`
}

// EmployeeCalendar lays out every day of the month containing ref for one
// employee.
func EmployeeCalendar(employeeID string, records []roster.Record, ref time.Time) []CalendarDay {
	byDate := make(map[string]roster.Record)
	for _, rec := range records {
		if rec.EmployeeID == employeeID {
			byDate[rec.Date] = rec
		}
	}

	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	days := first.AddDate(0, 1, -1).Day()
	out := make([]CalendarDay, 0, days)
	for d := 0; d < days; d++ {
		date := first.AddDate(0, 0, d).Format(dateLayout)
		cell := CalendarDay{Date: date}
		if rec, ok := byDate[date]; ok {
			cell.Status = rec.Status
			cell.Notes = rec.Notes
		}
		out = append(out, cell)
	}
	return out
}
