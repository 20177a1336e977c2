// Package report computes attendance statistics. Every function is a pure
// read over roster snapshots; nothing here mutates or caches state.
package report

import (
	"math"
	"sort"
	"time"

	"rollcall.org/internal/roster"
)

const dateLayout = "2006-01-02"

// StatusCounts tallies records per marking.
type StatusCounts struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Leave   int `json:"leave"`
	WFH     int `json:"wfh"`
}

func (c *StatusCounts) add(s roster.Status) {
	switch s {
	case roster.StatusPresent:
		c.Present++
	case roster.StatusAbsent:
		c.Absent++
	case roster.StatusLate:
		c.Late++
	case roster.StatusLeave:
		c.Leave++
	case roster.StatusWFH:
		c.WFH++
	}
}

// DailyStats is the organization-wide picture for one calendar day.
type DailyStats struct {
	Date           string  `json:"date"`
	TotalEmployees int     `json:"totalEmployees"`
	AttendanceRate float64 `json:"attendanceRate"`
	StatusCounts
}

// Daily counts records dated exactly date. The rate is present headcount over
// the full roster; an empty roster yields 0, never NaN.
func Daily(employees []roster.Employee, records []roster.Record, date string) DailyStats {
	stats := DailyStats{Date: date, TotalEmployees: len(employees)}
	for _, rec := range records {
		if rec.Date == date {
			stats.add(rec.Status)
		}
	}
	if stats.TotalEmployees > 0 {
		stats.AttendanceRate = float64(stats.Present) / float64(stats.TotalEmployees) * 100
	}
	return stats
}

// Summary is one employee's totals inside an inclusive date window.
type Summary struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	StatusCounts
	MarkedDays   int `json:"markedDays"`
	UnmarkedDays int `json:"unmarkedDays"`
	Rate         int `json:"rate"` // rounded percent of present days over the window
}

// WindowedSummary tallies e's records with start <= date <= end. Dates are
// yyyy-MM-dd strings, so lexicographic comparison is chronological
// comparison. A zero-length window yields Rate 0.
func WindowedSummary(e roster.Employee, records []roster.Record, start, end string) Summary {
	sum := Summary{
		EmployeeID: e.ID,
		Name:       e.Name,
		Department: e.Department,
		Position:   e.Position,
	}
	for _, rec := range records {
		if rec.EmployeeID != e.ID {
			continue
		}
		if rec.Date < start || rec.Date > end {
			continue
		}
		sum.add(rec.Status)
		sum.MarkedDays++
	}
	total := daysInclusive(start, end)
	if total > 0 {
		sum.UnmarkedDays = total - sum.MarkedDays
		sum.Rate = int(math.Round(float64(sum.Present) / float64(total) * 100))
	}
	return sum
}

// OrganizationSummary applies WindowedSummary to every employee in the
// roster's existing order.
func OrganizationSummary(employees []roster.Employee, records []roster.Record, start, end string) []Summary {
	out := make([]Summary, 0, len(employees))
	for _, e := range employees {
		out = append(out, WindowedSummary(e, records, start, end))
	}
	return out
}

// Activity is a record joined with its employee's display fields. A dangling
// employee reference is labelled, not dropped.
type Activity struct {
	roster.Record
	EmployeeName     string `json:"employeeName"`
	EmployeePosition string `json:"employeePosition"`
}

const unknownEmployee = "Unknown"

// RecentActivity returns the newest records by write timestamp, at most limit.
func RecentActivity(employees []roster.Employee, records []roster.Record, limit int) []Activity {
	if limit <= 0 {
		return []Activity{}
	}

	byID := make(map[string]roster.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	sorted := make([]roster.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]Activity, 0, len(sorted))
	for _, rec := range sorted {
		act := Activity{Record: rec, EmployeeName: unknownEmployee}
		if e, ok := byID[rec.EmployeeID]; ok {
			act.EmployeeName = e.Name
			act.EmployeePosition = e.Position
		}
		out = append(out, act)
	}
	return out
}

// daysInclusive counts calendar days from start through end. Malformed or
// inverted bounds count as an empty window.
func daysInclusive(start, end string) int {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return 0
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return 0
	}
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}
