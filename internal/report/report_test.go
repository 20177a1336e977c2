package report

import (
	"testing"

	"rollcall.org/internal/roster"
)

func employee(id, name string) roster.Employee {
	return roster.Employee{ID: id, Name: name, Department: "Engineering", Position: "Manager"}
}

func record(id, empID, date string, status roster.Status, ts int64) roster.Record {
	return roster.Record{ID: id, EmployeeID: empID, Date: date, Status: status, Timestamp: ts}
}

func TestDaily(t *testing.T) {
	employees := []roster.Employee{employee("a", "Ada"), employee("b", "Grace"), employee("c", "Edsger"), employee("d", "Barbara")}
	records := []roster.Record{
		record("r1", "a", "2025-03-10", roster.StatusPresent, 1),
		record("r2", "b", "2025-03-10", roster.StatusLate, 2),
		record("r3", "c", "2025-03-10", roster.StatusWFH, 3),
		record("r4", "d", "2025-03-09", roster.StatusPresent, 4),
	}

	stats := Daily(employees, records, "2025-03-10")
	if stats.TotalEmployees != 4 {
		t.Fatalf("TotalEmployees = %d", stats.TotalEmployees)
	}
	if stats.Present != 1 || stats.Late != 1 || stats.WFH != 1 || stats.Absent != 0 {
		t.Fatalf("unexpected counts: %+v", stats.StatusCounts)
	}
	if stats.AttendanceRate != 25 {
		t.Fatalf("AttendanceRate = %v, want 25", stats.AttendanceRate)
	}
}

func TestDailyEmptyRoster(t *testing.T) {
	stats := Daily(nil, nil, "2025-03-10")
	if stats.AttendanceRate != 0 {
		t.Fatalf("AttendanceRate = %v, want 0 for empty roster", stats.AttendanceRate)
	}
}

func TestWindowedSummary(t *testing.T) {
	ada := employee("a", "Ada")
	records := []roster.Record{
		record("r1", "a", "2025-03-01", roster.StatusPresent, 1),
		record("r2", "a", "2025-03-02", roster.StatusPresent, 2),
		record("r3", "a", "2025-03-03", roster.StatusLate, 3),
		record("r4", "a", "2025-03-04", roster.StatusAbsent, 4),
		record("r5", "a", "2025-03-11", roster.StatusPresent, 5), // outside window
		record("r6", "b", "2025-03-02", roster.StatusPresent, 6), // other employee
	}

	sum := WindowedSummary(ada, records, "2025-03-01", "2025-03-10")
	if sum.Present != 2 || sum.Late != 1 || sum.Absent != 1 {
		t.Fatalf("unexpected counts: %+v", sum.StatusCounts)
	}
	if sum.MarkedDays != 4 || sum.UnmarkedDays != 6 {
		t.Fatalf("marked/unmarked = %d/%d, want 4/6", sum.MarkedDays, sum.UnmarkedDays)
	}
	// 2 present over 10 days, rounded.
	if sum.Rate != 20 {
		t.Fatalf("Rate = %d, want 20", sum.Rate)
	}
}

func TestWindowedSummaryRounds(t *testing.T) {
	ada := employee("a", "Ada")
	records := []roster.Record{
		record("r1", "a", "2025-03-01", roster.StatusPresent, 1),
		record("r2", "a", "2025-03-02", roster.StatusPresent, 2),
	}
	// 2/3 = 66.67 rounds to 67.
	sum := WindowedSummary(ada, records, "2025-03-01", "2025-03-03")
	if sum.Rate != 67 {
		t.Fatalf("Rate = %d, want 67", sum.Rate)
	}
}

func TestWindowedSummaryZeroWindow(t *testing.T) {
	ada := employee("a", "Ada")
	sum := WindowedSummary(ada, nil, "2025-03-10", "2025-03-01")
	if sum.Rate != 0 || sum.UnmarkedDays != 0 {
		t.Fatalf("inverted window should be empty: %+v", sum)
	}
	sum = WindowedSummary(ada, nil, "not-a-date", "2025-03-01")
	if sum.Rate != 0 {
		t.Fatalf("malformed window should yield zero rate: %+v", sum)
	}
}

func TestOrganizationSummaryKeepsOrder(t *testing.T) {
	employees := []roster.Employee{employee("b", "Grace"), employee("a", "Ada")}
	out := OrganizationSummary(employees, nil, "2025-03-01", "2025-03-07")
	if len(out) != 2 || out[0].EmployeeID != "b" || out[1].EmployeeID != "a" {
		t.Fatalf("roster order not preserved: %+v", out)
	}
}

func TestRecentActivity(t *testing.T) {
	employees := []roster.Employee{employee("a", "Ada")}
	records := []roster.Record{
		record("r1", "a", "2025-03-01", roster.StatusPresent, 100),
		record("r2", "ghost", "2025-03-02", roster.StatusAbsent, 300),
		record("r3", "a", "2025-03-03", roster.StatusLate, 200),
	}

	out := RecentActivity(employees, records, 2)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].ID != "r2" || out[1].ID != "r3" {
		t.Fatalf("not sorted by timestamp desc: %s, %s", out[0].ID, out[1].ID)
	}
	if out[0].EmployeeName != "Unknown" || out[0].EmployeePosition != "" {
		t.Fatalf("dangling reference not labelled: %+v", out[0])
	}
	if out[1].EmployeeName != "Ada" {
		t.Fatalf("employee join failed: %+v", out[1])
	}

	if got := RecentActivity(employees, records, 0); len(got) != 0 {
		t.Fatalf("limit 0 should return nothing, got %d", len(got))
	}
}

func TestDaysInclusive(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"2025-03-01", "2025-03-01", 1},
		{"2025-03-01", "2025-03-10", 10},
		{"2025-02-01", "2025-02-28", 28},
		{"2024-02-01", "2024-02-29", 29}, // leap year
		{"2025-03-10", "2025-03-01", 0},
		{"garbage", "2025-03-01", 0},
	}
	for _, tc := range cases {
		if got := daysInclusive(tc.start, tc.end); got != tc.want {
			t.Errorf("daysInclusive(%s, %s) = %d, want %d", tc.start, tc.end, got, tc.want)
		}
	}
}
