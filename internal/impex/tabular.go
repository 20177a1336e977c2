package impex

import (
	"context"
	"fmt"
	"strings"

	"rollcall.org/internal/roster"
)

// Kind selects which collection a tabular export flattens.
type Kind string

const (
	KindEmployees  Kind = "employees"
	KindAttendance Kind = "attendance"
)

// Table is a header row plus data rows, ready for CSV or XLSX rendering.
type Table struct {
	Header []string
	Rows   [][]string
}

// ExportTable projects the chosen collection into rows. Attendance rows join
// employee display fields; a dangling reference shows "Unknown" in the three
// employee-derived columns.
func (e *Engine) ExportTable(ctx context.Context, kind Kind) (Table, error) {
	employees, records, settings, err := e.svc.Snapshot(ctx)
	if err != nil {
		return Table{}, err
	}

	switch kind {
	case KindEmployees:
		if len(employees) == 0 {
			return Table{}, ErrEmptyDataset
		}
		t := Table{Header: []string{"Name", "ID", "Department", "Position", "Join Date", "Organization"}}
		for _, emp := range employees {
			t.Rows = append(t.Rows, []string{
				emp.Name, emp.Code, emp.Department, emp.Position, emp.JoinDate, settings.Name,
			})
		}
		return t, nil

	case KindAttendance:
		if len(records) == 0 {
			return Table{}, ErrEmptyDataset
		}
		byID := make(map[string]roster.Employee, len(employees))
		for _, emp := range employees {
			byID[emp.ID] = emp
		}
		t := Table{Header: []string{"Organization", "Date", "Employee Name", "Employee ID", "Department", "Status", "Notes"}}
		for _, rec := range records {
			name, code, dept := "Unknown", "Unknown", "Unknown"
			if emp, ok := byID[rec.EmployeeID]; ok {
				name, code, dept = emp.Name, emp.Code, emp.Department
			}
			t.Rows = append(t.Rows, []string{
				settings.Name, rec.Date, name, code, dept, string(rec.Status), rec.Notes,
			})
		}
		return t, nil

	default:
		return Table{}, fmt.Errorf("unknown export kind %q", kind)
	}
}

// ExportCSV renders the table with the export format's quoting rule: a field
// is wrapped in double quotes only when it contains a comma or a quote, with
// inner quotes doubled.
func (e *Engine) ExportCSV(ctx context.Context, kind Kind) ([]byte, error) {
	table, err := e.ExportTable(ctx, kind)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	writeRow(&b, table.Header)
	for _, row := range table.Rows {
		b.WriteByte('\n')
		writeRow(&b, row)
	}
	return []byte(b.String()), nil
}

func writeRow(b *strings.Builder, row []string) {
	for i, field := range row {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeField(field))
	}
}

func escapeField(v string) string {
	if !strings.ContainsAny(v, `,"`) {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
