// Package impex converts the roster's full state to and from portable
// documents: a JSON snapshot for backup/restore and tabular renditions for
// spreadsheet tooling.
package impex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rollcall.org/internal/roster"
)

var (
	// ErrInvalidSnapshot marks a document that fails the structural check;
	// repository state is left untouched.
	ErrInvalidSnapshot = errors.New("impex: invalid snapshot document")
	// ErrEmptyDataset is returned when a tabular export targets an empty
	// collection.
	ErrEmptyDataset = errors.New("impex: nothing to export")
)

// Document is the portable snapshot shape. ExportDate is informational only
// and ignored on import.
type Document struct {
	Employees         []roster.Employee `json:"employees"`
	AttendanceRecords []roster.Record   `json:"attendanceRecords"`
	OrgSettings       *roster.Settings  `json:"orgSettings,omitempty"`
	ExportDate        time.Time         `json:"exportDate"`
}

// ImportReport counts what an import replaced.
type ImportReport struct {
	Employees        int  `json:"employees"`
	Records          int  `json:"records"`
	SettingsReplaced bool `json:"settingsReplaced"`
}

// Engine reads and wholesale-replaces repository state as one atomic unit.
type Engine struct {
	svc roster.Service
	now func() time.Time
}

func NewEngine(svc roster.Service) *Engine {
	return &Engine{svc: svc, now: time.Now}
}

// Export captures the current state.
func (e *Engine) Export(ctx context.Context) (Document, error) {
	employees, records, settings, err := e.svc.Snapshot(ctx)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Employees:         employees,
		AttendanceRecords: records,
		OrgSettings:       &settings,
		ExportDate:        e.now().UTC(),
	}, nil
}

// ExportJSON is Export marshalled for download endpoints.
func (e *Engine) ExportJSON(ctx context.Context) ([]byte, error) {
	doc, err := e.Export(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// rawDocument distinguishes absent keys from empty collections before any
// data is accepted.
type rawDocument struct {
	Employees         json.RawMessage `json:"employees"`
	AttendanceRecords json.RawMessage `json:"attendanceRecords"`
	OrgSettings       json.RawMessage `json:"orgSettings"`
}

// Import validates the document's structure, then replaces both collections
// (and settings, when present) in one shot. Record-level invariants are not
// re-checked; imported data is trusted as-is.
func (e *Engine) Import(ctx context.Context, data []byte) (ImportReport, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return ImportReport{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	employees, err := decodeArray[roster.Employee](raw.Employees, "employees")
	if err != nil {
		return ImportReport{}, err
	}
	records, err := decodeArray[roster.Record](raw.AttendanceRecords, "attendanceRecords")
	if err != nil {
		return ImportReport{}, err
	}

	var settings *roster.Settings
	if len(raw.OrgSettings) > 0 && !bytes.Equal(raw.OrgSettings, []byte("null")) {
		var s roster.Settings
		if err := json.Unmarshal(raw.OrgSettings, &s); err != nil {
			return ImportReport{}, fmt.Errorf("%w: orgSettings is not an object", ErrInvalidSnapshot)
		}
		settings = &s
	}

	if err := e.svc.Restore(ctx, employees, records, settings); err != nil {
		return ImportReport{}, err
	}
	return ImportReport{
		Employees:        len(employees),
		Records:          len(records),
		SettingsReplaced: settings != nil,
	}, nil
}

func decodeArray[T any](raw json.RawMessage, field string) ([]T, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: missing %s array", ErrInvalidSnapshot, field)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %s is not an array", ErrInvalidSnapshot, field)
	}
	return out, nil
}
