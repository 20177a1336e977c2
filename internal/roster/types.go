package roster

import (
	"errors"

	"github.com/google/uuid"
)

// Status is the closed set of attendance markings.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusLeave   Status = "leave"
	StatusWFH     Status = "wfh"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPresent, StatusAbsent, StatusLate, StatusLeave, StatusWFH}

// Valid reports whether s is one of the known markings.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusLeave, StatusWFH:
		return true
	}
	return false
}

// Employee is a roster entry. ID is system-assigned and immutable;
// Code is the organization-assigned badge number and is not required to be unique.
type Employee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Code       string `json:"employeeId"`
	Department string `json:"department"`
	Position   string `json:"position"`
	JoinDate   string `json:"joinDate"` // yyyy-MM-dd
}

// Record is one attendance marking. At most one record exists per
// (EmployeeID, Date) pair; that invariant is enforced by Mark.
type Record struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"` // yyyy-MM-dd
	Status     Status `json:"status"`
	Timestamp  int64  `json:"timestamp"` // unix millis, last write
	Notes      string `json:"notes,omitempty"`
}

// Settings is the singleton organization configuration. Departments and
// positions act as the controlled vocabulary offered to employee forms.
type Settings struct {
	Name        string   `json:"name"`
	Departments []string `json:"departments"`
	Positions   []string `json:"positions"`
	AccentColor string   `json:"accentColor,omitempty"`
}

// DefaultSettings returns the configuration used on first run and after a full
// data clear.
func DefaultSettings() Settings {
	return Settings{
		Name:        "My Organization",
		Departments: []string{"Engineering", "Operations", "Sales", "HR"},
		Positions:   []string{"Manager", "Senior", "Junior", "Intern"},
		AccentColor: "#8b5cf6",
	}
}

var (
	ErrNotFound       = errors.New("roster: not found")
	ErrInvalidStatus  = errors.New("roster: invalid status")
	ErrDuplicateEntry = errors.New("roster: entry already exists")
	ErrInUse          = errors.New("roster: value still referenced by an employee")
	ErrDuplicateDay   = errors.New("roster: another record already covers that employee and day")
)

func newID() string {
	return uuid.NewString()
}
