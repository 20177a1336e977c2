package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Gateway is the opaque key/value persistence the roster writes through after
// every successful mutation. An absent key on load means "empty collection".
type Gateway interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Logical storage keys. One serialized blob per collection.
const (
	KeyEmployees = "rollcall-employees"
	KeyRecords   = "rollcall-attendance"
	KeySettings  = "rollcall-org-settings"
)

// EmployeeInput carries the caller-supplied fields for a new employee.
type EmployeeInput struct {
	Name       string
	Code       string
	Department string
	Position   string
	JoinDate   string
}

// MarkInput identifies the employee/day pair being marked.
type MarkInput struct {
	EmployeeID string
	Date       string
	Status     Status
	Notes      string
}

// MarkResult reports whether Mark created a new record or replaced the
// existing one for that day.
type MarkResult struct {
	Record  Record
	Created bool
}

// RecordFilter narrows ListRecords. Zero value returns everything.
type RecordFilter struct {
	EmployeeID string
	Date       string
}

// Service defines roster operations.
type Service interface {
	AddEmployee(ctx context.Context, in EmployeeInput) (Employee, error)
	UpdateEmployee(ctx context.Context, e Employee) (Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)

	Mark(ctx context.Context, in MarkInput) (MarkResult, error)
	UpdateRecord(ctx context.Context, rec Record) (Record, error)
	DeleteRecord(ctx context.Context, id string) error
	ListRecords(ctx context.Context, f RecordFilter) ([]Record, error)

	Settings(ctx context.Context) (Settings, error)
	UpdateSettings(ctx context.Context, s Settings) (Settings, error)
	AddDepartment(ctx context.Context, name string) (Settings, error)
	RemoveDepartment(ctx context.Context, name string) (Settings, error)
	AddPosition(ctx context.Context, name string) (Settings, error)
	RemovePosition(ctx context.Context, name string) (Settings, error)

	Snapshot(ctx context.Context) ([]Employee, []Record, Settings, error)
	Restore(ctx context.Context, employees []Employee, records []Record, settings *Settings) error
	ClearAll(ctx context.Context) error
}

// InMemory implements Service with exclusively-owned in-memory collections and
// a write-through to the persistence gateway on every mutation.
type InMemory struct {
	mu        sync.RWMutex
	gw        Gateway
	employees []Employee
	records   []Record
	settings  Settings
	now       func() time.Time
}

var _ Service = (*InMemory)(nil)

// NewInMemory loads the three collections from the gateway (absent keys yield
// an empty roster and default settings).
func NewInMemory(ctx context.Context, gw Gateway) (*InMemory, error) {
	s := &InMemory{gw: gw, settings: DefaultSettings(), now: time.Now}

	if err := loadJSON(ctx, gw, KeyEmployees, &s.employees); err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}
	if err := loadJSON(ctx, gw, KeyRecords, &s.records); err != nil {
		return nil, fmt.Errorf("load attendance: %w", err)
	}
	var settings Settings
	data, ok, err := gw.Load(ctx, KeySettings)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if ok {
		if err := json.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
		s.settings = settings
	}
	return s, nil
}

func loadJSON[T any](ctx context.Context, gw Gateway, key string, dst *[]T) error {
	data, ok, err := gw.Load(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return json.Unmarshal(data, dst)
}

func (s *InMemory) AddEmployee(ctx context.Context, in EmployeeInput) (Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := Employee{
		ID:         newID(),
		Name:       in.Name,
		Code:       in.Code,
		Department: in.Department,
		Position:   in.Position,
		JoinDate:   in.JoinDate,
	}
	s.employees = append(s.employees, e)
	if err := s.persistEmployees(ctx); err != nil {
		s.employees = s.employees[:len(s.employees)-1]
		return Employee{}, err
	}
	return e, nil
}

func (s *InMemory) UpdateEmployee(ctx context.Context, e Employee) (Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.employeeIndex(e.ID)
	if idx < 0 {
		return Employee{}, ErrNotFound
	}
	prev := s.employees[idx]
	s.employees[idx] = e
	if err := s.persistEmployees(ctx); err != nil {
		s.employees[idx] = prev
		return Employee{}, err
	}
	return e, nil
}

// DeleteEmployee removes the employee and cascades removal of every
// attendance record referencing it. Both collections persist together.
func (s *InMemory) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.employeeIndex(id)
	if idx < 0 {
		return ErrNotFound
	}
	prevEmployees := s.employees
	prevRecords := s.records

	employees := make([]Employee, 0, len(s.employees)-1)
	employees = append(employees, s.employees[:idx]...)
	employees = append(employees, s.employees[idx+1:]...)
	s.employees = employees

	kept := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		if rec.EmployeeID != id {
			kept = append(kept, rec)
		}
	}
	s.records = kept

	if err := s.persistEmployees(ctx); err != nil {
		s.employees, s.records = prevEmployees, prevRecords
		return err
	}
	if err := s.persistRecords(ctx); err != nil {
		s.employees, s.records = prevEmployees, prevRecords
		return err
	}
	return nil
}

func (s *InMemory) GetEmployee(ctx context.Context, id string) (Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.employeeIndex(id)
	if idx < 0 {
		return Employee{}, ErrNotFound
	}
	return s.employees[idx], nil
}

func (s *InMemory) ListEmployees(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Employee, len(s.employees))
	copy(out, s.employees)
	return out, nil
}

// Mark upserts the record for (EmployeeID, Date): a second marking for the
// same pair replaces status and notes in place, keeping the record ID so
// external references stay valid.
func (s *InMemory) Mark(ctx context.Context, in MarkInput) (MarkResult, error) {
	if !in.Status.Valid() {
		return MarkResult{}, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UnixMilli()
	for i, rec := range s.records {
		if rec.EmployeeID == in.EmployeeID && rec.Date == in.Date {
			prev := s.records[i]
			s.records[i].Status = in.Status
			s.records[i].Notes = in.Notes
			s.records[i].Timestamp = ts
			if err := s.persistRecords(ctx); err != nil {
				s.records[i] = prev
				return MarkResult{}, err
			}
			return MarkResult{Record: s.records[i]}, nil
		}
	}

	rec := Record{
		ID:         newID(),
		EmployeeID: in.EmployeeID,
		Date:       in.Date,
		Status:     in.Status,
		Timestamp:  ts,
		Notes:      in.Notes,
	}
	s.records = append(s.records, rec)
	if err := s.persistRecords(ctx); err != nil {
		s.records = s.records[:len(s.records)-1]
		return MarkResult{}, err
	}
	return MarkResult{Record: rec, Created: true}, nil
}

// UpdateRecord replaces the record with matching ID and refreshes its
// timestamp. Moving a record onto an (employee, day) pair already held by a
// different record is rejected with ErrDuplicateDay.
func (s *InMemory) UpdateRecord(ctx context.Context, rec Record) (Record, error) {
	if !rec.Status.Valid() {
		return Record{}, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, existing := range s.records {
		if existing.ID == rec.ID {
			idx = i
			continue
		}
		if existing.EmployeeID == rec.EmployeeID && existing.Date == rec.Date {
			return Record{}, ErrDuplicateDay
		}
	}
	if idx < 0 {
		return Record{}, ErrNotFound
	}

	prev := s.records[idx]
	rec.Timestamp = s.now().UnixMilli()
	s.records[idx] = rec
	if err := s.persistRecords(ctx); err != nil {
		s.records[idx] = prev
		return Record{}, err
	}
	return rec, nil
}

func (s *InMemory) DeleteRecord(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, rec := range s.records {
		if rec.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	prev := s.records
	records := make([]Record, 0, len(s.records)-1)
	records = append(records, s.records[:idx]...)
	records = append(records, s.records[idx+1:]...)
	s.records = records
	if err := s.persistRecords(ctx); err != nil {
		s.records = prev
		return err
	}
	return nil
}

func (s *InMemory) ListRecords(ctx context.Context, f RecordFilter) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		if f.EmployeeID != "" && rec.EmployeeID != f.EmployeeID {
			continue
		}
		if f.Date != "" && rec.Date != f.Date {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *InMemory) Settings(ctx context.Context) (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSettings(s.settings), nil
}

func (s *InMemory) UpdateSettings(ctx context.Context, settings Settings) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.settings
	s.settings = cloneSettings(settings)
	if err := s.persistSettings(ctx); err != nil {
		s.settings = prev
		return Settings{}, err
	}
	return cloneSettings(s.settings), nil
}

// AddDepartment appends a vocabulary entry; an exact (case-sensitive)
// duplicate is rejected.
func (s *InMemory) AddDepartment(ctx context.Context, name string) (Settings, error) {
	return s.addVocab(ctx, name, func() *[]string { return &s.settings.Departments })
}

// RemoveDepartment rejects removal while any employee still references the
// department.
func (s *InMemory) RemoveDepartment(ctx context.Context, name string) (Settings, error) {
	return s.removeVocab(ctx, name,
		func() *[]string { return &s.settings.Departments },
		func(e Employee) string { return e.Department },
	)
}

func (s *InMemory) AddPosition(ctx context.Context, name string) (Settings, error) {
	return s.addVocab(ctx, name, func() *[]string { return &s.settings.Positions })
}

func (s *InMemory) RemovePosition(ctx context.Context, name string) (Settings, error) {
	return s.removeVocab(ctx, name,
		func() *[]string { return &s.settings.Positions },
		func(e Employee) string { return e.Position },
	)
}

func (s *InMemory) addVocab(ctx context.Context, name string, list func() *[]string) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := list()
	for _, existing := range *target {
		if existing == name {
			return Settings{}, ErrDuplicateEntry
		}
	}
	prev := *target
	*target = append(append([]string(nil), prev...), name)
	if err := s.persistSettings(ctx); err != nil {
		*target = prev
		return Settings{}, err
	}
	return cloneSettings(s.settings), nil
}

func (s *InMemory) removeVocab(ctx context.Context, name string, list func() *[]string, field func(Employee) string) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.employees {
		if field(e) == name {
			return Settings{}, ErrInUse
		}
	}
	target := list()
	idx := -1
	for i, existing := range *target {
		if existing == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Settings{}, ErrNotFound
	}
	prev := *target
	next := make([]string, 0, len(prev)-1)
	next = append(next, prev[:idx]...)
	next = append(next, prev[idx+1:]...)
	*target = next
	if err := s.persistSettings(ctx); err != nil {
		*target = prev
		return Settings{}, err
	}
	return cloneSettings(s.settings), nil
}

// Snapshot returns copies of all three collections for read-only consumers.
func (s *InMemory) Snapshot(ctx context.Context) ([]Employee, []Record, Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := make([]Employee, len(s.employees))
	copy(employees, s.employees)
	records := make([]Record, len(s.records))
	copy(records, s.records)
	return employees, records, cloneSettings(s.settings), nil
}

// Restore wholesale-replaces the collections (no merge). A nil settings
// pointer keeps the current settings. Imported data is applied as-is; the
// caller is responsible for structural validation.
func (s *InMemory) Restore(ctx context.Context, employees []Employee, records []Record, settings *Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevEmployees, prevRecords, prevSettings := s.employees, s.records, s.settings

	s.employees = append([]Employee(nil), employees...)
	s.records = append([]Record(nil), records...)
	if settings != nil {
		s.settings = cloneSettings(*settings)
	}

	if err := s.persistAll(ctx); err != nil {
		s.employees, s.records, s.settings = prevEmployees, prevRecords, prevSettings
		return err
	}
	return nil
}

// ClearAll drops both collections and resets settings to defaults.
func (s *InMemory) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevEmployees, prevRecords, prevSettings := s.employees, s.records, s.settings
	s.employees = nil
	s.records = nil
	s.settings = DefaultSettings()

	if err := s.persistAll(ctx); err != nil {
		s.employees, s.records, s.settings = prevEmployees, prevRecords, prevSettings
		return err
	}
	return nil
}

func (s *InMemory) employeeIndex(id string) int {
	for i, e := range s.employees {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *InMemory) persistEmployees(ctx context.Context) error {
	return saveJSON(ctx, s.gw, KeyEmployees, s.employees)
}

func (s *InMemory) persistRecords(ctx context.Context) error {
	return saveJSON(ctx, s.gw, KeyRecords, s.records)
}

func (s *InMemory) persistSettings(ctx context.Context) error {
	return saveJSON(ctx, s.gw, KeySettings, s.settings)
}

func (s *InMemory) persistAll(ctx context.Context) error {
	if err := s.persistEmployees(ctx); err != nil {
		return err
	}
	if err := s.persistRecords(ctx); err != nil {
		return err
	}
	return s.persistSettings(ctx)
}

func saveJSON(ctx context.Context, gw Gateway, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return gw.Save(ctx, key, data)
}

func cloneSettings(s Settings) Settings {
	out := s
	out.Departments = append([]string(nil), s.Departments...)
	out.Positions = append([]string(nil), s.Positions...)
	return out
}
