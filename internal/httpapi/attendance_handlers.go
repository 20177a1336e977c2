package httpapi

import (
	"net/http"
	"strings"
	"time"

	"rollcall.org/internal/roster"
	"rollcall.org/internal/stream"
)

type markRequest struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
}

type markResponse struct {
	Record  roster.Record `json:"record"`
	Created bool          `json:"created"`
}

type updateRecordRequest struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
}

func (a *API) handleAttendanceCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listAttendance(w, r)
	case http.MethodPost:
		a.markAttendance(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleAttendanceResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/attendance/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		a.updateAttendance(w, r, id)
	case http.MethodDelete:
		a.deleteAttendance(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) listAttendance(w http.ResponseWriter, r *http.Request) {
	filter := roster.RecordFilter{
		EmployeeID: strings.TrimSpace(r.URL.Query().Get("employee_id")),
		Date:       strings.TrimSpace(r.URL.Query().Get("date")),
	}
	if filter.Date != "" && !validDate(filter.Date) {
		writeError(w, r, http.StatusBadRequest, "date must be yyyy-MM-dd")
		return
	}
	records, err := a.svc.ListRecords(r.Context(), filter)
	if err != nil {
		handleRosterError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (a *API) markAttendance(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	employeeID := strings.TrimSpace(req.EmployeeID)
	date := strings.TrimSpace(req.Date)
	if employeeID == "" {
		writeError(w, r, http.StatusBadRequest, "employeeId is required")
		return
	}
	if !validDate(date) {
		writeError(w, r, http.StatusBadRequest, "date must be yyyy-MM-dd")
		return
	}

	res, err := a.svc.Mark(r.Context(), roster.MarkInput{
		EmployeeID: employeeID,
		Date:       date,
		Status:     roster.Status(req.Status),
		Notes:      req.Notes,
	})
	if err != nil {
		handleRosterError(w, r, err)
		return
	}

	if a.stream != nil {
		ev := stream.MarkEvent{
			EmployeeID: res.Record.EmployeeID,
			Date:       res.Record.Date,
			Status:     res.Record.Status,
			Created:    res.Created,
			Timestamp:  time.Now().UTC(),
		}
		if e, err := a.svc.GetEmployee(r.Context(), res.Record.EmployeeID); err == nil {
			ev.EmployeeName = e.Name
		}
		a.stream.Publish(ev)
	}

	event := "roster.attendance.mark"
	if !res.Created {
		event = "roster.attendance.remark"
	}
	a.audit(r.Context(), event, "record", res.Record.ID, map[string]string{
		"employee_id": res.Record.EmployeeID,
		"date":        res.Record.Date,
		"status":      string(res.Record.Status),
	})

	code := http.StatusOK
	if res.Created {
		code = http.StatusCreated
	}
	writeJSON(w, code, markResponse{Record: res.Record, Created: res.Created})
}

func (a *API) updateAttendance(w http.ResponseWriter, r *http.Request, id string) {
	var req updateRecordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.EmployeeID) == "" {
		writeError(w, r, http.StatusBadRequest, "employeeId is required")
		return
	}
	if !validDate(strings.TrimSpace(req.Date)) {
		writeError(w, r, http.StatusBadRequest, "date must be yyyy-MM-dd")
		return
	}

	rec, err := a.svc.UpdateRecord(r.Context(), roster.Record{
		ID:         id,
		EmployeeID: strings.TrimSpace(req.EmployeeID),
		Date:       strings.TrimSpace(req.Date),
		Status:     roster.Status(req.Status),
		Notes:      req.Notes,
	})
	if err != nil {
		handleRosterError(w, r, err)
		return
	}

	a.audit(r.Context(), "roster.attendance.update", "record", rec.ID, map[string]string{
		"employee_id": rec.EmployeeID,
		"date":        rec.Date,
		"status":      string(rec.Status),
	})
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) deleteAttendance(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.svc.DeleteRecord(r.Context(), id); err != nil {
		handleRosterError(w, r, err)
		return
	}
	a.audit(r.Context(), "roster.attendance.delete", "record", id, nil)
	w.WriteHeader(http.StatusNoContent)
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
