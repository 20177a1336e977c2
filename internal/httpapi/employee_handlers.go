package httpapi

import (
	"net/http"
	"strings"

	"rollcall.org/internal/roster"
)

type employeeRequest struct {
	Name       string `json:"name"`
	Code       string `json:"employeeId"`
	Department string `json:"department"`
	Position   string `json:"position"`
	JoinDate   string `json:"joinDate"`
}

func (req employeeRequest) validate() string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(req.Code) == "" {
		return "employeeId is required"
	}
	if strings.TrimSpace(req.JoinDate) == "" {
		return "joinDate is required"
	}
	return ""
}

func (a *API) handleEmployeesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listEmployees(w, r)
	case http.MethodPost:
		a.addEmployee(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleEmployeeResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/employees/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getEmployee(w, r, id)
	case http.MethodPut:
		a.updateEmployee(w, r, id)
	case http.MethodDelete:
		a.deleteEmployee(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) listEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := a.svc.ListEmployees(r.Context())
	if err != nil {
		handleRosterError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (a *API) addEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	e, err := a.svc.AddEmployee(r.Context(), roster.EmployeeInput{
		Name:       strings.TrimSpace(req.Name),
		Code:       strings.TrimSpace(req.Code),
		Department: strings.TrimSpace(req.Department),
		Position:   strings.TrimSpace(req.Position),
		JoinDate:   strings.TrimSpace(req.JoinDate),
	})
	if err != nil {
		handleRosterError(w, r, err)
		return
	}

	a.audit(r.Context(), "roster.employee.create", "employee", e.ID, map[string]string{
		"name": e.Name,
		"code": e.Code,
	})

	w.Header().Set("Location", "/v1/employees/"+e.ID)
	writeJSON(w, http.StatusCreated, e)
}

func (a *API) getEmployee(w http.ResponseWriter, r *http.Request, id string) {
	e, err := a.svc.GetEmployee(r.Context(), id)
	if err != nil {
		handleRosterError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (a *API) updateEmployee(w http.ResponseWriter, r *http.Request, id string) {
	var req employeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	e, err := a.svc.UpdateEmployee(r.Context(), roster.Employee{
		ID:         id,
		Name:       strings.TrimSpace(req.Name),
		Code:       strings.TrimSpace(req.Code),
		Department: strings.TrimSpace(req.Department),
		Position:   strings.TrimSpace(req.Position),
		JoinDate:   strings.TrimSpace(req.JoinDate),
	})
	if err != nil {
		handleRosterError(w, r, err)
		return
	}

	a.audit(r.Context(), "roster.employee.update", "employee", e.ID, nil)
	writeJSON(w, http.StatusOK, e)
}

func (a *API) deleteEmployee(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.svc.DeleteEmployee(r.Context(), id); err != nil {
		handleRosterError(w, r, err)
		return
	}
	a.audit(r.Context(), "roster.employee.delete", "employee", id, nil)
	w.WriteHeader(http.StatusNoContent)
}
