package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rollcall.org/internal/report"
)

type summaryResponse struct {
	Start     string           `json:"start"`
	End       string           `json:"end"`
	Summaries []report.Summary `json:"summaries"`
}

func (a *API) handleDailyStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	if !validDate(date) {
		writeError(w, r, http.StatusBadRequest, "date must be yyyy-MM-dd")
		return
	}

	employees, records, _, err := a.svc.Snapshot(r.Context())
	if err != nil {
		handleRosterError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Daily(employees, records, date))
}

// handleSummary accepts either explicit bounds (start, end) or a view-mode
// pair (mode=daily|weekly|monthly plus an optional ref date).
func (a *API) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	start, end, err := a.resolveWindow(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	employees, records, _, err := a.svc.Snapshot(r.Context())
	if err != nil {
		handleRosterError(w, r, err)
		return
	}

	if employeeID := strings.TrimSpace(r.URL.Query().Get("employee_id")); employeeID != "" {
		for _, e := range employees {
			if e.ID == employeeID {
				writeJSON(w, http.StatusOK, summaryResponse{
					Start:     start,
					End:       end,
					Summaries: []report.Summary{report.WindowedSummary(e, records, start, end)},
				})
				return
			}
		}
		writeError(w, r, http.StatusNotFound, "employee not found")
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Start:     start,
		End:       end,
		Summaries: report.OrganizationSummary(employees, records, start, end),
	})
}

func (a *API) resolveWindow(r *http.Request) (string, string, error) {
	q := r.URL.Query()
	start := strings.TrimSpace(q.Get("start"))
	end := strings.TrimSpace(q.Get("end"))
	if start != "" || end != "" {
		if !validDate(start) || !validDate(end) {
			return "", "", errors.New("start and end must both be yyyy-MM-dd")
		}
		return start, end, nil
	}

	mode := report.Mode(strings.TrimSpace(q.Get("mode")))
	if mode == "" {
		mode = report.ModeMonthly
	}
	ref := time.Now().UTC()
	if raw := strings.TrimSpace(q.Get("ref")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return "", "", errors.New("ref must be yyyy-MM-dd")
		}
		ref = parsed
	}
	return report.Window(ref, mode)
}

func (a *API) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	limit := 5
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 100 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = v
	}

	employees, records, _, err := a.svc.Snapshot(r.Context())
	if err != nil {
		handleRosterError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.RecentActivity(employees, records, limit))
}

func (a *API) handleWeeklySeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	ref := time.Now().UTC()
	if raw := strings.TrimSpace(r.URL.Query().Get("ref")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "ref must be yyyy-MM-dd")
			return
		}
		ref = parsed
	}

	_, records, _, err := a.svc.Snapshot(r.Context())
	if err != nil {
		handleRosterError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.WeeklySeries(records, ref))
}

func (a *API) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	employeeID := strings.TrimSpace(r.URL.Query().Get("employee_id"))
	if employeeID == "" {
		writeError(w, r, http.StatusBadRequest, "employee_id is required")
		return
	}
	ref := time.Now().UTC()
	if raw := strings.TrimSpace(r.URL.Query().Get("month")); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "month must be yyyy-MM")
			return
		}
		ref = parsed
	}

	if _, err := a.svc.GetEmployee(r.Context(), employeeID); err != nil {
		handleRosterError(w, r, err)
		return
	}
	_, records, _, err := a.svc.Snapshot(r.Context())
	if err != nil {
		handleRosterError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.EmployeeCalendar(employeeID, records, ref))
}
