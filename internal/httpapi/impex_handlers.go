package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rollcall.org/internal/impex"
)

func (a *API) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	doc, err := a.impex.Export(r.Context())
	if err != nil {
		handleRosterError(w, r, err)
		return
	}

	a.audit(r.Context(), "impex.export", "snapshot", "", map[string]string{
		"employees": strconv.Itoa(len(doc.Employees)),
		"records":   strconv.Itoa(len(doc.AttendanceRecords)),
	})
	w.Header().Set("Content-Disposition", attachment("attendance-export", "json"))
	writeJSON(w, http.StatusOK, doc)
}

func (a *API) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	a.exportTabular(w, r, "csv", "text/csv; charset=utf-8", a.impex.ExportCSV)
}

func (a *API) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	a.exportTabular(w, r, "xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		a.impex.ExportXLSX)
}

func (a *API) exportTabular(w http.ResponseWriter, r *http.Request, ext, contentType string, render func(context.Context, impex.Kind) ([]byte, error)) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	kind := impex.Kind(strings.TrimSpace(r.URL.Query().Get("kind")))
	if kind != impex.KindEmployees && kind != impex.KindAttendance {
		writeError(w, r, http.StatusBadRequest, "kind must be employees or attendance")
		return
	}

	data, err := render(r.Context(), kind)
	if err != nil {
		handleRosterError(w, r, err)
		return
	}

	a.audit(r.Context(), "impex.export.tabular", "table", string(kind), map[string]string{"format": ext})
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", attachment(string(kind), ext))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (a *API) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 4<<20))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "unable to read request body")
		return
	}

	rep, err := a.impex.Import(r.Context(), body)
	if err != nil {
		handleRosterError(w, r, err)
		return
	}

	a.audit(r.Context(), "impex.import", "snapshot", "", map[string]string{
		"employees": strconv.Itoa(rep.Employees),
		"records":   strconv.Itoa(rep.Records),
	})
	writeJSON(w, http.StatusOK, rep)
}

func (a *API) handleData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	if err := a.svc.ClearAll(r.Context()); err != nil {
		handleRosterError(w, r, err)
		return
	}
	a.audit(r.Context(), "roster.clear", "all", "", nil)
	w.WriteHeader(http.StatusNoContent)
}

func attachment(base, ext string) string {
	return fmt.Sprintf("attachment; filename=%q",
		base+"-"+time.Now().UTC().Format("2006-01-02")+"."+ext)
}
