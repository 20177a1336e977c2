package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"rollcall.org/internal/audit"
	"rollcall.org/internal/impex"
	"rollcall.org/internal/obs"
	"rollcall.org/internal/roster"
	"rollcall.org/internal/stream"
)

// ReadyProbe reports whether the backing store is reachable (a DB ping when
// the Postgres gateway is in use; trivially ready otherwise).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer; every route maps 1:1 onto a roster or impex
// operation.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string
	svc        roster.Service
	impex      *impex.Engine
	stream     *stream.Stream

	rateBurst  int
	ratePerSec int
}

func New(rp ReadyProbe, version string, svc roster.Service, st *stream.Stream) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,
		svc:        svc,
		impex:      impex.NewEngine(svc),
		stream:     st,
		rateBurst:  40,
		ratePerSec: 20,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/employees", a.handleEmployeesCollection)
	a.mux.HandleFunc("/v1/employees/", a.handleEmployeeResource)

	a.mux.HandleFunc("/v1/attendance", a.handleAttendanceCollection)
	a.mux.HandleFunc("/v1/attendance/", a.handleAttendanceResource)

	a.mux.HandleFunc("/v1/stats/daily", a.handleDailyStats)
	a.mux.HandleFunc("/v1/stats/summary", a.handleSummary)
	a.mux.HandleFunc("/v1/stats/recent", a.handleRecentActivity)
	a.mux.HandleFunc("/v1/stats/series", a.handleWeeklySeries)
	a.mux.HandleFunc("/v1/stats/calendar", a.handleCalendar)

	a.mux.HandleFunc("/v1/settings", a.handleSettings)
	a.mux.HandleFunc("/v1/settings/departments", a.handleDepartments)
	a.mux.HandleFunc("/v1/settings/departments/", a.handleDepartmentResource)
	a.mux.HandleFunc("/v1/settings/positions", a.handlePositions)
	a.mux.HandleFunc("/v1/settings/positions/", a.handlePositionResource)

	a.mux.HandleFunc("/v1/export", a.handleExport)
	a.mux.HandleFunc("/v1/export/csv", a.handleExportCSV)
	a.mux.HandleFunc("/v1/export/xlsx", a.handleExportXLSX)
	a.mux.HandleFunc("/v1/import", a.handleImport)
	a.mux.HandleFunc("/v1/data", a.handleData)

	a.mux.HandleFunc("/v1/stream", a.handleStream)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the full middleware chain around the mux.
func (a *API) Handler() http.Handler {
	h := http.Handler(a.mux)
	h = MaxBodyBytes(h, 4<<20)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = Logging(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- health/info ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "rollcall-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "rollcall-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func (a *API) audit(ctx context.Context, event, entity, id string, meta map[string]string) {
	fields := map[string]any{
		"entity":    entity,
		"entity_id": id,
	}
	for k, v := range meta {
		fields[k] = v
	}
	_ = audit.LogEvent(ctx, event, fields)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func handleRosterError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, roster.ErrInvalidStatus):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, roster.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, roster.ErrDuplicateEntry),
		errors.Is(err, roster.ErrInUse),
		errors.Is(err, roster.ErrDuplicateDay):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, impex.ErrInvalidSnapshot),
		errors.Is(err, impex.ErrEmptyDataset):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
