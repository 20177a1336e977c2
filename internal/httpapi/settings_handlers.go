package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"rollcall.org/internal/roster"
)

type settingsRequest struct {
	Name        string   `json:"name"`
	Departments []string `json:"departments"`
	Positions   []string `json:"positions"`
	AccentColor string   `json:"accentColor"`
}

type vocabRequest struct {
	Name string `json:"name"`
}

func (a *API) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := a.svc.Settings(r.Context())
		if err != nil {
			handleRosterError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	case http.MethodPut:
		a.updateSettings(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}

func (a *API) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	settings, err := a.svc.UpdateSettings(r.Context(), roster.Settings{
		Name:        strings.TrimSpace(req.Name),
		Departments: req.Departments,
		Positions:   req.Positions,
		AccentColor: strings.TrimSpace(req.AccentColor),
	})
	if err != nil {
		handleRosterError(w, r, err)
		return
	}

	a.audit(r.Context(), "roster.settings.update", "settings", "org", nil)
	writeJSON(w, http.StatusOK, settings)
}

func (a *API) handleDepartments(w http.ResponseWriter, r *http.Request) {
	a.addVocab(w, r, "department", a.svc.AddDepartment)
}

func (a *API) handleDepartmentResource(w http.ResponseWriter, r *http.Request) {
	a.removeVocab(w, r, "/v1/settings/departments/", "department", a.svc.RemoveDepartment)
}

func (a *API) handlePositions(w http.ResponseWriter, r *http.Request) {
	a.addVocab(w, r, "position", a.svc.AddPosition)
}

func (a *API) handlePositionResource(w http.ResponseWriter, r *http.Request) {
	a.removeVocab(w, r, "/v1/settings/positions/", "position", a.svc.RemovePosition)
}

func (a *API) addVocab(w http.ResponseWriter, r *http.Request, kind string, add func(context.Context, string) (roster.Settings, error)) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req vocabRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	settings, err := add(r.Context(), name)
	if err != nil {
		handleRosterError(w, r, err)
		return
	}

	a.audit(r.Context(), "roster.settings."+kind+".add", kind, name, nil)
	writeJSON(w, http.StatusCreated, settings)
}

func (a *API) removeVocab(w http.ResponseWriter, r *http.Request, prefix, kind string, remove func(context.Context, string) (roster.Settings, error)) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, prefix)
	name, err := url.PathUnescape(raw)
	if err != nil || name == "" || strings.Contains(name, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	settings, err := remove(r.Context(), name)
	if err != nil {
		handleRosterError(w, r, err)
		return
	}

	a.audit(r.Context(), "roster.settings."+kind+".remove", kind, name, nil)
	writeJSON(w, http.StatusOK, settings)
}
