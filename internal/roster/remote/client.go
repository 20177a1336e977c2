// Package remote is a thin HTTP client for the rollcall API, mirroring the
// server's JSON surface for smoke tooling and demo seeding.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rollcall.org/internal/impex"
	"rollcall.org/internal/report"
	"rollcall.org/internal/roster"
)

// APIError carries the server's status code and error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to one rollcall server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client with sensible defaults.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) AddEmployee(ctx context.Context, in roster.EmployeeInput) (roster.Employee, error) {
	var out roster.Employee
	err := c.do(ctx, http.MethodPost, "/v1/employees", map[string]string{
		"name":       in.Name,
		"employeeId": in.Code,
		"department": in.Department,
		"position":   in.Position,
		"joinDate":   in.JoinDate,
	}, &out)
	return out, err
}

func (c *Client) ListEmployees(ctx context.Context) ([]roster.Employee, error) {
	var out []roster.Employee
	err := c.do(ctx, http.MethodGet, "/v1/employees", nil, &out)
	return out, err
}

func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/employees/"+url.PathEscape(id), nil, nil)
}

type markResponse struct {
	Record  roster.Record `json:"record"`
	Created bool          `json:"created"`
}

func (c *Client) Mark(ctx context.Context, in roster.MarkInput) (roster.MarkResult, error) {
	var out markResponse
	err := c.do(ctx, http.MethodPost, "/v1/attendance", map[string]string{
		"employeeId": in.EmployeeID,
		"date":       in.Date,
		"status":     string(in.Status),
		"notes":      in.Notes,
	}, &out)
	return roster.MarkResult{Record: out.Record, Created: out.Created}, err
}

func (c *Client) ListRecords(ctx context.Context, f roster.RecordFilter) ([]roster.Record, error) {
	q := url.Values{}
	if f.EmployeeID != "" {
		q.Set("employee_id", f.EmployeeID)
	}
	if f.Date != "" {
		q.Set("date", f.Date)
	}
	path := "/v1/attendance"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []roster.Record
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) DailyStats(ctx context.Context, date string) (report.DailyStats, error) {
	var out report.DailyStats
	err := c.do(ctx, http.MethodGet, "/v1/stats/daily?date="+url.QueryEscape(date), nil, &out)
	return out, err
}

// SummaryResult mirrors the summary endpoint payload.
type SummaryResult struct {
	Start     string           `json:"start"`
	End       string           `json:"end"`
	Summaries []report.Summary `json:"summaries"`
}

func (c *Client) Summary(ctx context.Context, mode report.Mode, ref string) (SummaryResult, error) {
	q := url.Values{"mode": {string(mode)}}
	if ref != "" {
		q.Set("ref", ref)
	}
	var out SummaryResult
	err := c.do(ctx, http.MethodGet, "/v1/stats/summary?"+q.Encode(), nil, &out)
	return out, err
}

func (c *Client) Export(ctx context.Context) (impex.Document, error) {
	var out impex.Document
	err := c.do(ctx, http.MethodGet, "/v1/export", nil, &out)
	return out, err
}

func (c *Client) Import(ctx context.Context, doc impex.Document) (impex.ImportReport, error) {
	var out impex.ImportReport
	err := c.do(ctx, http.MethodPost, "/v1/import", doc, &out)
	return out, err
}

func (c *Client) ClearAll(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/v1/data", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dst any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := resp.Status
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
