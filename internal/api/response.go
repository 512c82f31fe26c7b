package api

import (
	"encoding/json"
	"net/http"
)

// JSONResponse is the envelope of every response.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail describes a failed request. Details holds per-field messages
// for validation failures.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// Response renders itself.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

type jsonResponse struct {
	status int
	header http.Header
	body   JSONResponse
}

func (j *jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	for k, v := range j.header {
		w.Header()[k] = v
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

func WithStatus(status int) JSONOption {
	return func(j *jsonResponse) { j.status = status }
}

func WithMeta(meta map[string]any) JSONOption {
	return func(j *jsonResponse) { j.body.Meta = meta }
}

func WithHeader(key, value string) JSONOption {
	return func(j *jsonResponse) { j.header.Set(key, value) }
}

// JSON wraps v as the response data.
func JSON(v any, opts ...JSONOption) Response {
	j := &jsonResponse{status: http.StatusOK, header: http.Header{}, body: JSONResponse{Data: v}}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// JSONError renders detail with the given status.
func JSONError(status int, detail *ErrorDetail, opts ...JSONOption) Response {
	j := &jsonResponse{status: status, header: http.Header{}, body: JSONResponse{Error: detail}}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

type noContent struct{}

func (noContent) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// NoContent answers 204.
func NoContent() Response {
	return noContent{}
}
