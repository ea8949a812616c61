package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// HTTPErrorAdapter writes classified errors as JSON responses.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter creates a new HTTP error adapter. A nil logger uses slog.Default.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// HTTPErrorResponse is the JSON error payload.
type HTTPErrorResponse struct {
	Error       string         `json:"error"`
	Category    string         `json:"category,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	UserFixable bool           `json:"user_fixable,omitempty"`
}

// StatusCodeFor maps err to an HTTP status. Unclassified errors are 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if c, ok := AsClassified(err); ok {
		if info, known := categories[c.category]; known {
			return info.httpStatus
		}
	}
	return http.StatusInternalServerError
}

// FormatErrorResponse converts err into the JSON payload.
func (a *HTTPErrorAdapter) FormatErrorResponse(err error) HTTPErrorResponse {
	if err == nil {
		return HTTPErrorResponse{}
	}
	c, ok := AsClassified(err)
	if !ok {
		return HTTPErrorResponse{Error: err.Error()}
	}
	resp := HTTPErrorResponse{Error: c.message, Category: string(c.category), UserFixable: c.userFixable}
	if len(c.context) > 0 {
		resp.Details = map[string]any(c.context)
	}
	return resp
}

// WriteErrorResponse writes err as JSON with its status code and logs it.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	status := a.StatusCodeFor(err)
	body, jerr := json.Marshal(a.FormatErrorResponse(err))
	if jerr != nil {
		body = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)

	level := slog.LevelError
	if c, ok := AsClassified(err); ok {
		level = levelFor(c.severity)
	}
	a.logger.Log(r.Context(), level, err.Error(), slog.Int("status", status), slog.String("path", r.URL.Path))
}
