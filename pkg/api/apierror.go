// Package api serves the design engine over HTTP with RFC 7807 error responses.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/catalog"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/design"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/drafting"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/projectstore"
	"github.com/SteveTechApp/WyreStorm-Sales-Wizard-sub001/pkg/session"
)

// ProblemDetail implements RFC 7807 (Problem Details for HTTP APIs).
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	// TraceID echoes the request's X-Request-ID.
	TraceID string `json:"trace_id,omitempty"`
	// Errors lists individual validation failures.
	Errors []string `json:"errors,omitempty"`
}

func (p *ProblemDetail) Error() string {
	return fmt.Sprintf("%s: %s", p.Title, p.Detail)
}

func problemType(status int) string {
	return "/problems/" + strconv.Itoa(status)
}

// WriteError writes an RFC 7807 response enriched with request context.
func WriteError(w http.ResponseWriter, r *http.Request, status int, title, detail string) {
	writeProblem(w, r, &ProblemDetail{Title: title, Status: status, Detail: detail})
}

func writeProblem(w http.ResponseWriter, r *http.Request, p *ProblemDetail) {
	p.Type = problemType(p.Status)
	if r != nil {
		p.Instance = r.URL.Path
	}
	p.TraceID = w.Header().Get(RequestIDHeader)

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// WriteBadRequest writes a 400 error response.
func WriteBadRequest(w http.ResponseWriter, r *http.Request, detail string) {
	WriteError(w, r, http.StatusBadRequest, "Bad Request", detail)
}

// WriteNotFound writes a 404 error response.
func WriteNotFound(w http.ResponseWriter, r *http.Request, detail string) {
	WriteError(w, r, http.StatusNotFound, "Not Found", detail)
}

// WriteTooManyRequests writes a 429 error response with Retry-After header.
func WriteTooManyRequests(w http.ResponseWriter, r *http.Request, retryAfterSecs int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSecs))
	WriteError(w, r, http.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded. Retry after the specified interval.")
}

// WriteInternal writes a 500 error response.
// The err parameter is logged but never exposed to the client.
func WriteInternal(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error", "error", err, "path", r.URL.Path)
	WriteError(w, r, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred. Please try again later.")
}

// WriteDomainError maps engine, session and store errors onto problem
// responses. Anything unrecognised is a 500.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *design.ValidationError
	var lerr *catalog.LoadError
	switch {
	case errors.As(err, &verr):
		writeProblem(w, r, &ProblemDetail{
			Title:  "Invalid Configuration",
			Status: http.StatusUnprocessableEntity,
			Detail: "The configuration failed validation.",
			Errors: verr.Fields,
		})
	case errors.As(err, &lerr):
		writeProblem(w, r, &ProblemDetail{
			Title:  "Invalid Catalog",
			Status: http.StatusUnprocessableEntity,
			Detail: "The catalog document was rejected.",
			Errors: lerr.Issues,
		})
	case errors.Is(err, session.ErrVersionConflict):
		WriteError(w, r, http.StatusPreconditionFailed, "Precondition Failed", err.Error())
	case errors.Is(err, session.ErrRoomExists):
		WriteError(w, r, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, session.ErrRoomNotFound),
		errors.Is(err, projectstore.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound):
		WriteNotFound(w, r, err.Error())
	case errors.Is(err, catalog.ErrNotLoaded):
		WriteError(w, r, http.StatusServiceUnavailable, "Service Unavailable", "No product catalog is loaded.")
	case errors.Is(err, drafting.ErrNoDraft):
		WriteError(w, r, http.StatusBadGateway, "Bad Gateway", err.Error())
	default:
		WriteInternal(w, r, err)
	}
}
