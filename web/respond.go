// Package web holds the shared HTTP response helpers used by every feature
// package: JSON serialization and the single error serialization path that
// turns AppErrors into status codes and payloads.
package web

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/user/eduflow-go/apperror"
)

// Responder writes JSON responses and errors. The exposeDetail flag is set
// from configuration at startup; outside production the underlying error
// detail is included in error payloads.
type Responder struct {
	exposeDetail bool
}

// NewResponder creates a Responder. Pass exposeDetail=false in production.
func NewResponder(exposeDetail bool) *Responder {
	return &Responder{exposeDetail: exposeDetail}
}

// JSON serializes data with the given status code. A nil data writes only
// the status header.
func (rs *Responder) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Too late to change the status; just log it.
		log.Printf("failed to encode response: %v", err)
	}
}

// Error converts any error into a standardized error response. Errors that
// are not AppErrors become opaque 500s; the original error is logged, never
// sent to the client in production.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("internal server error", err)
	}
	if appErr.StatusCode() >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, appErr)
	}
	rs.JSON(w, appErr.StatusCode(), appErr.ToResponse(rs.exposeDetail))
}
