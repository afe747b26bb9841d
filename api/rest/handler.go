package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Err is a handler error carrying the http status code to respond with.
type Err struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *Err) Error() string {
	return e.Message
}

func NewErrf(statusCode int, format string, args ...any) *Err {
	return &Err{
		StatusCode: statusCode,
		Message:    fmt.Sprintf(format, args...),
	}
}

// pathBinder is implemented by request types that read path parameters.
type pathBinder interface {
	bindPath(r *http.Request)
}

// RegisterFunc registers a typed handler on the mux. The request is decoded
// from the body when one is present, then given a chance to bind path
// parameters; handler errors of type *Err control the response status.
func RegisterFunc[Req, Resp any](logger *logrus.Logger, mux *http.ServeMux, method, pattern string, fn func(ctx context.Context, req *Req) (*Resp, error)) {
	mux.HandleFunc(method+" "+pattern, func(w http.ResponseWriter, r *http.Request) {
		req := new(Req)
		if r.Body != nil && r.ContentLength != 0 {
			err := json.NewDecoder(r.Body).Decode(req)
			if err != nil {
				logger.WithField("pattern", pattern).WithError(err).Warn("Failed to decode request body")
				writeJSON(logger, w, http.StatusBadRequest, &Err{Message: "invalid request body"})
				return
			}
		}
		if binder, ok := any(req).(pathBinder); ok {
			binder.bindPath(r)
		}

		resp, err := fn(r.Context(), req)
		if err != nil {
			restErr := &Err{}
			if errors.As(err, &restErr) {
				writeJSON(logger, w, restErr.StatusCode, restErr)
				return
			}
			logger.WithField("pattern", pattern).WithError(err).Error("Handler returned an unexpected error")
			writeJSON(logger, w, http.StatusInternalServerError, &Err{Message: "internal error"})
			return
		}

		writeJSON(logger, w, http.StatusOK, resp)
	})
}

func writeJSON(logger *logrus.Logger, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		logger.WithError(err).Error("Failed to write json response")
	}
}
