// Package httpjson writes JSON responses and decodes JSON request bodies for
// the API handlers.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/marufbinsalim/walletree/internal/app/system/apperr"
	"github.com/marufbinsalim/walletree/internal/app/system/requestlog"
	"go.uber.org/zap"
)

// MaxBodyBytes caps request bodies read by Decode.
const MaxBodyBytes = 1 << 20

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with 200.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Error renders err as {"error":{"code","message"}}. Non-domain errors are
// logged and reported as INTERNAL without their detail.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		if log != nil {
			log.Error("request failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", requestlog.ID(r.Context())),
				zap.Error(err))
		}
		ae = apperr.New(apperr.CodeInternal, "Internal error")
	}
	Write(w, apperr.HTTPStatus(ae.Code), errorBody{Error: errorDetail{Code: ae.Code, Message: ae.Message}})
}

// Decode reads a JSON body into dst, rejecting unknown fields and trailing data.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Invalid("request body is required")
		}
		return apperr.Invalid("malformed JSON body: " + err.Error())
	}
	if dec.More() {
		return apperr.Invalid("request body must contain a single JSON object")
	}
	return nil
}

// ParseID parses a path or query id, reporting a malformed value as
// INVALID_ARGUMENT naming field.
func ParseID[T any](raw, field string, parse func(string) (T, error)) (T, error) {
	id, err := parse(raw)
	if err != nil {
		var zero T
		return zero, apperr.Invalid(field + " is not a valid id")
	}
	return id, nil
}
