// Package http provides JSON request and response helpers for handlers
// whose dependencies come from the container.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/km-arc/simpledi/framework/container"
	"github.com/km-arc/simpledi/framework/validation"
)

// ── Response ─────────────────────────────────────────────────────────────────

// Response wraps http.ResponseWriter with JSON helpers.
type Response struct {
	w http.ResponseWriter
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// JSON sends a JSON response.
//
//	res.JSON(http.StatusOK, map[string]any{"message": "ok"})
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// Success sends 200 JSON: {"data": v}
func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Created sends 201 JSON: {"data": v}
func (res *Response) Created(v any) {
	res.JSON(http.StatusCreated, envelope{"data": v})
}

// Error sends {"message": message} with status.
func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// Fail sends 422 with the error bag for validation errors. Any other error
// goes through ResolutionError: a 500 with the message, plus the chain for
// container errors.
func (res *Response) Fail(err error) {
	var verrs *validation.Errors
	if errors.As(err, &verrs) {
		res.ValidationError(verrs)
		return
	}
	res.ResolutionError(err)
}

// ValidationError sends 422 with the error bag.
//
//	res.ValidationError(validator.Errors())
func (res *Response) ValidationError(errs *validation.Errors) {
	res.JSON(http.StatusUnprocessableEntity, errs)
}

// ResolutionError sends 500 describing a failed container lookup. The
// resolution chain is included so the broken binding can be found.
func (res *Response) ResolutionError(err error) {
	body := envelope{"message": err.Error()}

	var (
		missing *container.MissingDependencyError
		cycle   *container.CyclicDependencyError
		perr    *container.ProviderError
	)
	switch {
	case errors.As(err, &missing):
		body["missing"] = missing.Name
		body["chain"] = missing.Chain
	case errors.As(err, &cycle):
		body["cycle"] = cycle.Name
		body["chain"] = cycle.Chain
	case errors.As(err, &perr):
		body["chain"] = perr.Chain
	}
	res.JSON(http.StatusInternalServerError, body)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope map[string]any
