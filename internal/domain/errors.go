package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types shared by every adapter. Adapters classify transport and store
// failures into exactly one of these before returning them.

// APIError means the backend understood the request and rejected or failed it.
type APIError struct {
	Status  int
	Message string
	Details any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// ValidationError carries per-field validation failures reported by the backend
// or by a consumer flow before anything is sent.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s (%d fields)", e.Message, len(e.Fields))
}

// Add appends a message for field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Empty reports whether no field failed.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// NetworkError means no interpretable response was received.
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("network error: %s", e.Message)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ConfigError indicates the client could not be built from its configuration.
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error [%s]: %s", e.Key, e.Message)
}

// NotImplemented is returned for operations whose capability the adapter lacks.
func NotImplemented(op string) *APIError {
	return &APIError{Status: http.StatusNotImplemented, Message: "Not implemented", Details: op}
}

// Unauthenticated is returned when a call needs a session and none is held.
func Unauthenticated() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: "Not authenticated"}
}

// NotFound is returned when the addressed row or resource does not exist.
func NotFound(resource, id string) *APIError {
	return &APIError{Status: http.StatusNotFound, Message: "Resource not found", Details: map[string]string{"resource": resource, "id": id}}
}

// Conflict is returned when a lifecycle transition is not allowed from the current state.
func Conflict(msg string) *APIError {
	return &APIError{Status: http.StatusConflict, Message: msg}
}

// ErrorKind is the closed set of error classes an adapter call can fail with.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindAPI
	KindValidation
	KindNetwork
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindAPI:
		return "api"
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Classify maps err onto its ErrorKind so callers can switch exhaustively.
func Classify(err error) ErrorKind {
	var apiErr *APIError
	var validation *ValidationError
	var network *NetworkError
	var cfg *ConfigError

	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &apiErr):
		return KindAPI
	case errors.As(err, &network):
		return KindNetwork
	case errors.As(err, &cfg):
		return KindConfig
	default:
		return KindUnknown
	}
}

// StatusOf returns the HTTP-like status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	return StatusOf(err) == status
}
