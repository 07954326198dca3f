package kroger

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies vendor API failures so callers can branch on the
// kind instead of re-parsing status codes at every call site.
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindUnauthorized
	KindForbidden
	KindBadRequest
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	default:
		return "unexpected"
	}
}

// APIError is a non-2xx response from the vendor API.
type APIError struct {
	Kind   ErrorKind
	Status int
	Reason string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("kroger api: %s (%d): %s", e.Kind, e.Status, e.Reason)
	}
	return fmt.Sprintf("kroger api: %s (%d)", e.Kind, e.Status)
}

// KindOf extracts the error kind, KindUnexpected for anything that is not
// an APIError.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnexpected
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Reason: reasonFrom(body)}
	switch status {
	case http.StatusUnauthorized:
		e.Kind = KindUnauthorized
	case http.StatusForbidden:
		e.Kind = KindForbidden
	case http.StatusBadRequest:
		e.Kind = KindBadRequest
	case http.StatusNotFound:
		e.Kind = KindNotFound
	default:
		e.Kind = KindUnexpected
	}
	return e
}

// reasonFrom pulls the human-readable reason out of a vendor error body,
// best effort.
func reasonFrom(body []byte) string {
	var payload struct {
		Reason string `json:"reason"`
		Error  string `json:"error"`
		Errors struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	switch {
	case payload.Reason != "":
		return payload.Reason
	case payload.Errors.Reason != "":
		return payload.Errors.Reason
	default:
		return payload.Error
	}
}
