package model

import (
	"errors"
	"net/http"
)

var ErrLoad = errors.New("")    // Base error for CA material that cannot be read.
var ErrParse = errors.New("")   // Base error for malformed PEM/DER input.
var ErrDecode = errors.New("")  // Base error for invalid base64 input.
var ErrBuild = errors.New("")   // Base error for certificate construction.
var ErrSigning = errors.New("") // Base error for key/digest incompatibility and signing.

var ErrBadRequest = errors.New("")      // Base error for request bodies that cannot be decoded.
var ErrTooManyRequests = errors.New("") // Base error for requests rejected by the rate limiter.

// ErrToStatusMessage renders err as the diagnostic carried by a FAILURE envelope.
func ErrToStatusMessage(err error) string {
	if err == nil {
		return string(StatusSuccess)
	}
	if msg := err.Error(); msg != "" {
		return msg
	}

	switch {
	case errors.Is(err, ErrDecode):
		return "invalid base64 input"
	case errors.Is(err, ErrParse):
		return "malformed input"
	case errors.Is(err, ErrBuild):
		return "certificate cannot be built"
	case errors.Is(err, ErrSigning):
		return "certificate cannot be signed"
	case errors.Is(err, ErrLoad):
		return "CA material cannot be loaded"
	case errors.Is(err, ErrBadRequest):
		return "invalid request"
	case errors.Is(err, ErrTooManyRequests):
		return "too many requests"
	}
	return "internal error"
}

// ErrToHttpStatus maps err to the HTTP status of its envelope.
// Issuance failures are reported in the envelope of a 200 response.
func ErrToHttpStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrDecode), errors.Is(err, ErrParse), errors.Is(err, ErrBuild), errors.Is(err, ErrSigning):
		return http.StatusOK
	}
	return http.StatusInternalServerError
}
