// Package errs provides the error types and mappings used by the web api.
package errs

import (
	"errors"
	"net/http"

	"github.com/coinjecture/core/foundation/blockchain/header"
	"github.com/coinjecture/core/foundation/blockchain/verifier"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Set of error kinds reported in responses.
const (
	KindInvalidInput   = "invalid_input"
	KindBudgetExceeded = "budget_exceeded"
	KindEncoding       = "encoding"
	KindInvalidHeader  = "invalid_header"
	KindValidation     = "validation"
)

// Trusted is used to pass an error during the request through the
// application with web specific context.
type Trusted struct {
	Err    error
	Status int
	Kind   string
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{Err: err, Status: status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (te *Trusted) Error() string {
	return te.Err.Error()
}

// Unwrap returns the wrapped error.
func (te *Trusted) Unwrap() error {
	return te.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var te *Trusted
	return errors.As(err, &te)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}

// FromCore classifies an error returned by the consensus core. Errors the
// core reports for bad caller input become trusted errors with a client
// status, anything else is returned untouched.
func FromCore(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, verifier.ErrBudgetExceeded):
		return &Trusted{Err: err, Status: http.StatusUnprocessableEntity, Kind: KindBudgetExceeded}
	case errors.Is(err, verifier.ErrInvalidInput):
		return &Trusted{Err: err, Status: http.StatusBadRequest, Kind: KindInvalidInput}
	case errors.Is(err, header.ErrDecode):
		return &Trusted{Err: err, Status: http.StatusBadRequest, Kind: KindEncoding}
	case errors.Is(err, header.ErrInvalidHeader):
		return &Trusted{Err: err, Status: http.StatusBadRequest, Kind: KindInvalidHeader}
	}

	return err
}
