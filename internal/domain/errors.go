package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrAuth         = errors.New("authentication failed")
	ErrRemote       = errors.New("remote request failed")
	ErrFormat       = errors.New("invalid document format")
	ErrModel        = errors.New("model request failed")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoDocument is returned by session operations that need a loaded document.
	ErrNoDocument = fmt.Errorf("no document loaded: %w", ErrValidation)
)

// AuthError indicates that no valid drive credential could be obtained.
// It maps to 503: the drive is unusable, not the caller's own credential.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Op + ": authentication failed"
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error        { return e.Err }
func (e *AuthError) Is(target error) bool { return target == ErrAuth }
func (e *AuthError) StatusCode() int      { return http.StatusServiceUnavailable }

// RemoteError indicates a transport failure or a non-2xx drive API response.
// Status is zero for transport failures; Body holds the response verbatim.
type RemoteError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: Graph API error %d: %s", e.Op, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error        { return e.Err }
func (e *RemoteError) Is(target error) bool { return target == ErrRemote }
func (e *RemoteError) StatusCode() int      { return http.StatusBadGateway }

// FormatError indicates a document blob that cannot be parsed or serialized.
type FormatError struct {
	Op  string
	Err error
}

func (e *FormatError) Error() string        { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *FormatError) Unwrap() error        { return e.Err }
func (e *FormatError) Is(target error) bool { return target == ErrFormat }
func (e *FormatError) StatusCode() int      { return http.StatusUnprocessableEntity }

// ModelFailure distinguishes the ways a model call can fail.
type ModelFailure string

const (
	ModelTransport ModelFailure = "transport" // provider call failed
	ModelEmpty     ModelFailure = "empty"     // blank reply
	ModelMalformed ModelFailure = "malformed" // reply is not parseable JSON
	ModelShape     ModelFailure = "shape"     // required fields missing or mistyped
)

// ModelError indicates an unusable reply from the language model.
type ModelError struct {
	Op   string
	Kind ModelFailure
	Err  error
}

func (e *ModelError) Error() string {
	if e.Kind == ModelTransport {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s model reply: %v", e.Op, e.Kind, e.Err)
}

func (e *ModelError) Unwrap() error        { return e.Err }
func (e *ModelError) Is(target error) bool { return target == ErrModel }
func (e *ModelError) StatusCode() int      { return http.StatusBadGateway }

// ValidationError indicates invalid input or a document judged unusable.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string        { return e.Message }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *ValidationError) StatusCode() int      { return http.StatusBadRequest }
