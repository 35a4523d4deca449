package errors

import (
	// Go Internal Packages
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies an error for propagation decisions and HTTP mapping.
type Kind uint8

const (
	Other       Kind = iota // unclassified
	Invalid                 // bad input or terminal business rejection
	NotFound                // requested entity does not exist
	Conflict                // already exists, duplicate submission
	Unavailable             // dependency unreachable or exhausted retries
	Internal                // invariant broken inside the service
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	case Unavailable:
		return "unavailable"
	case Internal:
		return "internal"
	}
	return "other"
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// E builds an *Error from its arguments: a Kind, a message string and an
// optional wrapped error, in any order. Unknown argument types are ignored.
func E(args ...any) error {
	e := &Error{Kind: Other}
	for _, arg := range args {
		switch a := arg.(type) {
		case Kind:
			e.Kind = a
		case string:
			e.Message = a
		case error:
			e.Err = a
		}
	}
	return e
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of err, unwrapping as needed. Plain errors are Other.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

// Is reports whether err carries the given kind.
func Is(kind Kind, err error) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the stable user-facing message of err without any wrapped
// internal detail. Plain errors fall back to a generic message so raw provider
// strings never leak to the API boundary.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "internal error"
}

// HTTPStatus maps an error to the status code the API layer should answer with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Invalid:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Unavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ValidationErrors collects per-field validation failures so callers can report
// all of them at once instead of stopping at the first.
type ValidationErrors struct {
	fields map[string]string
}

func ValidationErrs() *ValidationErrors {
	return &ValidationErrors{fields: make(map[string]string)}
}

func (v *ValidationErrors) Add(field, msg string) {
	v.fields[field] = msg
}

// Err returns nil when no failures were added, otherwise a single error listing
// every field in stable order.
func (v *ValidationErrors) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v.fields[k]))
	}
	return errors.New(strings.Join(parts, "; "))
}
