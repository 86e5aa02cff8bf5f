// Package apperr defines the typed error carried across the daemon
// boundary and returned by every operation in this module.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code identifies one failure class in daemon responses. The set is
// closed: the daemon never emits a code outside this list, and unknown
// strings normalize to CodeUnknown on decode.
type Code string

const (
	CodeIO               Code = "IO"
	CodeSerialization    Code = "SERIALIZATION"
	CodeModPkg           Code = "MODPKG"
	CodeLeagueNotFound   Code = "LEAGUE_NOT_FOUND"
	CodeInvalidPath      Code = "INVALID_PATH"
	CodeModNotFound      Code = "MOD_NOT_FOUND"
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeInternalState    Code = "INTERNAL_STATE"
	CodePatcherRunning   Code = "PATCHER_RUNNING"
	CodeUnknown          Code = "UNKNOWN"
)

// Known reports whether c is one of the defined codes.
func (c Code) Known() bool {
	switch c {
	case CodeIO, CodeSerialization, CodeModPkg, CodeLeagueNotFound,
		CodeInvalidPath, CodeModNotFound, CodeValidationFailed,
		CodeInternalState, CodePatcherRunning, CodeUnknown:
		return true
	}
	return false
}

// Error is the structured failure payload of a daemon response. Context
// carries operation-specific detail (a path, a mod id) for display and
// logging; it is never parsed.
type Error struct {
	Code    Code              `json:"code"`
	Message string            `json:"message"`
	Context map[string]string `json:"context,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+e.Context[k])
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(parts, " "))
}

// Normalize coerces an out-of-set code to CodeUnknown. Called on every
// decoded daemon error so the rest of the program can rely on the
// closed set.
func (e *Error) Normalize() {
	if !e.Code.Known() {
		e.Code = CodeUnknown
	}
}

// New builds an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithContext returns e with one context entry added, allocating the
// map on first use.
func (e *Error) WithContext(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string, 1)
	}
	e.Context[key] = value
	return e
}

// From converts any error into an *Error. Typed errors pass through
// unchanged, wrapped or not; everything else is classified under the
// fallback code.
func From(err error, fallback Code) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Code: fallback, Message: err.Error()}
}

// CodeOf extracts the code of a typed error anywhere in err's chain,
// or CodeUnknown when none is present.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
