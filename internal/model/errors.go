package model

import (
	"fmt"
	"strconv"
)

// ConfigurationError means the analyzer cannot run at all (missing credential).
// It is always surfaced to the caller, never replaced by the fallback result.
type ConfigurationError struct {
	Provider string
	Setting  string // env var or config key the user should set
}

func (e *ConfigurationError) Error() string {
	if e.Setting == "" {
		return fmt.Sprintf("configuration error: %s credential missing", e.Provider)
	}
	return fmt.Sprintf("configuration error: %s credential missing (set %s)", e.Provider, e.Setting)
}

// TransportError wraps a failed call to the external model
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport error: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ContractViolation means a value does not satisfy the result schema.
// From a model reply it is recovered into the fallback; from the presentation
// layer it indicates a validation bug and propagates.
type ContractViolation struct {
	Field  string
	Reason string
	Err    error
}

func (e *ContractViolation) Error() string {
	msg := "contract violation"
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ContractViolation) Unwrap() error {
	return e.Err
}

func quote(s string) string {
	if r := []rune(s); len(r) > 64 {
		s = string(r[:64]) + "..."
	}
	return strconv.Quote(s)
}
