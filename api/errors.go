package api

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

// Error is a request the API answered with a failure.
type Error struct {
	Status    int
	Message   string
	Fields    map[string][]string
	RequestID string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return "api: " + msg
}

// Unauthorized reports a missing, expired or revoked token
func (e *Error) Unauthorized() bool { return e.Status == http.StatusUnauthorized }

// FieldMessages flattens field errors, sorted by field name
func (e *Error) FieldMessages() []string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	var out []string
	for _, f := range fields {
		out = append(out, e.Fields[f]...)
	}
	return out
}

// Message reduces any error to one line for the error banner: the server's
// message, else its first field error, else fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return fallback
	}
	if m := strings.TrimSpace(apiErr.Message); m != "" {
		return m
	}
	if fm := apiErr.FieldMessages(); len(fm) > 0 {
		return fm[0]
	}
	return fallback
}

// IsStatus reports whether err is an API failure with the given HTTP status
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}
