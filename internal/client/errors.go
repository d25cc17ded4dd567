package client

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotAuthenticated is returned by operations that require a session
	// when none is held. No request is sent.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrValidation marks input rejected before any request is sent.
	ErrValidation = errors.New("invalid input")
	// ErrSessionPersist reports that the server accepted a login but the
	// token could not be stored locally. The session stays anonymous.
	ErrSessionPersist = errors.New("unable to store session")
)

// RejectedError reports that the server answered and declared failure.
// Message is user-facing and passed through verbatim.
type RejectedError struct {
	Op      string
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Op, e.Message)
}

// TransportError reports that a request could not complete: dial, timeout,
// unreadable or malformed response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ValidationError lists the fields that failed pre-flight checks.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages(), " ")
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Messages returns the field messages ordered by field name.
func (e *ValidationError) Messages() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, e.Fields[name])
	}
	return out
}
