// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the classified HTTP transport shared by all
// providers: an error taxonomy separating transient upstream failures from
// permanent rejections and unparseable responses, and a Do helper that maps
// raw transport outcomes onto it.
package httputil

import (
	"errors"
	"fmt"
)

// TransientError is a retryable upstream failure: a quota or throttling
// signal (HTTP 429), a server-side error (5xx), or a network-level failure
// such as a connection reset or timeout.
type TransientError struct {
	Provider string
	Status   int
	Err      error
}

func (e *TransientError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: transient upstream error: HTTP %d", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s: transient upstream error: %v", e.Provider, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError is a non-retryable upstream rejection: auth failures,
// not-found, malformed request (4xx other than 429).
type PermanentError struct {
	Provider string
	Status   int
	Err      error
}

func (e *PermanentError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: upstream rejected request: HTTP %d", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s: upstream rejected request: %v", e.Provider, e.Err)
}

func (e *PermanentError) Unwrap() error { return e.Err }

// ParseError means a response was received but could not be understood.
// Callers use it to distinguish "nothing found" from "could not parse".
type ParseError struct {
	Provider string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parsing response: %v", e.Provider, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// IsPermanent reports whether err is (or wraps) a PermanentError.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

// IsParse reports whether err is (or wraps) a ParseError.
func IsParse(err error) bool {
	var p *ParseError
	return errors.As(err, &p)
}
