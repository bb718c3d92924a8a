// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransport is the sentinel matched by every *TransportError. It is returned
	// when a backend request fails in a way that is not known to be benign.
	ErrTransport = errors.New("transport error")

	// ErrServerNotFound is returned when a DHCP server name or address is not part of the
	// server directory.
	ErrServerNotFound = errors.New("dhcp server not found")

	// ErrLeaseNotFound is returned by the find-first searches when no lease matched
	// after every server has been drained.
	ErrLeaseNotFound = errors.New("dhcp lease not found")

	// ErrInvalidArgument is returned when a call is missing a required argument
	// or carries an argument that cannot be used.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateServer is returned when the list of DHCP servers would break the
	// one-to-one mapping between server names and server addresses.
	ErrDuplicateServer = errors.New("duplicate dhcp server")

	// ErrInvalidResponse is returned when a backend answered with a body that cannot be decoded.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrTaskSetConsumed is returned when a set of fetch tasks is drained more than once.
	ErrTaskSetConsumed = errors.New("fetch task set already consumed")

	// ErrBaseURLRequired is returned when the TCPWave address is not configured.
	ErrBaseURLRequired = errors.New("missing required base url")
)

// NewErrServerNotFound formats an ErrServerNotFound with the given name or address.
func NewErrServerNotFound(key string) error {
	return fmt.Errorf("(server=%s) %w", key, ErrServerNotFound)
}

// NewErrInvalidArgument wraps a base error with ErrInvalidArgument for additional context.
func NewErrInvalidArgument(err error) error {
	return errors.Join(ErrInvalidArgument, err)
}

// NewErrDuplicateServer formats an ErrDuplicateServer for the given field and value.
func NewErrDuplicateServer(field, value string) error {
	return fmt.Errorf("(%s=%s) %w", field, value, ErrDuplicateServer)
}

// NewErrInvalidResponse wraps a decoding error with ErrInvalidResponse.
func NewErrInvalidResponse(err error) error {
	return errors.Join(ErrInvalidResponse, err)
}

// maxBodyLen bounds how much of a response body is kept in a TransportError message
const maxBodyLen = 256

// TransportError defines a backend request failure that must be surfaced
// to the caller. StatusCode is zero when no response was received.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	err        error
}

// enforce compilation error
var _ error = (*TransportError)(nil)

// NewTransportError creates a TransportError from a non-successful response
func NewTransportError(method, path string, statusCode int, body string) *TransportError {
	return &TransportError{
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
		Body:       body,
	}
}

// NewTransportFailure creates a TransportError from a request that did not
// produce any response
func NewTransportFailure(method, path string, err error) *TransportError {
	return &TransportError{
		Method: method,
		Path:   path,
		err:    err,
	}
}

// Error implements the standard error interface
func (e *TransportError) Error() string {
	var sb strings.Builder
	sb.WriteString("transport error: ")
	sb.WriteString(e.Method)
	sb.WriteString(" ")
	sb.WriteString(e.Path)
	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, " status=%d", e.StatusCode)
	}

	if body := strings.TrimSpace(e.Body); body != "" {
		if len(body) > maxBodyLen {
			body = body[:maxBodyLen] + "..."
		}
		sb.WriteString(": ")
		sb.WriteString(body)
	}

	if e.err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause when the request did not produce a response
func (e *TransportError) Unwrap() error {
	return e.err
}

// Is makes every TransportError match ErrTransport
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
