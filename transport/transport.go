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

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
)

// Transport performs authenticated requests against the TCPWave REST API.
// The path is relative to the API base url.
type Transport interface {
	Do(ctx context.Context, method, path string, params url.Values) (*Response, error)
}

// Response is a fully read backend answer
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsError returns true when the status code is not 2xx
func (r *Response) IsError() bool {
	return r.StatusCode < 200 || r.StatusCode > 299
}

// Text returns the body as a string
func (r *Response) Text() string {
	return string(r.Body)
}

// HasPrefix reports whether the body starts with the given token
func (r *Response) HasPrefix(token string) bool {
	return bytes.HasPrefix(r.Body, []byte(token))
}

// DecodeJSON decodes the body into v
func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// IsTimeout reports whether err is a request timeout, either the
// per-request deadline or the client timeout. A connection that could not
// be established in time is a connect failure, not a timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
