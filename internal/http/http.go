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

package http

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/http2"
)

const (
	dialTimeout         = 5 * time.Second
	keepAlive           = 30 * time.Second
	idleConnTimeout     = 90 * time.Second
	tlsHandshakeTimeout = 10 * time.Second
	// maxIdleConnsPerHost matches the fan-out width of a lease aggregation
	maxIdleConnsPerHost = 32
)

// NewHTTPClient creates an HTTP client for plain http endpoints.
// Redirects are not followed: the TCPWave REST API never redirects and a redirect
// usually means the address is pointing at a login page.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		},
		Timeout:   timeout,
		Transport: newTransport(nil),
	}
}

// NewHTTPSClient creates an HTTP client that negotiates HTTP/2 over TLS when
// the server offers it and falls back to HTTP/1.1 otherwise.
//
// Parameters:
//   - clientTLS: TLS configuration for secure connections. Must not be nil.
//     It carries the client certificate when the server requires one.
//   - timeout: overall timeout of a single request, zero means no timeout.
func NewHTTPSClient(clientTLS *tls.Config, timeout time.Duration) *http.Client {
	transport := newTransport(clientTLS)
	// ConfigureTransport only fails when the transport was already configured
	_ = http2.ConfigureTransport(transport)

	return &http.Client{
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		},
		Timeout:   timeout,
		Transport: transport,
	}
}

func newTransport(clientTLS *tls.Config) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: keepAlive,
	}

	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSClientConfig:     clientTLS,
		TLSHandshakeTimeout: tlsHandshakeTimeout,
		IdleConnTimeout:     idleConnTimeout,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
	}
}

// JoinURL appends the given path to base, keeping exactly one slash between
// them and preserving any path already present in base.
func JoinURL(base, path string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(base), "/"))
	if err != nil {
		return nil, err
	}
	u.Path = u.Path + "/" + strings.TrimLeft(path, "/")
	u.RawPath = ""
	return u, nil
}
