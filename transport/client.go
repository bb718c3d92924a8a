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
	"context"
	"crypto/tls"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/kapetan-io/tackle/autotls"

	"github.com/tochemey/gotcpwave/errors"
	"github.com/tochemey/gotcpwave/internal/http"
	"github.com/tochemey/gotcpwave/log"
)

// Client is the HTTP Transport to a TCPWave REST API.
// An instance of the Client can be reused and it is thread safe.
type Client struct {
	baseURL string
	token   string
	orgName string
	client  *nethttp.Client
	logger  log.Logger
}

// enforce compilation error
var _ Transport = (*Client)(nil)

// New creates an instance of Client
func New(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := config.logger
	if logger == nil {
		logger = log.DiscardLogger
	}

	client := &Client{
		baseURL: config.BaseURL(),
		token:   config.Token,
		orgName: config.OrgName,
		logger:  logger,
	}

	tlsConfig, err := clientTLS(config)
	if err != nil {
		return nil, err
	}

	switch {
	case tlsConfig != nil:
		client.client = http.NewHTTPSClient(tlsConfig, config.Timeout)
	default:
		client.client = http.NewHTTPClient(config.Timeout)
	}

	return client, nil
}

// OrgName returns the default organization
func (x *Client) OrgName() string {
	return x.orgName
}

// BaseURL returns the REST API base url
func (x *Client) BaseURL() string {
	return x.baseURL
}

// Do sends the request and reads the whole response. A response with a non-2xx
// status is not an error at this level; only failures to get a response are.
func (x *Client) Do(ctx context.Context, method, path string, params url.Values) (*Response, error) {
	endpoint, err := http.JoinURL(x.baseURL, path)
	if err != nil {
		return nil, errors.NewTransportFailure(method, path, err)
	}

	if len(params) > 0 {
		endpoint.RawQuery = params.Encode()
	}

	request, err := nethttp.NewRequestWithContext(ctx, method, endpoint.String(), nil)
	if err != nil {
		return nil, errors.NewTransportFailure(method, path, err)
	}

	request.Header.Set("Accept", "application/json")
	if x.token != "" {
		request.Header.Set(TokenHeader, x.token)
	}

	x.logger.Debugf("%s %s", method, endpoint.Redacted())

	response, err := x.client.Do(request)
	if err != nil {
		return nil, errors.NewTransportFailure(method, path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errors.NewTransportFailure(method, path, err)
	}

	return &Response{
		StatusCode: response.StatusCode,
		Header:     response.Header,
		Body:       body,
	}, nil
}

// Close releases idle connections
func (x *Client) Close() {
	x.client.CloseIdleConnections()
}

// clientTLS returns nil when plain http must be used
func clientTLS(config *Config) (*tls.Config, error) {
	if config.tlsConfig != nil {
		return config.tlsConfig, nil
	}

	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(config.Address)), "https://") {
		return nil, nil
	}

	conf := &autotls.Config{
		CertFile:           config.CertFile,
		KeyFile:            config.KeyFile,
		InsecureSkipVerify: config.Insecure,
	}

	if err := autotls.Setup(conf); err != nil {
		return nil, fmt.Errorf("failed to setup client TLS: %w", err)
	}

	clientConfig := conf.ClientTLS
	if clientConfig == nil {
		clientConfig = &tls.Config{InsecureSkipVerify: config.Insecure} // nolint
	}

	if config.CertFile != "" && len(clientConfig.Certificates) == 0 {
		certificate, err := tls.LoadX509KeyPair(config.CertFile, config.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		clientConfig.Certificates = []tls.Certificate{certificate}
	}

	clientConfig.NextProtos = []string{"h2", "http/1.1"}
	return clientConfig, nil
}
