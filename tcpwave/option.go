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

package tcpwave

import (
	"time"

	"github.com/tochemey/gotcpwave/log"
	"github.com/tochemey/gotcpwave/telemetry"
	"github.com/tochemey/gotcpwave/transport"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(client *Client)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(client *Client)

func (f OptionFunc) Apply(c *Client) {
	f(c)
}

// WithConfig sets the connection configuration.
// When not set, the configuration is read from the environment.
func WithConfig(config *transport.Config) Option {
	return OptionFunc(func(client *Client) {
		client.config = config
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(client *Client) {
		client.logger = logger
	})
}

// WithTelemetry sets the telemetry
func WithTelemetry(tel *telemetry.Telemetry) Option {
	return OptionFunc(func(client *Client) {
		client.telemetry = tel
	})
}

// WithRefreshInterval refreshes the DHCP servers directory periodically.
// The directory is loaded when the client is created.
func WithRefreshInterval(interval time.Duration) Option {
	return OptionFunc(func(client *Client) {
		client.refreshInterval = interval
	})
}
