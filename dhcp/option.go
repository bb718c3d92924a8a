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

package dhcp

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/tochemey/gotcpwave/log"
	"github.com/tochemey/gotcpwave/telemetry"
	"github.com/tochemey/gotcpwave/transport"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(*options)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*options)

func (f OptionFunc) Apply(o *options) {
	f(o)
}

type options struct {
	logger         log.Logger
	telemetry      *telemetry.Telemetry
	metrics        *telemetry.Metrics
	requestTimeout time.Duration
	orgName        string
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(o *options) {
		o.logger = logger
	})
}

// WithTelemetry sets the telemetry used to record metrics and traces
func WithTelemetry(tel *telemetry.Telemetry) Option {
	return OptionFunc(func(o *options) {
		o.telemetry = tel
	})
}

// WithRequestTimeout sets the timeout of a single active leases request.
// A server that does not answer in time is skipped.
func WithRequestTimeout(timeout time.Duration) Option {
	return OptionFunc(func(o *options) {
		o.requestTimeout = timeout
	})
}

// WithOrgName sets the organization sent when listing the DHCP servers
func WithOrgName(orgName string) Option {
	return OptionFunc(func(o *options) {
		o.orgName = orgName
	})
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:         log.DiscardLogger,
		requestTimeout: transport.DefaultTimeout,
	}

	for _, opt := range opts {
		opt.Apply(o)
	}

	if o.logger == nil {
		o.logger = log.DiscardLogger
	}

	if o.requestTimeout <= 0 {
		o.requestTimeout = transport.DefaultTimeout
	}

	if o.telemetry == nil {
		o.telemetry = telemetry.New()
	}

	metrics, err := telemetry.NewMetrics(o.telemetry.Meter())
	if err != nil {
		otel.Handle(err)
		metrics, _ = telemetry.NewMetrics(noop.NewMeterProvider().Meter(""))
	}
	o.metrics = metrics
	return o
}
