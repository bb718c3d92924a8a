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
	"crypto/tls"
	"time"

	"github.com/tochemey/gotcpwave/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(*Config)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(config *Config)

func (f OptionFunc) Apply(c *Config) {
	f(c)
}

// WithAddress sets the TCPWave address
func WithAddress(address string) Option {
	return OptionFunc(func(config *Config) {
		config.Address = address
	})
}

// WithClientCertificate sets the client certificate and key files
func WithClientCertificate(certFile, keyFile string) Option {
	return OptionFunc(func(config *Config) {
		config.CertFile = certFile
		config.KeyFile = keyFile
	})
}

// WithToken sets the session token
func WithToken(token string) Option {
	return OptionFunc(func(config *Config) {
		config.Token = token
	})
}

// WithOrgName sets the default organization
func WithOrgName(orgName string) Option {
	return OptionFunc(func(config *Config) {
		config.OrgName = orgName
	})
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.Timeout = timeout
	})
}

// WithInsecure toggles the server certificate verification
func WithInsecure(insecure bool) Option {
	return OptionFunc(func(config *Config) {
		config.Insecure = insecure
	})
}

// WithTLS sets the TLS configuration as is. The certificate files
// and the insecure flag are ignored when it is set.
func WithTLS(tlsConfig *tls.Config) Option {
	return OptionFunc(func(config *Config) {
		config.tlsConfig = tlsConfig
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(config *Config) {
		config.logger = logger
	})
}
