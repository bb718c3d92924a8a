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
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/tochemey/gotcpwave/errors"
	"github.com/tochemey/gotcpwave/internal/validation"
	"github.com/tochemey/gotcpwave/log"
)

const (
	// DefaultTimeout is the per-request timeout
	DefaultTimeout = 30 * time.Second
	// TokenHeader carries the session token
	TokenHeader = "TIMS-Session-Token"

	restPath = "/rest"
)

// Config defines the TCPWave connection settings.
// Fields are read from the environment by ConfigFromEnv.
type Config struct {
	// Address is the TCPWave address without the rest suffix, e.g. https://ipam.example.com
	Address string `env:"TCPWAVE_ADDR"`
	// CertFile is the client certificate presented to TCPWave
	CertFile string `env:"TCPWAVE_SSL_CERT"`
	// KeyFile is the client certificate key
	KeyFile string `env:"TCPWAVE_SSL_KEY"`
	// Token is sent in the TIMS-Session-Token header when set
	Token string `env:"TCPWAVE_TOKEN"`
	// OrgName is the default organization used to list DHCP servers
	OrgName string `env:"TCPWAVE_ORG"`
	// Timeout is the per-request timeout
	Timeout time.Duration `env:"TCPWAVE_TIMEOUT" envDefault:"30s"`
	// Insecure disables the server certificate verification
	Insecure bool `env:"TCPWAVE_INSECURE" envDefault:"true"`

	tlsConfig *tls.Config
	logger    log.Logger
}

// enforce compilation error
var _ validation.Validator = (*Config)(nil)

// NewConfig creates an instance of Config with the given address
func NewConfig(address string, opts ...Option) *Config {
	config := &Config{
		Address:  address,
		Timeout:  DefaultTimeout,
		Insecure: true,
		logger:   log.DiscardLogger,
	}

	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// ConfigFromEnv reads the Config from the environment and then applies the options
func ConfigFromEnv(opts ...Option) (*Config, error) {
	config := &Config{logger: log.DiscardLogger}
	if err := env.Parse(config); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt.Apply(config)
	}
	return config, nil
}

// BaseURL returns the REST API base url
func (c *Config) BaseURL() string {
	return strings.TrimRight(strings.TrimSpace(c.Address), "/") + restPath
}

// Validate validates the Config
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Address) == "" {
		return errors.ErrBaseURLRequired
	}

	return validation.New(validation.AllErrors()).
		AddValidator(validation.NewURLValidator(c.Address)).
		AddAssertion(c.Timeout > 0, "timeout must be greater than zero").
		AddAssertion((c.CertFile == "") == (c.KeyFile == ""), "certificate and key files must be set together").
		Validate()
}
