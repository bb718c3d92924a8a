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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/gotcpwave/errors"
)

func TestConfig(t *testing.T) {
	t.Run("With defaults", func(t *testing.T) {
		config := NewConfig("https://ipam.example.com/")
		require.NoError(t, config.Validate())
		assert.Equal(t, DefaultTimeout, config.Timeout)
		assert.True(t, config.Insecure)
		assert.Equal(t, "https://ipam.example.com/rest", config.BaseURL())
	})
	t.Run("With options", func(t *testing.T) {
		config := NewConfig("http://127.0.0.1:8080",
			WithToken("secret"),
			WithOrgName("acme"),
			WithTimeout(time.Second),
			WithInsecure(false),
			WithClientCertificate("client.pem", "client.key"),
		)
		require.NoError(t, config.Validate())
		assert.Equal(t, "secret", config.Token)
		assert.Equal(t, "acme", config.OrgName)
		assert.Equal(t, time.Second, config.Timeout)
		assert.False(t, config.Insecure)
		assert.Equal(t, "client.pem", config.CertFile)
		assert.Equal(t, "client.key", config.KeyFile)
	})
	t.Run("With missing address", func(t *testing.T) {
		config := NewConfig("")
		assert.ErrorIs(t, config.Validate(), errors.ErrBaseURLRequired)
	})
	t.Run("With invalid settings", func(t *testing.T) {
		config := NewConfig("ftp://ipam.example.com",
			WithTimeout(0),
			WithClientCertificate("client.pem", ""))
		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scheme must be http or https")
		assert.Contains(t, err.Error(), "timeout must be greater than zero")
		assert.Contains(t, err.Error(), "certificate and key files must be set together")
	})
	t.Run("From environment", func(t *testing.T) {
		t.Setenv("TCPWAVE_ADDR", "https://ipam.example.com")
		t.Setenv("TCPWAVE_TOKEN", "token")
		t.Setenv("TCPWAVE_ORG", "acme")
		t.Setenv("TCPWAVE_SSL_CERT", "client.pem")
		t.Setenv("TCPWAVE_SSL_KEY", "client.key")
		t.Setenv("TCPWAVE_TIMEOUT", "5s")

		config, err := ConfigFromEnv(WithOrgName("override"))
		require.NoError(t, err)
		require.NoError(t, config.Validate())
		assert.Equal(t, "https://ipam.example.com/rest", config.BaseURL())
		assert.Equal(t, "token", config.Token)
		assert.Equal(t, "override", config.OrgName)
		assert.Equal(t, "client.pem", config.CertFile)
		assert.Equal(t, "client.key", config.KeyFile)
		assert.Equal(t, 5*time.Second, config.Timeout)
		assert.True(t, config.Insecure)
	})
	t.Run("From environment with invalid timeout", func(t *testing.T) {
		t.Setenv("TCPWAVE_TIMEOUT", "soon")
		_, err := ConfigFromEnv()
		assert.Error(t, err)
	})
}
