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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/atomic"

	"github.com/tochemey/gotcpwave/dhcp"
	"github.com/tochemey/gotcpwave/errors"
	"github.com/tochemey/gotcpwave/log"
	"github.com/tochemey/gotcpwave/transport"
)

const testToken = "session-token"

// ipam emulates the TCPWave REST API
type ipam struct {
	mu         sync.Mutex
	servers    []map[string]string
	leases     map[string]string
	listCalls  *atomic.Int32
	listStatus int
}

func newIPAM() *ipam {
	return &ipam{
		servers: []map[string]string{
			{"name": "core1", "v4_ipaddress": "10.0.0.1"},
			{"name": "core2", "v4_ipaddress": "10.0.0.2"},
		},
		leases: map[string]string{
			"10.0.0.1": `{"rows":[{"address":"10.1.1.5","mac":"aa:bb:cc:dd:ee:ff","name":"HOST-A","dhcpServer":"10.0.0.1","state":"active"}]}`,
			"10.0.0.2": `{"rows":[{"address":"10.2.1.5","mac":"aa:bb:cc:dd:ee:01","name":"printer-2","dhcpServer":"10.0.0.2"}]}`,
		},
		listCalls:  atomic.NewInt32(0),
		listStatus: http.StatusOK,
	}
}

func (x *ipam) setServers(servers ...map[string]string) {
	x.mu.Lock()
	x.servers = servers
	x.mu.Unlock()
}

func (x *ipam) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(transport.TokenHeader) != testToken {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("TIMS-1002: invalid session"))
		return
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	query := r.URL.Query()
	switch r.URL.Path {
	case "/rest/dhcpserver/list":
		x.listCalls.Inc()
		if x.listStatus != http.StatusOK {
			w.WriteHeader(x.listStatus)
			return
		}
		_ = json.NewEncoder(w).Encode(x.servers)
	case "/rest/dhcpserver/dhcpActiveLeases":
		body, ok := x.leases[query.Get("serverIp")]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("TIMS-3961: DHCP server not reachable"))
			return
		}
		_, _ = w.Write([]byte(body))
	case "/rest/home/getObjectDetails":
		_ = json.NewEncoder(w).Encode(map[string]string{"address": query.Get("ipAddress"), "name": "HOST-A"})
	case "/rest/object/getSnAddr":
		if query.Get("address") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"addr": query.Get("address"), "mask_length": "24"})
	case "/rest/search/search":
		if r.Method != http.MethodPost || query.Get("entity_type") != "object" || query.Get("search_type") != "Text" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"rows":[{"term":"` + query.Get("search_term") + `"}]}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type clientSuite struct {
	suite.Suite
	ipam   *ipam
	server *httptest.Server
	client *Client
}

func (s *clientSuite) SetupTest() {
	s.ipam = newIPAM()
	s.server = httptest.NewServer(s.ipam)

	client, err := New(context.Background(),
		WithConfig(transport.NewConfig(s.server.URL, transport.WithToken(testToken), transport.WithOrgName("acme"))),
		WithLogger(log.DiscardLogger))
	s.Require().NoError(err)
	s.client = client
}

func (s *clientSuite) TearDownTest() {
	s.client.Close()
	s.server.Close()
}

func (s *clientSuite) TestServers() {
	servers, err := s.client.Servers(context.Background())
	s.Require().NoError(err)
	s.Require().Len(servers, 2)
	s.Assert().Equal("core1", servers[0].Name)

	servers, err = s.client.RefreshServers(context.Background(), nil)
	s.Require().NoError(err)
	s.Assert().Len(servers, 2)
	s.Assert().EqualValues(2, s.ipam.listCalls.Load())
}

func (s *clientSuite) TestLeases() {
	stream, err := s.client.Leases(context.Background())
	s.Require().NoError(err)
	leases, err := stream.Collect()
	s.Require().NoError(err)
	s.Assert().Len(leases, 2)

	stream, err = s.client.Leases(context.Background(), "core2")
	s.Require().NoError(err)
	leases, err = stream.Collect()
	s.Require().NoError(err)
	s.Require().Len(leases, 1)
	s.Assert().Equal("10.2.1.5", leases[0].Address)
}

func (s *clientSuite) TestFindLease() {
	ctx := context.Background()

	lease, err := s.client.FindLeaseByMAC(ctx, "aa:bb:cc:dd:ee:ff")
	s.Require().NoError(err)
	s.Assert().Equal("10.1.1.5", lease.Address)
	s.Assert().Equal("core1", lease.DHCPServerName)

	lease, err = s.client.FindLeaseByAddress(ctx, "10.2.1.5")
	s.Require().NoError(err)
	s.Assert().Equal("core2", lease.DHCPServerName)

	_, err = s.client.FindLeaseByAddress(ctx, "10.9.9.9")
	s.Assert().ErrorIs(err, errors.ErrLeaseNotFound)

	leases, err := s.client.FindLeasesByName(ctx, dhcp.NameQuery{Pattern: "^printer"})
	s.Require().NoError(err)
	s.Require().Len(leases, 1)
	s.Assert().Equal("core2", leases[0].DHCPServerName)

	leases, err = s.client.FindLeases(ctx, dhcp.MatchAll())
	s.Require().NoError(err)
	s.Assert().Len(leases, 2)
}

func (s *clientSuite) TestOfflineServer() {
	s.ipam.setServers(
		map[string]string{"name": "core1", "v4_ipaddress": "10.0.0.1"},
		map[string]string{"name": "core3", "v4_ipaddress": "10.0.0.3"},
	)

	leases, err := s.client.FindLeases(context.Background(), dhcp.MatchAll())
	s.Require().NoError(err)
	s.Require().Len(leases, 1)
	s.Assert().Equal("core1", leases[0].DHCPServerName)
}

func (s *clientSuite) TestSimpleAPIs() {
	ctx := context.Background()

	details, err := s.client.ObjectDetails(ctx, "10.1.1.5")
	s.Require().NoError(err)
	s.Assert().Equal("10.1.1.5", details["address"])

	subnet, err := s.client.SubnetDetails(ctx, "10.1.1.0")
	s.Require().NoError(err)
	s.Assert().Equal("24", subnet["mask_length"])

	_, err = s.client.SubnetDetails(ctx, "")
	s.Require().ErrorIs(err, errors.ErrTransport)

	response, err := s.client.GlobalSearch(ctx, "HOST-A")
	s.Require().NoError(err)
	s.Assert().False(response.IsError())
	s.Assert().Contains(response.Text(), "HOST-A")
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(clientSuite))
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("With invalid token", func(t *testing.T) {
		server := httptest.NewServer(newIPAM())
		t.Cleanup(server.Close)

		client, err := New(ctx, WithConfig(transport.NewConfig(server.URL, transport.WithToken("wrong"))))
		require.NoError(t, err)
		t.Cleanup(client.Close)

		_, err = client.FindLeaseByAddress(ctx, "10.1.1.5")
		require.ErrorIs(t, err, errors.ErrTransport)

		var terr *errors.TransportError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, http.StatusUnauthorized, terr.StatusCode)
	})
	t.Run("With configuration from environment", func(t *testing.T) {
		server := httptest.NewServer(newIPAM())
		t.Cleanup(server.Close)

		t.Setenv("TCPWAVE_ADDR", server.URL)
		t.Setenv("TCPWAVE_TOKEN", testToken)

		client, err := New(ctx)
		require.NoError(t, err)
		t.Cleanup(client.Close)

		servers, err := client.Servers(ctx)
		require.NoError(t, err)
		assert.Len(t, servers, 2)
	})
	t.Run("With missing address", func(t *testing.T) {
		t.Setenv("TCPWAVE_ADDR", "")
		_, err := New(ctx)
		assert.ErrorIs(t, err, errors.ErrBaseURLRequired)
	})
	t.Run("With refresh interval", func(t *testing.T) {
		backend := newIPAM()
		server := httptest.NewServer(backend)
		t.Cleanup(server.Close)

		client, err := New(ctx,
			WithConfig(transport.NewConfig(server.URL, transport.WithToken(testToken))),
			WithRefreshInterval(20*time.Millisecond))
		require.NoError(t, err)
		assert.False(t, client.Directory().IsEmpty())

		backend.setServers(map[string]string{"name": "core9", "v4_ipaddress": "10.0.0.9"})
		require.Eventually(t, func() bool {
			_, err := client.Directory().ResolveAddress("core9")
			return err == nil
		}, 2*time.Second, 10*time.Millisecond)

		client.Close()
		client.Close()
		calls := backend.listCalls.Load()
		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, calls, backend.listCalls.Load())
	})
	t.Run("With refresh failing on creation", func(t *testing.T) {
		backend := newIPAM()
		backend.listStatus = http.StatusServiceUnavailable
		server := httptest.NewServer(backend)
		t.Cleanup(server.Close)

		_, err := New(ctx,
			WithConfig(transport.NewConfig(server.URL, transport.WithToken(testToken))),
			WithRefreshInterval(time.Minute))
		assert.ErrorIs(t, err, errors.ErrTransport)
	})
}
