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
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/tochemey/gotcpwave/dhcp"
	"github.com/tochemey/gotcpwave/errors"
	"github.com/tochemey/gotcpwave/internal/ticker"
	"github.com/tochemey/gotcpwave/log"
	"github.com/tochemey/gotcpwave/telemetry"
	"github.com/tochemey/gotcpwave/transport"
)

const (
	objectDetailsPath = "/home/getObjectDetails"
	subnetDetailsPath = "/object/getSnAddr"
	searchPath        = "/search/search"
)

// Client connects to a TCPWave IPAM and finds DHCP leases across its DHCP servers.
// An instance of the Client can be reused and it is thread safe.
// Make sure to call Close to free up resources
type Client struct {
	config          *transport.Config
	logger          log.Logger
	telemetry       *telemetry.Telemetry
	refreshInterval time.Duration

	transport  *transport.Client
	directory  *dhcp.Directory
	aggregator *dhcp.Aggregator
	search     *dhcp.Search

	ticker      *ticker.Ticker
	closeSignal chan struct{}
	refreshDone chan struct{}
	closeOnce   sync.Once
}

// New creates an instance of Client
func New(ctx context.Context, opts ...Option) (*Client, error) {
	client := &Client{
		logger:          log.DiscardLogger,
		refreshInterval: -1,
	}

	for _, opt := range opts {
		opt.Apply(client)
	}

	if client.config == nil {
		config, err := transport.ConfigFromEnv()
		if err != nil {
			return nil, err
		}
		client.config = config
	}

	if client.telemetry == nil {
		client.telemetry = telemetry.New()
	}

	transport.WithLogger(client.logger).Apply(client.config)
	httpClient, err := transport.New(client.config)
	if err != nil {
		return nil, err
	}
	client.transport = httpClient

	dhcpOpts := []dhcp.Option{
		dhcp.WithLogger(client.logger),
		dhcp.WithTelemetry(client.telemetry),
		dhcp.WithRequestTimeout(client.config.Timeout),
		dhcp.WithOrgName(client.config.OrgName),
	}

	client.directory = dhcp.NewDirectory(httpClient, dhcpOpts...)
	fetcher := dhcp.NewFetcher(httpClient, dhcpOpts...)
	client.aggregator = dhcp.NewAggregator(client.directory, fetcher, dhcpOpts...)
	client.search = dhcp.NewSearch(client.aggregator, client.directory, dhcpOpts...)

	// only refresh the directory when refresh interval is set
	if client.refreshInterval > 0 {
		if _, err := client.directory.Refresh(ctx, nil); err != nil {
			httpClient.Close()
			return nil, err
		}

		client.ticker = ticker.New(client.refreshInterval)
		client.closeSignal = make(chan struct{})
		client.refreshDone = make(chan struct{})
		client.ticker.Start()
		go client.refreshServersLoop()
	}

	return client, nil
}

// Close stops the directory refresh and releases the idle connections
func (x *Client) Close() {
	x.closeOnce.Do(func() {
		if x.closeSignal != nil {
			close(x.closeSignal)
			<-x.refreshDone
		}
		x.transport.Close()
	})
}

// Directory returns the DHCP servers directory
func (x *Client) Directory() *dhcp.Directory {
	return x.directory
}

// Aggregator returns the leases aggregator
func (x *Client) Aggregator() *dhcp.Aggregator {
	return x.aggregator
}

// Search returns the leases search
func (x *Client) Search() *dhcp.Search {
	return x.search
}

// RefreshServers lists the DHCP servers and replaces the directory
func (x *Client) RefreshServers(ctx context.Context, params url.Values) ([]*dhcp.ServerRecord, error) {
	return x.directory.Refresh(ctx, params)
}

// Servers returns the DHCP servers, loading the directory when empty
func (x *Client) Servers(ctx context.Context) ([]*dhcp.ServerRecord, error) {
	if err := x.directory.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	return x.directory.Servers(), nil
}

// Leases streams the active leases of the named servers, or of all servers
func (x *Client) Leases(ctx context.Context, servers ...string) (*dhcp.Stream, error) {
	return x.aggregator.Aggregate(ctx, servers...)
}

// FindLeaseByAddress returns the active lease of an IP address
func (x *Client) FindLeaseByAddress(ctx context.Context, address string, servers ...string) (*dhcp.Lease, error) {
	return x.search.FindFirstByAddress(ctx, address, servers...)
}

// FindLeaseByMAC returns the active lease of a MAC address
func (x *Client) FindLeaseByMAC(ctx context.Context, mac string, servers ...string) (*dhcp.Lease, error) {
	return x.search.FindFirstByMAC(ctx, mac, servers...)
}

// FindLeases returns the active leases matching the predicate
func (x *Client) FindLeases(ctx context.Context, predicate dhcp.Predicate, servers ...string) ([]*dhcp.Lease, error) {
	return x.search.FindAllMatching(ctx, predicate, servers...)
}

// FindLeasesByName returns the active leases whose host name matches the query
func (x *Client) FindLeasesByName(ctx context.Context, query dhcp.NameQuery, servers ...string) ([]*dhcp.Lease, error) {
	return x.search.FindByName(ctx, query, servers...)
}

// ObjectDetails returns the IPAM object of an IP address
func (x *Client) ObjectDetails(ctx context.Context, ipAddress string) (map[string]any, error) {
	var details map[string]any
	if err := x.get(ctx, objectDetailsPath, url.Values{"ipAddress": []string{ipAddress}}, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// SubnetDetails returns the IPAM subnet of an address
func (x *Client) SubnetDetails(ctx context.Context, subnet string) (map[string]any, error) {
	var details map[string]any
	if err := x.get(ctx, subnetDetailsPath, url.Values{"address": []string{subnet}}, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// GlobalSearch runs an entity global search. The response is returned as is
// since TCPWave answers it inconsistently when client certificates are used.
func (x *Client) GlobalSearch(ctx context.Context, expression string) (*transport.Response, error) {
	return x.transport.Do(ctx, http.MethodPost, searchPath, url.Values{
		"search_term": []string{expression},
		"search_type": []string{"Text"},
		"entity_type": []string{"object"},
	})
}

// get fails on a non-2xx status and decodes the JSON body into v
func (x *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	response, err := x.transport.Do(ctx, http.MethodGet, path, params)
	if err != nil {
		return err
	}

	if response.IsError() {
		return errors.NewTransportError(http.MethodGet, path, response.StatusCode, response.Text())
	}

	if err := response.DecodeJSON(v); err != nil {
		return errors.NewErrInvalidResponse(err)
	}
	return nil
}

// refreshServersLoop refreshes the directory at every tick. A failed
// refresh keeps the previous directory.
func (x *Client) refreshServersLoop() {
	defer close(x.refreshDone)
	for {
		select {
		case <-x.ticker.Ticks:
			ctx, cancel := context.WithTimeout(context.Background(), x.config.Timeout)
			if _, err := x.directory.Refresh(ctx, nil); err != nil {
				x.logger.Warnf("periodic dhcp servers refresh failed, keeping the current directory: %v", err)
			}
			cancel()
		case <-x.closeSignal:
			x.ticker.Stop()
			return
		}
	}
}
