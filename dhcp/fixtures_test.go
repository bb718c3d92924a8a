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
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/atomic"

	"github.com/tochemey/gotcpwave/transport"
)

// leasesHandler answers the active leases request of one server
type leasesHandler func(ctx context.Context) (*transport.Response, error)

// fakeTransport is an in-memory TCPWave
type fakeTransport struct {
	mu          sync.Mutex
	servers     leasesHandler
	leases      map[string]leasesHandler
	listParams  []url.Values
	listCalls   *atomic.Int32
	leasesCalls *atomic.Int32
	cancelled   map[string]bool
}

var _ transport.Transport = (*fakeTransport)(nil)

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		leases:      make(map[string]leasesHandler),
		listCalls:   atomic.NewInt32(0),
		leasesCalls: atomic.NewInt32(0),
		cancelled:   make(map[string]bool),
	}
}

// withServers sets the list servers answer from name/address pairs
func (f *fakeTransport) withServers(pairs ...string) *fakeTransport {
	records := make([]map[string]any, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		records = append(records, map[string]any{
			"name":         pairs[i],
			"v4_ipaddress": pairs[i+1],
			"organization": "acme",
		})
	}
	f.mu.Lock()
	f.servers = respondJSON(http.StatusOK, records)
	f.mu.Unlock()
	return f
}

func (f *fakeTransport) withServersHandler(handler leasesHandler) *fakeTransport {
	f.mu.Lock()
	f.servers = handler
	f.mu.Unlock()
	return f
}

func (f *fakeTransport) withLeases(address string, handler leasesHandler) *fakeTransport {
	f.mu.Lock()
	f.leases[address] = handler
	f.mu.Unlock()
	return f
}

func (f *fakeTransport) wasCancelled(address string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled[address]
}

func (f *fakeTransport) Do(ctx context.Context, method, path string, params url.Values) (*transport.Response, error) {
	if method != http.MethodGet {
		return &transport.Response{StatusCode: http.StatusMethodNotAllowed}, nil
	}

	switch path {
	case listServersPath:
		f.listCalls.Inc()
		f.mu.Lock()
		f.listParams = append(f.listParams, params)
		handler := f.servers
		f.mu.Unlock()
		if handler == nil {
			return respondJSON(http.StatusOK, []any{})(ctx)
		}
		return handler(ctx)

	case activeLeasesPath:
		f.leasesCalls.Inc()
		address := params.Get(serverIPParam)
		f.mu.Lock()
		handler, ok := f.leases[address]
		f.mu.Unlock()
		if !ok {
			return respond(http.StatusNotFound, "TIMS-1001: unknown server")(ctx)
		}

		response, err := handler(ctx)
		if err != nil && ctx.Err() == context.Canceled {
			f.mu.Lock()
			f.cancelled[address] = true
			f.mu.Unlock()
		}
		return response, err
	}
	return respond(http.StatusNotFound, "not found")(ctx)
}

func respond(status int, body string) leasesHandler {
	return func(context.Context) (*transport.Response, error) {
		return &transport.Response{
			StatusCode: status,
			Header:     http.Header{},
			Body:       []byte(body),
		}, nil
	}
}

func respondJSON(status int, body any) leasesHandler {
	bytea, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return respond(status, string(bytea))
}

// rows answers with the given leases
func rows(leases ...map[string]any) leasesHandler {
	if leases == nil {
		leases = []map[string]any{}
	}
	return respondJSON(http.StatusOK, map[string]any{"rows": leases, "total": len(leases)})
}

// hang answers only when the request context is done
func hang() leasesHandler {
	return func(ctx context.Context) (*transport.Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
}

// waitFor answers once release is closed
func waitFor(release <-chan struct{}, handler leasesHandler) leasesHandler {
	return func(ctx context.Context) (*transport.Response, error) {
		select {
		case <-release:
			return handler(ctx)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func fail(err error) leasesHandler {
	return func(context.Context) (*transport.Response, error) {
		return nil, err
	}
}

func lease(address, mac, name, server string) map[string]any {
	record := map[string]any{
		"address":    address,
		"mac":        mac,
		"dhcpServer": server,
		"state":      "active",
	}
	if name != "" {
		record["name"] = name
	} else {
		record["name"] = nil
	}
	return record
}

// hostLeases generates count leases for one server
func hostLeases(server string, subnet, count int) []map[string]any {
	leases := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		leases = append(leases, lease(
			fmt.Sprintf("10.%d.0.%d", subnet, i+1),
			fmt.Sprintf("aa:bb:cc:%02x:00:%02x", subnet, i+1),
			fmt.Sprintf("host-%d-%d", subnet, i+1),
			server))
	}
	return leases
}

// newEngine builds the components over the fake transport
func newEngine(fake *fakeTransport, opts ...Option) (*Directory, *Aggregator, *Search) {
	directory := NewDirectory(fake, opts...)
	fetcher := NewFetcher(fake, opts...)
	aggregator := NewAggregator(directory, fetcher, opts...)
	return directory, aggregator, NewSearch(aggregator, directory, opts...)
}
