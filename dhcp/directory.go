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
	"net/http"
	"net/url"
	"slices"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/singleflight"

	"github.com/tochemey/gotcpwave/errors"
	"github.com/tochemey/gotcpwave/log"
	"github.com/tochemey/gotcpwave/telemetry"
	"github.com/tochemey/gotcpwave/transport"
)

const (
	listServersPath = "/dhcpserver/list"
	orgNameParam    = "orgName"
)

// directorySnapshot is never mutated once published
type directorySnapshot struct {
	servers   []*ServerRecord
	byName    map[string]string
	byAddress map[string]string
}

func newDirectorySnapshot(records []*ServerRecord, logger log.Logger) (*directorySnapshot, error) {
	snapshot := &directorySnapshot{
		servers:   make([]*ServerRecord, 0, len(records)),
		byName:    make(map[string]string, len(records)),
		byAddress: make(map[string]string, len(records)),
	}

	for _, record := range records {
		if record == nil || record.Name == "" || record.Address == "" {
			logger.Warnf("skipping dhcp server record without name or v4 address: %+v", record)
			continue
		}
		if _, ok := snapshot.byName[record.Name]; ok {
			return nil, errors.NewErrDuplicateServer("name", record.Name)
		}
		if _, ok := snapshot.byAddress[record.Address]; ok {
			return nil, errors.NewErrDuplicateServer("address", record.Address)
		}
		snapshot.byName[record.Name] = record.Address
		snapshot.byAddress[record.Address] = record.Name
		snapshot.servers = append(snapshot.servers, record)
	}
	return snapshot, nil
}

// Directory holds the one-to-one mapping between DHCP server names and addresses.
// Refresh is the only mutator: it builds a complete new mapping and swaps it in
// so readers never see a partially updated directory.
type Directory struct {
	transport      transport.Transport
	snapshot       *atomic.Pointer[directorySnapshot]
	group          singleflight.Group
	orgName        string
	requestTimeout time.Duration
	logger         log.Logger
	metrics        *telemetry.Metrics
}

// NewDirectory creates an empty Directory
func NewDirectory(transport transport.Transport, opts ...Option) *Directory {
	o := newOptions(opts)
	return &Directory{
		transport:      transport,
		snapshot:       atomic.NewPointer(&directorySnapshot{}),
		orgName:        o.orgName,
		requestTimeout: o.requestTimeout,
		logger:         o.logger,
		metrics:        o.metrics,
	}
}

// Refresh lists the DHCP servers and replaces the directory with the result.
// When params is empty the configured organization is used as filter.
// On failure the previous directory stays in place.
func (d *Directory) Refresh(ctx context.Context, params url.Values) ([]*ServerRecord, error) {
	if len(params) == 0 && d.orgName != "" {
		params = url.Values{orgNameParam: []string{d.orgName}}
	}

	records, err := d.list(ctx, params)
	if err != nil {
		d.metrics.RecordRefresh(ctx, "failed")
		d.logger.Errorf("failed to refresh the dhcp servers directory: %v", err)
		return nil, err
	}

	snapshot, err := newDirectorySnapshot(records, d.logger)
	if err != nil {
		d.metrics.RecordRefresh(ctx, "failed")
		d.logger.Errorf("failed to refresh the dhcp servers directory: %v", err)
		return nil, err
	}

	d.snapshot.Store(snapshot)
	d.metrics.RecordRefresh(ctx, "completed")
	d.logger.Infof("dhcp servers directory refreshed with %d servers", len(snapshot.servers))
	return slices.Clone(snapshot.servers), nil
}

// EnsureLoaded refreshes the directory when it is empty. Concurrent
// callers share the same refresh, which is bound to the request timeout
// rather than to any one caller: a caller giving up only stops its own wait.
func (d *Directory) EnsureLoaded(ctx context.Context) error {
	if !d.IsEmpty() {
		return nil
	}

	resultCh := d.group.DoChan(listServersPath, func() (any, error) {
		if !d.IsEmpty() {
			return nil, nil
		}
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.requestTimeout)
		defer cancel()
		_, err := d.Refresh(refreshCtx, nil)
		return nil, err
	})

	select {
	case result := <-resultCh:
		return result.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ResolveAddress returns the address of the named server
func (d *Directory) ResolveAddress(name string) (string, error) {
	address, ok := d.snapshot.Load().byName[name]
	if !ok {
		return "", errors.NewErrServerNotFound(name)
	}
	return address, nil
}

// ResolveName returns the name of the server with the given address
func (d *Directory) ResolveName(address string) (string, error) {
	name, ok := d.snapshot.Load().byAddress[address]
	if !ok {
		return "", errors.NewErrServerNotFound(address)
	}
	return name, nil
}

// IsEmpty returns true when no server is known
func (d *Directory) IsEmpty() bool {
	return len(d.snapshot.Load().servers) == 0
}

// Servers returns the known servers in list order
func (d *Directory) Servers() []*ServerRecord {
	return slices.Clone(d.snapshot.Load().servers)
}

// Addresses returns the known server addresses in list order
func (d *Directory) Addresses() []string {
	servers := d.snapshot.Load().servers
	addresses := make([]string, 0, len(servers))
	for _, server := range servers {
		addresses = append(addresses, server.Address)
	}
	return addresses
}

func (d *Directory) list(ctx context.Context, params url.Values) ([]*ServerRecord, error) {
	response, err := d.transport.Do(ctx, http.MethodGet, listServersPath, params)
	if err != nil {
		return nil, err
	}

	if response.IsError() {
		return nil, errors.NewTransportError(http.MethodGet, listServersPath, response.StatusCode, response.Text())
	}

	var records []*ServerRecord
	if err := response.DecodeJSON(&records); err != nil {
		return nil, errors.NewErrInvalidResponse(err)
	}
	return records, nil
}
