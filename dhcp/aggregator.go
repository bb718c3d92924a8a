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

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/gotcpwave/log"
)

// Aggregator merges the active leases of several DHCP servers into one stream
type Aggregator struct {
	directory *Directory
	fetcher   *Fetcher
	logger    log.Logger
}

// NewAggregator creates an instance of Aggregator
func NewAggregator(directory *Directory, fetcher *Fetcher, opts ...Option) *Aggregator {
	o := newOptions(opts)
	return &Aggregator{
		directory: directory,
		fetcher:   fetcher,
		logger:    o.logger,
	}
}

// Aggregate streams the active leases of the named servers, or of every
// known server when no name is given.
func (a *Aggregator) Aggregate(ctx context.Context, servers ...string) (*Stream, error) {
	_, stream, err := a.AggregateWithCancellation(ctx, servers...)
	return stream, err
}

// AggregateWithCancellation is Aggregate with access to the requests handle.
// Cancelling the handle stops the pending requests; their results, if any,
// never reach the stream.
func (a *Aggregator) AggregateWithCancellation(ctx context.Context, servers ...string) (*TaskSet, *Stream, error) {
	addresses, err := a.resolve(ctx, servers)
	if err != nil {
		return nil, nil, err
	}

	set := a.fetcher.FetchAll(ctx, addresses)
	a.logger.With("aggregation", set.ID()).
		Debugf("fetching active leases from %d dhcp servers", set.Len())
	return set, a.fetcher.Drain(ctx, set), nil
}

// resolve returns the addresses of the named servers, duplicates removed
func (a *Aggregator) resolve(ctx context.Context, servers []string) ([]string, error) {
	if err := a.directory.EnsureLoaded(ctx); err != nil {
		return nil, err
	}

	if len(servers) == 0 {
		return a.directory.Addresses(), nil
	}

	seen := mapset.NewThreadUnsafeSetWithSize[string](len(servers))
	addresses := make([]string, 0, len(servers))
	for _, name := range servers {
		if !seen.Add(name) {
			continue
		}
		address, err := a.directory.ResolveAddress(name)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}
	return addresses, nil
}
