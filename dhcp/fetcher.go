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
	stderrors "errors"
	"net/http"
	"net/url"
	"time"

	"github.com/tochemey/gotcpwave/errors"
	"github.com/tochemey/gotcpwave/log"
	"github.com/tochemey/gotcpwave/telemetry"
	"github.com/tochemey/gotcpwave/transport"
)

const (
	activeLeasesPath = "/dhcpserver/dhcpActiveLeases"
	serverIPParam    = "serverIp"

	// offlineMarker prefixes the error body of a DHCP server TCPWave cannot reach
	offlineMarker = "TIMS-3961"
)

// leasesPage is the active leases response body
type leasesPage struct {
	Rows json.RawMessage `json:"rows"`
}

// Fetcher issues the active leases requests, one per server, all at once
type Fetcher struct {
	transport      transport.Transport
	requestTimeout time.Duration
	logger         log.Logger
	metrics        *telemetry.Metrics
}

// NewFetcher creates an instance of Fetcher
func NewFetcher(transport transport.Transport, opts ...Option) *Fetcher {
	o := newOptions(opts)
	return &Fetcher{
		transport:      transport,
		requestTimeout: o.requestTimeout,
		logger:         o.logger,
		metrics:        o.metrics,
	}
}

// FetchAll starts one request per address and returns without waiting for any answer.
// Every request runs under the configured request timeout.
func (f *Fetcher) FetchAll(ctx context.Context, addresses []string) *TaskSet {
	set := newTaskSet(len(addresses))
	for _, address := range addresses {
		set.tasks = append(set.tasks, newFetchTask(ctx, address, f.requestTimeout))
	}

	for _, task := range set.tasks {
		go f.fetch(task, set.completions)
	}
	return set
}

// Drain returns the stream of the leases of the given set, in completion order.
// A set can only be drained once.
func (f *Fetcher) Drain(ctx context.Context, set *TaskSet) *Stream {
	if !set.consumed.CompareAndSwap(false, true) {
		return failedStream(errors.ErrTaskSetConsumed)
	}
	return newStream(ctx, f, set)
}

// fetch never blocks on the completions channel since it is buffered to the set size
func (f *Fetcher) fetch(task *FetchTask, completions chan<- *completion) {
	start := time.Now()
	response, err := f.transport.Do(task.ctx, http.MethodGet, activeLeasesPath,
		url.Values{serverIPParam: []string{task.address}})
	took := time.Since(start)
	task.cancel()

	completions <- &completion{
		task:     task,
		response: response,
		err:      err,
		took:     took,
	}
}

// settle applies the failure policy to a completion and decodes its leases.
// Skipped and cancelled tasks yield no lease and no error.
func (f *Fetcher) settle(ctx context.Context, logger log.Logger, c *completion) ([]*Lease, error) {
	task := c.task

	switch {
	case c.err != nil && transport.IsTimeout(c.err):
		if !task.transition(TaskSkipped) {
			return f.discard(ctx, logger, c)
		}
		f.metrics.RecordFetch(ctx, task.address, TaskSkipped.String(), c.took, 0)
		logger.Warnf("dhcp server=(%s) timed out after %s, skipping", task.address, c.took)
		return nil, nil

	case c.err != nil:
		if !task.transition(TaskFailed) {
			return f.discard(ctx, logger, c)
		}
		f.metrics.RecordFetch(ctx, task.address, TaskFailed.String(), c.took, 0)
		logger.Errorf("dhcp server=(%s) active leases request failed: %v", task.address, c.err)
		var terr *errors.TransportError
		if stderrors.As(c.err, &terr) {
			return nil, c.err
		}
		return nil, errors.NewTransportFailure(http.MethodGet, activeLeasesPath, c.err)

	case c.response.IsError() && c.response.HasPrefix(offlineMarker):
		if !task.transition(TaskSkipped) {
			return f.discard(ctx, logger, c)
		}
		f.metrics.RecordFetch(ctx, task.address, TaskSkipped.String(), c.took, 0)
		logger.Warnf("dhcp server=(%s) is likely offline, skipping", task.address)
		return nil, nil

	case c.response.IsError():
		if !task.transition(TaskFailed) {
			return f.discard(ctx, logger, c)
		}
		f.metrics.RecordFetch(ctx, task.address, TaskFailed.String(), c.took, 0)
		logger.Errorf("dhcp server=(%s) active leases request failed with status=%d", task.address, c.response.StatusCode)
		return nil, errors.NewTransportError(http.MethodGet, activeLeasesPath, c.response.StatusCode, c.response.Text())
	}

	leases, err := decodeLeases(c.response, task.address)
	if err != nil {
		if !task.transition(TaskFailed) {
			return f.discard(ctx, logger, c)
		}
		f.metrics.RecordFetch(ctx, task.address, TaskFailed.String(), c.took, 0)
		logger.Errorf("dhcp server=(%s) returned an invalid active leases body: %v", task.address, err)
		return nil, err
	}

	if !task.transition(TaskCompleted) {
		return f.discard(ctx, logger, c)
	}
	f.metrics.RecordFetch(ctx, task.address, TaskCompleted.String(), c.took, len(leases))
	logger.Debugf("dhcp server=(%s) returned %d active leases in %s", task.address, len(leases), c.took)
	return leases, nil
}

func (f *Fetcher) discard(ctx context.Context, logger log.Logger, c *completion) ([]*Lease, error) {
	f.metrics.RecordFetch(ctx, c.task.address, TaskCancelled.String(), c.took, 0)
	logger.Debugf("discarding late result of cancelled dhcp server=(%s)", c.task.address)
	return nil, nil
}

// decodeLeases decodes the rows of the body. Rows without an owning
// server are attributed to the server they were fetched from.
func decodeLeases(response *transport.Response, address string) ([]*Lease, error) {
	var page leasesPage
	if err := response.DecodeJSON(&page); err != nil {
		return nil, errors.NewErrInvalidResponse(err)
	}

	if len(page.Rows) == 0 {
		return nil, errors.NewErrInvalidResponse(stderrors.New("missing rows"))
	}

	var rows []*Lease
	if err := json.Unmarshal(page.Rows, &rows); err != nil {
		return nil, errors.NewErrInvalidResponse(err)
	}

	leases := make([]*Lease, 0, len(rows))
	for _, lease := range rows {
		if lease == nil {
			continue
		}
		if lease.DHCPServer == "" {
			lease.DHCPServer = address
		}
		leases = append(leases, lease)
	}
	return leases, nil
}
