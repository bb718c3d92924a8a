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

package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	fetchRequestsCounterName      = "tcpwave.dhcp.fetch.requests"
	fetchDurationHistogramName    = "tcpwave.dhcp.fetch.duration"
	leasesCounterName             = "tcpwave.dhcp.leases"
	directoryRefreshesCounterName = "tcpwave.dhcp.directory.refreshes"

	serverAttribute  = "server"
	outcomeAttribute = "outcome"
)

// Metrics holds the instruments recorded while fetching leases
type Metrics struct {
	fetchRequests      metric.Int64Counter
	fetchDuration      metric.Float64Histogram
	leases             metric.Int64Counter
	directoryRefreshes metric.Int64Counter
}

// NewMetrics creates an instance of Metrics
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	metrics := new(Metrics)
	var err error

	if metrics.fetchRequests, err = meter.Int64Counter(
		fetchRequestsCounterName,
		metric.WithDescription("The total number of per-server active lease requests by outcome"),
	); err != nil {
		return nil, fmt.Errorf("failed to create fetch requests instrument, %v", err)
	}

	if metrics.fetchDuration, err = meter.Float64Histogram(
		fetchDurationHistogramName,
		metric.WithDescription("The latency of per-server active lease requests in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create fetch duration instrument, %v", err)
	}

	if metrics.leases, err = meter.Int64Counter(
		leasesCounterName,
		metric.WithDescription("The total number of lease records decoded"),
	); err != nil {
		return nil, fmt.Errorf("failed to create leases instrument, %v", err)
	}

	if metrics.directoryRefreshes, err = meter.Int64Counter(
		directoryRefreshesCounterName,
		metric.WithDescription("The total number of server directory refreshes by outcome"),
	); err != nil {
		return nil, fmt.Errorf("failed to create directory refreshes instrument, %v", err)
	}

	return metrics, nil
}

// RecordFetch records the outcome of one per-server request
func (m *Metrics) RecordFetch(ctx context.Context, server, outcome string, took time.Duration, leases int) {
	attrs := metric.WithAttributes(
		attribute.String(serverAttribute, server),
		attribute.String(outcomeAttribute, outcome))
	m.fetchRequests.Add(ctx, 1, attrs)
	m.fetchDuration.Record(ctx, float64(took.Microseconds())/1000, attrs)
	if leases > 0 {
		m.leases.Add(ctx, int64(leases), metric.WithAttributes(attribute.String(serverAttribute, server)))
	}
}

// RecordRefresh records the outcome of one directory refresh
func (m *Metrics) RecordRefresh(ctx context.Context, outcome string) {
	m.directoryRefreshes.Add(ctx, 1, metric.WithAttributes(attribute.String(outcomeAttribute, outcome)))
}
