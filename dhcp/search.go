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
	stderrors "errors"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tochemey/gotcpwave/errors"
	"github.com/tochemey/gotcpwave/log"
)

// NameQuery selects leases by host name. Exactly one of Contains
// and Pattern must be set.
type NameQuery struct {
	// Contains is matched as a case-insensitive substring
	Contains string
	// Pattern is matched as a case-insensitive regular expression
	Pattern string
}

// predicate validates the query and builds its predicate
func (q NameQuery) predicate() (Predicate, error) {
	hasValue, hasPattern := q.Contains != "", q.Pattern != ""
	switch {
	case !hasValue && !hasPattern:
		return nil, errors.NewErrInvalidArgument(stderrors.New("either a name value or a name pattern is required"))
	case hasValue && hasPattern:
		return nil, errors.NewErrInvalidArgument(stderrors.New("name value and name pattern are mutually exclusive"))
	case hasValue:
		return NameContains(q.Contains), nil
	default:
		expression, err := regexp.Compile("(?i)" + q.Pattern)
		if err != nil {
			return nil, errors.NewErrInvalidArgument(err)
		}
		return NameMatches(expression), nil
	}
}

// Search finds leases across the DHCP servers
type Search struct {
	aggregator *Aggregator
	directory  *Directory
	logger     log.Logger
	tracer     trace.Tracer
}

// NewSearch creates an instance of Search
func NewSearch(aggregator *Aggregator, directory *Directory, opts ...Option) *Search {
	o := newOptions(opts)
	return &Search{
		aggregator: aggregator,
		directory:  directory,
		logger:     o.logger,
		tracer:     o.telemetry.Tracer(),
	}
}

// FindFirstByAddress returns the first lease of the given IP address
func (s *Search) FindFirstByAddress(ctx context.Context, address string, servers ...string) (*Lease, error) {
	ctx, span := s.tracer.Start(ctx, "FindFirstByAddress", trace.WithAttributes(attribute.String("address", address)))
	defer span.End()
	lease, err := s.findFirst(ctx, span, AddressEquals(address), servers)
	return lease, recordError(span, err)
}

// FindFirstByMAC returns the first lease of the given MAC address
func (s *Search) FindFirstByMAC(ctx context.Context, mac string, servers ...string) (*Lease, error) {
	ctx, span := s.tracer.Start(ctx, "FindFirstByMAC", trace.WithAttributes(attribute.String("mac", mac)))
	defer span.End()
	lease, err := s.findFirst(ctx, span, MACEquals(mac), servers)
	return lease, recordError(span, err)
}

// FindFirst returns the first lease matching the predicate, in the order the
// servers answer. The requests still pending once it is found are cancelled.
// ErrLeaseNotFound is returned when every server was drained without a match.
func (s *Search) FindFirst(ctx context.Context, predicate Predicate, servers ...string) (*Lease, error) {
	ctx, span := s.tracer.Start(ctx, "FindFirst")
	defer span.End()
	lease, err := s.findFirst(ctx, span, predicate, servers)
	return lease, recordError(span, err)
}

// FindAllMatching returns every lease matching the predicate. Every server is
// drained. On failure the matches found so far are returned with the error.
func (s *Search) FindAllMatching(ctx context.Context, predicate Predicate, servers ...string) ([]*Lease, error) {
	ctx, span := s.tracer.Start(ctx, "FindAllMatching")
	defer span.End()
	leases, err := s.findAll(ctx, span, predicate, servers)
	return leases, recordError(span, err)
}

// FindByName returns every lease whose host name matches the query
func (s *Search) FindByName(ctx context.Context, query NameQuery, servers ...string) ([]*Lease, error) {
	ctx, span := s.tracer.Start(ctx, "FindByName", trace.WithAttributes(
		attribute.String("contains", query.Contains),
		attribute.String("pattern", query.Pattern)))
	defer span.End()

	predicate, err := query.predicate()
	if err != nil {
		return nil, recordError(span, err)
	}

	leases, err := s.findAll(ctx, span, predicate, servers)
	return leases, recordError(span, err)
}

func (s *Search) findFirst(ctx context.Context, span trace.Span, predicate Predicate, servers []string) (*Lease, error) {
	set, stream, err := s.aggregator.AggregateWithCancellation(ctx, servers...)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	span.SetAttributes(attribute.String("aggregation", set.ID()), attribute.Int("servers", set.Len()))

	for stream.Next() {
		lease := stream.Lease()
		if !predicate(lease) {
			continue
		}

		cancelled := set.CancelAll()
		s.logger.With("aggregation", set.ID()).
			Debugf("lease found on dhcp server=(%s), %d pending requests cancelled", lease.DHCPServer, cancelled)

		if err := s.enrich(lease); err != nil {
			return nil, err
		}
		return lease, nil
	}

	if err := stream.Err(); err != nil {
		return nil, err
	}
	return nil, errors.ErrLeaseNotFound
}

func (s *Search) findAll(ctx context.Context, span trace.Span, predicate Predicate, servers []string) ([]*Lease, error) {
	set, stream, err := s.aggregator.AggregateWithCancellation(ctx, servers...)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	span.SetAttributes(attribute.String("aggregation", set.ID()), attribute.Int("servers", set.Len()))

	var matches []*Lease
	for stream.Next() {
		lease := stream.Lease()
		if predicate(lease) {
			matches = append(matches, lease)
		}
	}

	err = stream.Err()
	for _, lease := range matches {
		if enrichErr := s.enrich(lease); enrichErr != nil && err == nil {
			err = enrichErr
		}
	}

	span.SetAttributes(attribute.Int("matches", len(matches)))
	return matches, err
}

// enrich sets the name of the server owning the lease
func (s *Search) enrich(lease *Lease) error {
	name, err := s.directory.ResolveName(lease.DHCPServer)
	if err != nil {
		return err
	}
	lease.DHCPServerName = name
	return nil
}

func recordError(span trace.Span, err error) error {
	if err != nil && !stderrors.Is(err, errors.ErrLeaseNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, strings.SplitN(err.Error(), "\n", 2)[0])
	}
	return err
}
