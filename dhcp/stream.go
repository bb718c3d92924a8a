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

	"github.com/tochemey/gotcpwave/log"
)

// Stream is the lazy sequence of the leases of one aggregation, in the order
// the servers answer. It is finite and cannot be restarted.
//
//	for stream.Next() {
//		lease := stream.Lease()
//	}
//	if err := stream.Err(); err != nil {
//	}
//
// Leases returned before an error stay valid. A Stream is not safe for
// concurrent use; its TaskSet is.
type Stream struct {
	ctx       context.Context
	fetcher   *Fetcher
	set       *TaskSet
	logger    log.Logger
	remaining int
	buffer    []*Lease
	current   *Lease
	err       error
	done      bool
}

func newStream(ctx context.Context, fetcher *Fetcher, set *TaskSet) *Stream {
	return &Stream{
		ctx:       ctx,
		fetcher:   fetcher,
		set:       set,
		logger:    fetcher.logger.With("aggregation", set.ID()),
		remaining: set.Len(),
	}
}

func failedStream(err error) *Stream {
	return &Stream{err: err, done: true}
}

// Next advances to the next lease. It returns false when the stream
// is exhausted or failed, Err tells which.
func (s *Stream) Next() bool {
	if s.done {
		return false
	}

	for len(s.buffer) == 0 {
		if s.remaining == 0 {
			s.done = true
			s.current = nil
			return false
		}

		var c *completion
		select {
		case <-s.ctx.Done():
			s.fail(s.ctx.Err())
			return false
		case c = <-s.set.completions:
			s.remaining--
		}

		if err := s.ctx.Err(); err != nil {
			s.fail(err)
			return false
		}

		leases, err := s.fetcher.settle(s.ctx, s.logger, c)
		if err != nil {
			s.fail(err)
			return false
		}
		s.buffer = leases
	}

	s.current = s.buffer[0]
	s.buffer[0] = nil
	s.buffer = s.buffer[1:]
	return true
}

// Lease returns the current lease
func (s *Stream) Lease() *Lease {
	return s.current
}

// Err returns the error that stopped the stream
func (s *Stream) Err() error {
	return s.err
}

// Close stops the stream and cancels the pending requests without waiting for them
func (s *Stream) Close() {
	if !s.done && s.set != nil {
		if cancelled := s.set.CancelAll(); cancelled > 0 {
			s.logger.Debugf("stream closed, %d pending dhcp server requests cancelled", cancelled)
		}
	}
	s.done = true
	s.current = nil
	s.buffer = nil
}

// Collect drains the stream into a slice
func (s *Stream) Collect() ([]*Lease, error) {
	var leases []*Lease
	for s.Next() {
		leases = append(leases, s.Lease())
	}
	return leases, s.Err()
}

func (s *Stream) fail(err error) {
	s.err = err
	s.done = true
	s.current = nil
	s.buffer = nil
	if cancelled := s.set.CancelAll(); cancelled > 0 {
		s.logger.Debugf("aggregation aborted, %d pending dhcp server requests cancelled", cancelled)
	}
}
