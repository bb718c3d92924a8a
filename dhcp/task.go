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
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/tochemey/gotcpwave/transport"
)

// TaskState is the state of a FetchTask
type TaskState int32

const (
	// TaskPending means the request is in flight or its result not yet consumed
	TaskPending TaskState = iota
	// TaskCompleted means the server leases were decoded
	TaskCompleted
	// TaskSkipped means the server timed out or is reported offline
	TaskSkipped
	// TaskFailed means the server answered with an unexpected failure
	TaskFailed
	// TaskCancelled means the task was cancelled before its result was consumed
	TaskCancelled
)

// String returns the state name
func (s TaskState) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskCompleted:
		return "completed"
	case TaskSkipped:
		return "skipped"
	case TaskFailed:
		return "failed"
	case TaskCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// FetchTask is one outstanding active leases request
type FetchTask struct {
	address string
	ctx     context.Context
	cancel  context.CancelFunc
	state   *atomic.Int32
}

func newFetchTask(ctx context.Context, address string, timeout time.Duration) *FetchTask {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return &FetchTask{
		address: address,
		ctx:     ctx,
		cancel:  cancel,
		state:   atomic.NewInt32(int32(TaskPending)),
	}
}

// Address returns the target server address
func (t *FetchTask) Address() string {
	return t.address
}

// State returns the task current state
func (t *FetchTask) State() TaskState {
	return TaskState(t.state.Load())
}

// Cancel cancels the task when it is still pending.
// It returns false when the task had already left the pending state.
func (t *FetchTask) Cancel() bool {
	if !t.transition(TaskCancelled) {
		return false
	}
	t.cancel()
	return true
}

// transition leaves the pending state exactly once
func (t *FetchTask) transition(to TaskState) bool {
	return t.state.CompareAndSwap(int32(TaskPending), int32(to))
}

// completion is posted by a request goroutine once the request returns
type completion struct {
	task     *FetchTask
	response *transport.Response
	err      error
	took     time.Duration
}

// TaskSet is the set of requests of one aggregation. It is the cancellation
// handle of the aggregation and can be drained only once.
type TaskSet struct {
	id          string
	tasks       []*FetchTask
	completions chan *completion
	consumed    *atomic.Bool
}

func newTaskSet(size int) *TaskSet {
	return &TaskSet{
		id:          uuid.NewString(),
		tasks:       make([]*FetchTask, 0, size),
		completions: make(chan *completion, size),
		consumed:    atomic.NewBool(false),
	}
}

// ID returns the aggregation correlation id
func (s *TaskSet) ID() string {
	return s.id
}

// Tasks returns the tasks in submission order
func (s *TaskSet) Tasks() []*FetchTask {
	tasks := make([]*FetchTask, len(s.tasks))
	copy(tasks, s.tasks)
	return tasks
}

// Len returns the number of tasks
func (s *TaskSet) Len() int {
	return len(s.tasks)
}

// Pending returns the number of tasks whose result was not consumed yet
func (s *TaskSet) Pending() int {
	count := 0
	for _, task := range s.tasks {
		if task.State() == TaskPending {
			count++
		}
	}
	return count
}

// CancelAll cancels every pending task and returns how many were cancelled.
// It does not wait for the requests to stop; their late results are discarded.
func (s *TaskSet) CancelAll() int {
	count := 0
	for _, task := range s.tasks {
		if task.Cancel() {
			count++
		}
	}
	return count
}
