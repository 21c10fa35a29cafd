// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"context"
	"sync"

	"github.com/matt-FFFFFF/nbrun/internal/ctxlog"
)

// ChannelReporter buffers events on a channel.
// Events are dropped rather than blocking when the buffer is full.
type ChannelReporter struct {
	ch     chan Event
	mu     sync.RWMutex
	wg     sync.WaitGroup
	once   sync.Once
	closed bool
}

// NewChannelReporter creates a ChannelReporter holding up to bufferSize events.
func NewChannelReporter(bufferSize int) *ChannelReporter {
	return &ChannelReporter{
		ch: make(chan Event, bufferSize),
	}
}

// Report implements Reporter.
func (cr *ChannelReporter) Report(event Event) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	if cr.closed {
		return
	}

	select {
	case cr.ch <- event:
	default:
	}
}

// Close stops the reporter and waits for any listener to drain.
func (cr *ChannelReporter) Close() {
	cr.once.Do(func() {
		cr.mu.Lock()
		cr.closed = true
		close(cr.ch)
		cr.mu.Unlock()

		cr.wg.Wait()
	})
}

// Listen forwards events to l from a new goroutine until Close.
// Buffered events are delivered before Close returns.
func (cr *ChannelReporter) Listen(l Listener) {
	cr.wg.Add(1)

	go func() {
		defer cr.wg.Done()

		for event := range cr.ch {
			l.OnEvent(event)
		}
	}()
}

// LogReporter writes events to the context logger.
type LogReporter struct {
	ctx context.Context
}

// NewLogReporter returns a Reporter that logs through ctxlog.
func NewLogReporter(ctx context.Context) *LogReporter {
	return &LogReporter{ctx: ctx}
}

// Report implements Reporter.
func (lr *LogReporter) Report(event Event) {
	logger := ctxlog.Logger(lr.ctx).With("event", event.Type.String())
	if event.Identifier != "" {
		logger = logger.With("identifier", event.Identifier)
	}

	switch event.Type {
	case EventFailed:
		logger.Error(event.Message, "error", event.Data.Error)
	case EventOutput:
		logger.Debug(event.Message, "line", event.Data.OutputLine, "stderr", event.Data.IsStderr)
	case EventSaved:
		logger.Info(event.Message, "path", event.Data.OutputPath)
	default:
		logger.Info(event.Message, "notebook", event.Notebook)
	}
}

// Close implements Reporter.
func (*LogReporter) Close() {}
