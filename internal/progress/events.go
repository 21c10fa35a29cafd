// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"context"
	"time"
)

// Event is a single update about one notebook execution.
type Event struct {
	Identifier string    // Run identifier, empty for a single notebook run
	Notebook   string    // Input notebook path
	Type       EventType // What happened
	Message    string    // Human readable summary
	Timestamp  time.Time // When it happened
	Data       EventData // Type-specific data
}

// EventType describes what an Event reports.
type EventType int

const (
	// EventStarted is sent once the environment is set and before the notebook is loaded.
	EventStarted EventType = iota
	// EventExecuting is sent when the loaded notebook is handed to the engine.
	EventExecuting
	// EventOutput carries the latest line printed by the engine.
	EventOutput
	// EventSaved is sent after the executed notebook is written.
	EventSaved
	// EventCompleted is sent when the notebook executed without error.
	EventCompleted
	// EventFailed is sent when execution failed.
	EventFailed
)

// String implements fmt.Stringer.
func (et EventType) String() string {
	switch et {
	case EventStarted:
		return "started"
	case EventExecuting:
		return "executing"
	case EventOutput:
		return "output"
	case EventSaved:
		return "saved"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// EventData holds the optional payload of an Event.
type EventData struct {
	OutputLine string // EventOutput
	IsStderr   bool   // EventOutput
	OutputPath string // EventSaved
	Error      error  // EventFailed
}

// NewEvent returns an Event stamped with the current time.
func NewEvent(identifier, notebook string, et EventType, msg string) Event {
	return Event{
		Identifier: identifier,
		Notebook:   notebook,
		Type:       et,
		Message:    msg,
		Timestamp:  time.Now(),
	}
}

// Reporter receives events. Report must not block the caller for long.
type Reporter interface {
	Report(event Event)
	Close()
}

// Listener handles events forwarded by a ChannelReporter.
type Listener interface {
	OnEvent(event Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(event Event)

// OnEvent implements Listener.
func (f ListenerFunc) OnEvent(event Event) {
	f(event)
}

// NullReporter discards everything.
type NullReporter struct{}

// Report implements Reporter.
func (NullReporter) Report(Event) {}

// Close implements Reporter.
func (NullReporter) Close() {}

// NewNullReporter returns a Reporter that discards events.
func NewNullReporter() Reporter {
	return NullReporter{}
}

type identifierKey struct{}

// WithIdentifier returns a copy of ctx naming the run identifier being executed.
// Components below the runner, such as the engine, use it to label events.
func WithIdentifier(ctx context.Context, identifier string) context.Context {
	return context.WithValue(ctx, identifierKey{}, identifier)
}

// IdentifierFromContext returns the identifier set by WithIdentifier, or "".
func IdentifierFromContext(ctx context.Context) string {
	id, _ := ctx.Value(identifierKey{}).(string)

	return id
}
