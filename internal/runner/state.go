// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

// State is the progress of one identifier through a batch.
type State int

const (
	StatePending        State = iota // Not started
	StateEnvironmentSet              // Environment variable set
	StateLoaded                      // Template read from disk
	StateExecuting                   // Handed to the engine
	StateSucceeded                   // Executed without error
	StateFailed                      // Loading or execution failed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateEnvironmentSet:
		return "environment set"
	case StateLoaded:
		return "loaded"
	case StateExecuting:
		return "executing"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Done reports whether s is terminal.
func (s State) Done() bool {
	return s == StateSucceeded || s == StateFailed
}
