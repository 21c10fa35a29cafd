// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui shows the live progress of a notebook batch. Each run identifier
// gets one row with its status, elapsed time and the latest line printed by the
// execution engine.
//
// The TUI is driven by progress events. Run starts the batch in the background,
// forwards its events to the bubbletea program and returns once the batch has
// finished and the final state has been drawn.
package tui
