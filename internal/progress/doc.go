// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress carries per-identifier updates out of a notebook batch.
// The batch runner and the engine emit events; the TUI and the log reporter
// consume them. Results are still returned by the runner itself, progress is
// only ever informational.
package progress
