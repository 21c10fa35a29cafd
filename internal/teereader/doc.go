// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader wraps the output pipes of a notebook engine process.
// It keeps a bounded copy of everything read, for error reports, and tracks the
// most recent non-empty line, for progress display.
package teereader
