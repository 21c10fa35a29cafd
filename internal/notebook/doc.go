// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package notebook loads and saves notebook documents.
//
// A Document is opaque: nbrun checks that a file holds a JSON object and
// otherwise only moves the bytes between disk and the execution engine.
// All file access goes through an afero.Fs so callers and tests can swap the
// filesystem.
package notebook
