// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package engine runs notebooks through an external execution engine.
//
// nbrun never interprets notebook cells itself. An Executor takes a loaded
// notebook.Document, runs every cell in order, and replaces the document content
// with the executed notebook. When a cell fails the Executor still replaces the
// content with whatever partial output the engine produced, then returns an
// error.
//
// CommandExecutor drives an engine process such as papermill or
// "jupyter nbconvert". The process inherits nbrun's environment, which is how a
// notebook learns the run identifier of a batch.
package engine
