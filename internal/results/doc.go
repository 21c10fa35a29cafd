// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package results reads the whitespace-delimited results table that batch
// notebooks append to.
//
// The first non-blank line holds the column names. Every following non-blank
// line is a row with one value per column. A column is chosen as the index,
// conventionally "sample", and is held apart from the remaining columns.
// Rows keep file order.
package results
