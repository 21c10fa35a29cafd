// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color decides whether terminal decoration is wanted and applies it.
// Decoration covers ANSI SGR colour codes and OSC 8 hyperlinks, which terminals
// render as clickable references to notebook and results files.
//
// NO_COLOR disables decoration, FORCE_COLOR enables it, otherwise it is enabled
// only when stdout is a terminal (detected with golang.org/x/term).
package color
