// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const (
	// NoColor is the environment variable that disables decoration.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces decoration.
	ForceColor = "FORCE_COLOR"

	sbPadding = 16
	csi       = "\033["
	sgrEnd    = "m"
	reset     = "\033[0m"
	osc8      = "\033]8;;"
	st        = "\033\\"
)

// Code is an ANSI SGR parameter.
type Code int

// Text attributes.
const (
	Reset Code = iota
	Bold
	Faint
	Italic
	Underline
)

// Foreground colours.
const (
	FgBlack Code = iota + 30
	FgRed
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
)

// Hi-intensity foreground colours.
const (
	FgHiBlack Code = iota + 90
	FgHiRed
	FgHiGreen
	FgHiYellow
	FgHiBlue
	FgHiMagenta
	FgHiCyan
	FgHiWhite
)

var enabled = isColorCapable()

// Enabled reports whether decoration was enabled at start-up.
func Enabled() bool {
	return enabled
}

// SetEnabled overrides start-up detection, used by the --no-color flag.
func SetEnabled(v bool) {
	enabled = v
}

// ControlString renders the SGR sequence for the given codes.
// It is emitted even when decoration is disabled; callers decide.
func ControlString(codes ...Code) string {
	sb := strings.Builder{}
	sb.Grow(len(csi) + len(sgrEnd) + sbPadding)
	writeSGR(&sb, codes)

	return sb.String()
}

// Colorize wraps str in the given codes followed by a reset.
func Colorize(str string, codes ...Code) string {
	if !enabled {
		return str
	}

	sb := strings.Builder{}
	sb.Grow(len(str) + len(csi) + len(sgrEnd) + len(reset) + sbPadding)
	writeSGR(&sb, codes)
	sb.WriteString(str)
	sb.WriteString(reset)

	return sb.String()
}

// Hyperlink renders text as an OSC 8 hyperlink pointing at target.
// Without decoration the text is returned unchanged.
func Hyperlink(target, text string) string {
	if !enabled {
		return text
	}

	sb := strings.Builder{}
	sb.Grow(len(target) + len(text) + 2*len(osc8) + 2*len(st))
	sb.WriteString(osc8)
	sb.WriteString(target)
	sb.WriteString(st)
	sb.WriteString(text)
	sb.WriteString(osc8)
	sb.WriteString(st)

	return sb.String()
}

func writeSGR(sb *strings.Builder, codes []Code) {
	sb.WriteString(csi)

	for i, code := range codes {
		if i > 0 {
			sb.WriteString(";")
		}

		sb.WriteString(strconv.Itoa(int(code)))
	}

	sb.WriteString(sgrEnd)
}

func isColorCapable() bool {
	if nc := os.Getenv(NoColor); nc != "" {
		return false
	}

	if fc := os.Getenv(ForceColor); fc != "" {
		return true
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}
