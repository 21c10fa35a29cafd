// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"
	"slices"
)

// Kind selects an engine preset.
type Kind string

const (
	// KindPapermill runs "papermill <input> <output>".
	// Papermill writes the partially executed notebook when a cell fails.
	KindPapermill Kind = "papermill"
	// KindNBConvert runs "jupyter nbconvert --execute", reading the notebook on stdin.
	KindNBConvert Kind = "nbconvert"
	// KindCommand runs an arbitrary command built from placeholders.
	KindCommand Kind = "command"
)

// Placeholders substituted into engine arguments.
const (
	PlaceholderInput  = "{input}"  // path of the notebook handed to the engine
	PlaceholderOutput = "{output}" // path the engine must write the executed notebook to
	PlaceholderDir    = "{dir}"    // scratch directory holding both
	PlaceholderCwd    = "{cwd}"    // working directory cells should run in
)

// preset is the command line of a built-in engine.
type preset struct {
	command string
	args    []string
	stdin   bool
	kernel  func(name string) []string
}

var presets = map[Kind]preset{
	KindPapermill: {
		command: "papermill",
		args:    []string{PlaceholderInput, PlaceholderOutput, "--cwd", PlaceholderCwd, "--log-output"},
		kernel: func(name string) []string {
			return []string{"--kernel", name}
		},
	},
	KindNBConvert: {
		command: "jupyter",
		args: []string{
			"nbconvert", "--to", "notebook", "--execute", "--stdin",
			"--output-dir", PlaceholderDir, "--output", outputBase,
		},
		stdin: true,
		kernel: func(name string) []string {
			return []string{"--ExecutePreprocessor.kernel_name=" + name}
		},
	},
}

// Kinds lists the accepted kinds.
func Kinds() []Kind {
	return []Kind{KindPapermill, KindNBConvert, KindCommand}
}

// ParseKind validates s as a Kind. The empty string means papermill.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindPapermill, nil
	}

	k := Kind(s)
	if !slices.Contains(Kinds(), k) {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}

	return k, nil
}
