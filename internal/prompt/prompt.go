// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package prompt asks the user yes or no questions on the terminal.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// ErrNotTerminal is returned when there is no terminal to prompt on.
var ErrNotTerminal = errors.New("cannot prompt without a terminal")

// LineReader reads one line of input after printing a prompt.
type LineReader interface {
	Prompt(p string) (string, error)
	Close() error
}

// NewLineReader opens the terminal. It is replaced in tests.
var NewLineReader = func() (LineReader, error) {
	if liner.TerminalSupported() {
		l := liner.NewLiner()
		l.SetCtrlCAborts(true)

		return l, nil
	}

	return nil, ErrNotTerminal
}

// Confirm asks question until the answer is yes or no.
// An empty answer selects def. Aborting with Ctrl+C or Ctrl+D answers no.
func Confirm(question string, def bool) (bool, error) {
	lr, err := NewLineReader()
	if err != nil {
		return false, err
	}

	defer lr.Close() //nolint:errcheck

	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}

	for {
		answer, err := lr.Prompt(fmt.Sprintf("%s %s ", question, hint))

		switch {
		case errors.Is(err, liner.ErrPromptAborted), errors.Is(err, io.EOF):
			return false, nil
		case err != nil:
			return false, fmt.Errorf("failed to read answer: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

// ConfirmDelete returns a function asking whether the file at path may be deleted.
func ConfirmDelete() func(path string) (bool, error) {
	return func(path string) (bool, error) {
		return Confirm(fmt.Sprintf("Delete existing results file %q?", path), false)
	}
}
