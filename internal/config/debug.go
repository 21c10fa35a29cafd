// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/Azure/golden"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/peterh/liner"
)

// ErrEval is returned when an expression cannot be parsed or evaluated.
var ErrEval = errors.New("failed to evaluate expression")

// Eval evaluates a single HCL expression against ec and renders the result.
func Eval(expr string, ec *hcl.EvalContext) (string, error) {
	expression, diag := hclsyntax.ParseExpression([]byte(expr), "repl.hcl", hcl.InitialPos)
	if diag.HasErrors() {
		return "", errors.Join(ErrEval, diag)
	}

	value, diag := expression.Value(ec)
	if diag.HasErrors() {
		return "", errors.Join(ErrEval, diag)
	}

	return golden.CtyValueToString(value), nil
}

// Debug starts an interactive session evaluating HCL expressions with the
// context configuration files are decoded with. Results are written to w.
func Debug(w io.Writer) error {
	line := liner.NewLiner()

	defer func() {
		_ = line.Close()
	}()

	line.SetCtrlCAborts(true)
	fmt.Fprintln(w, "Evaluating configuration expressions, enter `quit` or `exit` or press Ctrl+C to quit.") //nolint:errcheck

	ec := EvalContext()

	for {
		input, err := line.Prompt("nbrun> ")

		switch {
		case errors.Is(err, liner.ErrPromptAborted), errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("error reading line: %w", err)
		}

		if input == "quit" || input == "exit" {
			return nil
		}

		if input == "" {
			continue
		}

		line.AppendHistory(input)

		out, err := Eval(input, ec)
		if err != nil {
			fmt.Fprintln(w, err) //nolint:errcheck
			continue
		}

		fmt.Fprintln(w, out) //nolint:errcheck
	}
}
