// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// LookPath finds command in the directories named by PATH.
// A command containing a path separator is checked as given.
func LookPath(command string) (string, error) {
	if command == "" {
		return "", fmt.Errorf("%w: empty command", ErrEngineNotFound)
	}

	if strings.ContainsRune(command, os.PathSeparator) || strings.ContainsRune(command, '/') {
		if isExecutable(command) {
			return command, nil
		}

		return "", fmt.Errorf("%w: %s", ErrEngineNotFound, command)
	}

	for _, p := range filepath.SplitList(os.Getenv("PATH")) {
		if p == "" {
			p = "."
		}

		for _, name := range candidates(command) {
			full := filepath.Join(p, name)
			if isExecutable(full) {
				return full, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s not found in PATH", ErrEngineNotFound, command)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}

	// Windows has no executable bit.
	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return false
	}

	return true
}

func candidates(command string) []string {
	if runtime.GOOS != "windows" || filepath.Ext(command) != "" {
		return []string{command}
	}

	return []string{command + ".exe", command + ".cmd", command + ".bat", command}
}
