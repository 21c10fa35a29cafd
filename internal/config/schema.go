// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"github.com/matt-FFFFFF/nbrun/internal/engine"
	"github.com/matt-FFFFFF/nbrun/internal/schema"
)

// JSONSchema returns the JSON schema of YAML configuration files, with the
// built-in values as defaults.
func JSONSchema() ([]byte, error) {
	kinds := engine.Kinds()
	names := make([]string, len(kinds))

	for i, k := range kinds {
		names[i] = string(k)
	}

	g := schema.NewGenerator()
	g.Enums["engine.kind"] = names

	return g.Generate( //nolint:wrapcheck
		"nbrun configuration",
		"Configuration file for the nbrun notebook runner",
		Default(),
	)
}
