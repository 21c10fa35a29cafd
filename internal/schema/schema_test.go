// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inner struct {
	Kind string `yaml:"kind,omitempty" docdesc:"Which kind"`
}

type outer struct {
	Name    string   `yaml:"name" docdesc:"The name"`
	Inner   *inner   `yaml:"inner,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
	Enabled *bool    `yaml:"enabled,omitempty"`
	Skipped string   `yaml:"-"`
	hidden  string
}

func TestFields(t *testing.T) {
	t.Parallel()

	g := NewGenerator()
	g.Enums["inner.kind"] = []string{"a", "b"}

	enabled := true
	fields, err := g.Fields(&outer{Tags: []string{"x"}, Inner: &inner{Kind: "a"}, Enabled: &enabled, hidden: "h"})
	require.NoError(t, err)

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}

	assert.Equal(t, []string{"enabled", "inner", "name", "tags"}, names, "sorted, skipping '-' and unexported fields")

	assert.Equal(t, "boolean", fields[0].Type)
	assert.Equal(t, true, fields[0].Default)

	require.Len(t, fields[1].Properties, 1)
	assert.Equal(t, []string{"a", "b"}, fields[1].Properties[0].Enum)
	assert.Equal(t, "a", fields[1].Properties[0].Default)
	assert.False(t, fields[1].Required)

	assert.True(t, fields[2].Required)
	assert.Equal(t, "The name", fields[2].Description)
	assert.Nil(t, fields[2].Default)

	require.NotNil(t, fields[3].Items)
	assert.Equal(t, "string", fields[3].Items.Type)
	assert.Equal(t, []string{"x"}, fields[3].Default)
}

func TestFieldsNilPointer(t *testing.T) {
	t.Parallel()

	fields, err := NewGenerator().Fields(&outer{})
	require.NoError(t, err)
	require.Len(t, fields[1].Properties, 1)
	assert.Nil(t, fields[1].Properties[0].Default)
}

func TestFieldsNotStruct(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator().Fields("nope")
	require.ErrorIs(t, err, ErrNotStruct)
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	b, err := NewGenerator().Generate("Test", "A test schema", outer{})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))

	assert.Equal(t, Draft, doc["$schema"])
	assert.Equal(t, "Test", doc["title"])
	assert.Equal(t, false, doc["additionalProperties"])
	assert.Equal(t, []any{"name"}, doc["required"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)

	innerProp, ok := props["inner"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "object", innerProp["type"])
	assert.Contains(t, innerProp["properties"], "kind")
}
