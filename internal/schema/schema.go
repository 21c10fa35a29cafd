// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package schema generates JSON schemas for configuration structs from their
// yaml and docdesc struct tags.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Draft is the JSON schema dialect of generated documents.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// ErrNotStruct is returned when the value to describe is not a struct.
var ErrNotStruct = errors.New("expected struct type")

// Field represents a field in a JSON schema.
type Field struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Properties  []Field
	Items       *Field
	Enum        []string
	Default     any
}

// Generator builds schemas from struct definitions.
type Generator struct {
	// Enums lists the allowed values of a field, keyed by its dotted path, e.g. "engine.kind".
	Enums map[string][]string
}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator {
	return &Generator{
		Enums: make(map[string][]string),
	}
}

// Fields extracts the schema fields of def, a struct or pointer to struct.
// Non-zero values in def become field defaults.
func (g *Generator) Fields(def any) ([]Field, error) {
	return g.extractFields(reflect.ValueOf(def), "")
}

// Generate returns the indented JSON schema document for def.
func (g *Generator) Generate(title, description string, def any) ([]byte, error) {
	fields, err := g.Fields(def)
	if err != nil {
		return nil, err
	}

	root := objectSchema(fields)
	root["$schema"] = Draft
	root["title"] = title

	if description != "" {
		root["description"] = description
	}

	b, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return b, nil
}

func (g *Generator) extractFields(v reflect.Value, prefix string) ([]Field, error) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			v = reflect.New(v.Type().Elem()).Elem()
			continue
		}

		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w, got %s", ErrNotStruct, v.Kind())
	}

	t := v.Type()

	var fields []Field

	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		f, ok, err := g.fieldToSchemaField(sf, v.Field(i), prefix)
		if err != nil {
			return nil, err
		}

		if ok {
			fields = append(fields, f)
		}
	}

	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Name < fields[j].Name
	})

	return fields, nil
}

func (g *Generator) fieldToSchemaField(sf reflect.StructField, v reflect.Value, prefix string) (Field, bool, error) {
	yamlTag := sf.Tag.Get("yaml")
	if yamlTag == "-" {
		return Field{}, false, nil
	}

	name := strings.ToLower(sf.Name)
	if n, _, _ := strings.Cut(yamlTag, ","); n != "" {
		name = n
	}

	path := prefix + name

	f := Field{
		Name:        name,
		Type:        schemaType(sf.Type),
		Description: sf.Tag.Get("docdesc"),
		Required:    !strings.Contains(yamlTag, "omitempty"),
		Enum:        g.Enums[path],
	}

	elem := sf.Type
	for elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}

	switch {
	case elem.Kind() == reflect.Struct:
		props, err := g.extractFields(v, path+".")
		if err != nil {
			return Field{}, false, err
		}

		f.Properties = props
	case elem.Kind() == reflect.Slice || elem.Kind() == reflect.Array:
		f.Items = &Field{Type: schemaType(elem.Elem())}
		f.Default = defaultOf(v)
	default:
		f.Default = defaultOf(v)
	}

	return f, true, nil
}

// defaultOf returns v as a default value, or nil when v is zero.
func defaultOf(v reflect.Value) any {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}

		v = v.Elem()
	}

	if v.IsZero() {
		return nil
	}

	return v.Interface()
}

// schemaType converts a Go type to a JSON schema type.
func schemaType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Ptr:
		return schemaType(t.Elem())
	default:
		return "string"
	}
}

func objectSchema(fields []Field) map[string]any {
	props := make(map[string]any, len(fields))
	required := []string{}

	for _, f := range fields {
		props[f.Name] = property(f)

		if f.Required {
			required = append(required, f.Name)
		}
	}

	s := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}

	if len(required) > 0 {
		s["required"] = required
	}

	return s
}

func property(f Field) map[string]any {
	var prop map[string]any

	if f.Type == "object" && f.Properties != nil {
		prop = objectSchema(f.Properties)
	} else {
		prop = map[string]any{"type": f.Type}
	}

	if f.Description != "" {
		prop["description"] = f.Description
	}

	if f.Default != nil {
		prop["default"] = f.Default
	}

	if len(f.Enum) > 0 {
		prop["enum"] = f.Enum
	}

	if f.Items != nil {
		prop["items"] = property(*f.Items)
	}

	return prop
}
