// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-getter/v2"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

const hclExtension = ".hcl"

var (
	// ErrGetConfigFile is returned when the file cannot be fetched.
	ErrGetConfigFile = errors.New("failed to get config file")
	// ErrDecode is returned when the file is not valid YAML or HCL.
	ErrDecode = errors.New("failed to decode config file")
)

// Load fetches the configuration at url, decodes it, applies defaults and validates it.
// An empty url returns Default.
func Load(ctx context.Context, url string) (*Config, error) {
	if url == "" {
		return Default(), nil
	}

	b, err := getURL(ctx, url)
	if err != nil {
		return nil, err
	}

	c, err := Decode(fileName(url), b)
	if err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Decode parses src, choosing HCL or YAML from the extension of name, and applies defaults.
func Decode(name string, src []byte) (*Config, error) {
	c := &Config{}

	if strings.EqualFold(filepath.Ext(name), hclExtension) {
		if err := hclsimple.Decode(name, src, EvalContext(), c); err != nil {
			return nil, errors.Join(ErrDecode, err)
		}

		return c.withDefaults(), nil
	}

	if err := yaml.UnmarshalWithOptions(src, c, yaml.DisallowUnknownField()); err != nil {
		return nil, errors.Join(ErrDecode, errors.New(yaml.FormatError(err, false, true)))
	}

	return c.withDefaults(), nil
}

// Example returns the default configuration as YAML.
func Example() ([]byte, error) {
	b, err := yaml.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal example config: %w", err)
	}

	return b, nil
}

// EvalContext is the HCL evaluation context for configuration files.
// It exposes the process environment as env and a few string functions.
func EvalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}

		vars[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
		Functions: map[string]function.Function{
			"lower":     stdlib.LowerFunc,
			"upper":     stdlib.UpperFunc,
			"trimspace": stdlib.TrimSpaceFunc,
			"join":      stdlib.JoinFunc,
			"split":     stdlib.SplitFunc,
			"format":    stdlib.FormatFunc,
			"coalesce":  stdlib.CoalesceFunc,
		},
	}
}

// fileName strips any go-getter forced getter, subdirectory and query from url.
func fileName(url string) string {
	if i := strings.Index(url, goGetterRefSeparator); i >= 0 {
		url = url[:i]
	}

	return filepath.Base(url)
}

// getURL retrieves the content from the specified URL using Hashicorp's go-getter.
// It removes the temporary directory after reading the file.
func getURL(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, ErrGetConfigFile
	}

	tmpDir, err := os.MkdirTemp("", "nbrun-getter-*")
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     url,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var file string
	// Remote sources are fetched as a directory and the file is read from it.
	// https://github.com/hashicorp/go-getter/issues/98
	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return nil, errors.Join(ErrGetConfigFile, err)
		}

		var newURL string

		newURL, file = splitFileNameFromGetterURL(url)
		if newURL == "" || file == "" {
			return nil, fmt.Errorf("%w: invalid URL format: %s", ErrGetConfigFile, url)
		}

		req.Src = newURL
	}

	if file == "" {
		req.Src = filepath.Dir(url)
		file = filepath.Base(url)
	}

	res, err := client.Get(ctx, req)
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	b, err := os.ReadFile(filepath.Join(res.Dst, file))
	if err != nil {
		return nil, errors.Join(ErrGetConfigFile, err)
	}

	return b, nil
}

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // scheme, host and path
)

// splitFileNameFromGetterURL splits a go-getter URL into the source to fetch and
// the file to read from it. A ref query is kept on the returned URL.
func splitFileNameFromGetterURL(url string) (string, string) {
	var ref string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]

	if before, after, ok := strings.Cut(last, goGetterRefSeparator); ok {
		ref = after
		last = before
	}

	if filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	file := filepath.Base(last)

	if dir := filepath.Dir(last); dir == "." {
		parts = parts[:len(parts)-1]
	} else {
		parts[len(parts)-1] = dir
	}

	newURL := strings.Join(parts, goGetterPathSeparator)

	if ref != "" {
		newURL += goGetterRefSeparator + ref
	}

	return newURL, file
}
