// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	// Extension is the notebook file extension.
	Extension = ".ipynb"

	fileMode = 0o644
	dirMode  = 0o755
	indent   = " "
)

var (
	// ErrRead is returned when a notebook file cannot be read.
	ErrRead = errors.New("failed to read notebook")
	// ErrWrite is returned when a notebook file cannot be written.
	ErrWrite = errors.New("failed to write notebook")
	// ErrInvalid is returned when a file does not contain a notebook JSON object.
	ErrInvalid = errors.New("file is not a notebook document")
)

// FsFactory returns the filesystem used when none is supplied.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Document is a notebook held as raw JSON.
type Document struct {
	path string
	raw  json.RawMessage
}

// New wraps raw as a Document, checking it is a JSON object.
func New(path string, raw []byte) (*Document, error) {
	d := &Document{path: path}
	if err := d.Replace(raw); err != nil {
		return nil, err
	}

	return d, nil
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string {
	return d.path
}

// Bytes returns the document JSON. The slice must not be modified.
func (d *Document) Bytes() []byte {
	return d.raw
}

// Replace swaps the document content, as an execution engine does when it
// hands back an executed notebook. Invalid content leaves d unchanged.
func (d *Document) Replace(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return fmt.Errorf("%w: %s", ErrInvalid, d.path)
	}

	d.raw = bytes.Clone(trimmed)

	return nil
}

// Read loads the notebook at path from fs.
func Read(fs afero.Fs, path string) (*Document, error) {
	if fs == nil {
		fs = FsFactory()
	}

	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Join(ErrRead, err)
	}

	return New(path, b)
}

// Write saves d to path on fs, creating parent directories.
// Output is indented with one space per level, as Jupyter writes notebooks.
func Write(fs afero.Fs, path string, d *Document) error {
	if fs == nil {
		fs = FsFactory()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, dirMode); err != nil {
			return errors.Join(ErrWrite, err)
		}
	}

	buf := bytes.Buffer{}
	if err := json.Indent(&buf, d.raw, "", indent); err != nil {
		return errors.Join(ErrWrite, err)
	}

	buf.WriteByte('\n')

	if err := afero.WriteFile(fs, path, buf.Bytes(), fileMode); err != nil {
		return errors.Join(ErrWrite, err)
	}

	return nil
}
