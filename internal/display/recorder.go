// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package display

import (
	"sync"

	"github.com/matt-FFFFFF/nbrun/internal/results"
)

var _ Display = (*Recorder)(nil)

// Recorder keeps every call in memory. It is used in place of a Terminal in tests.
type Recorder struct {
	mu       sync.Mutex
	Calls    []Call
	TableErr error // Returned from Table when set
}

// Call is one recorded Display call.
type Call struct {
	Kind  string // "link", "message" or "table"
	Text  string
	Table *results.Table
}

// FileLink implements Display.
func (r *Recorder) FileLink(path string) {
	r.add(Call{Kind: "link", Text: path})
}

// Message implements Display.
func (r *Recorder) Message(msg string) {
	r.add(Call{Kind: "message", Text: msg})
}

// Table implements Display.
func (r *Recorder) Table(t *results.Table) error {
	r.add(Call{Kind: "table", Table: t})

	return r.TableErr
}

// Links returns the paths passed to FileLink, in order.
func (r *Recorder) Links() []string {
	return r.texts("link")
}

// Messages returns the messages shown, in order.
func (r *Recorder) Messages() []string {
	return r.texts("message")
}

// Tables returns the tables shown, in order.
func (r *Recorder) Tables() []*results.Table {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []*results.Table

	for _, c := range r.Calls {
		if c.Kind == "table" {
			res = append(res, c.Table)
		}
	}

	return res
}

func (r *Recorder) texts(kind string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []string

	for _, c := range r.Calls {
		if c.Kind == kind {
			res = append(res, c.Text)
		}
	}

	return res
}

func (r *Recorder) add(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls = append(r.Calls, c)
}
