// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrStopped is returned by RunBatch when a stop was requested between identifiers.
var ErrStopped = errors.New("batch stopped before all identifiers ran")

type stopKey struct{}

// WithStop returns a context carrying a stop request and the function that makes it.
// Once stop is called RunBatch lets the current identifier finish and returns
// ErrStopped instead of starting the next one.
func WithStop(ctx context.Context) (context.Context, func()) {
	requested := new(atomic.Bool)

	return context.WithValue(ctx, stopKey{}, requested), func() { requested.Store(true) }
}

func stopRequested(ctx context.Context) bool {
	requested, ok := ctx.Value(stopKey{}).(*atomic.Bool)

	return ok && requested.Load()
}
