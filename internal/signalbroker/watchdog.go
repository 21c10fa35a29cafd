// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/nbrun/internal/ctxlog"
)

// Watch reads sigCh until it is closed or ctx is done.
// The first signal of a given kind calls stop, if set; the second calls cancel.
func Watch(ctx context.Context, sigCh <-chan os.Signal, stop func(), cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}

			if _, dup := seen[sig]; dup {
				ctxlog.Warn(ctx, "second signal received, cancelling run", "signal", sig.String())
				cancel()

				return
			}

			ctxlog.Warn(ctx, "signal received, stopping after the current notebook; repeat to cancel", "signal", sig.String())

			seen[sig] = struct{}{}

			if stop != nil {
				stop()
			}
		}
	}
}
