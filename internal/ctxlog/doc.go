// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a *slog.Logger through a context.Context.
//
// The default logger writes through PrettyHandler, a console handler that prints
// a timestamp, a coloured level, the message and any attributes as indented JSON.
// The level comes from the <EXECUTABLE>_LOG_LEVEL environment variable,
// e.g. NBRUN_LOG_LEVEL=DEBUG.
package ctxlog
