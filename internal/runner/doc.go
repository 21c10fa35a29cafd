// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runner executes notebooks and saves the executed copies.
//
// RunSingle executes "<name>.ipynb" once and writes "<name>-out.ipynb".
//
// RunBatch executes a template notebook once per run identifier. Before each
// run the identifier is placed in an environment variable (NB_DATA_FILE by
// default) so the notebook can pick its own input data when it executes. Each
// run writes "out_notebooks/<name>-out-<identifier>.ipynb". The notebooks append
// to "results/<name>.txt", which is read and shown as a table once every
// identifier has succeeded.
//
// Runs are strictly sequential because the environment variable is process
// wide. The executed notebook is saved whether or not execution succeeded, so a
// failed run always leaves its traceback on disk.
package runner
