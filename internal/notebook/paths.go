// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package notebook

import "path/filepath"

const outSuffix = "-out"

// InputPath is "<name>.ipynb".
func InputPath(name string) string {
	return name + Extension
}

// OutputPath is "<name>-out.ipynb", the result of a single run.
func OutputPath(name string) string {
	return name + outSuffix + Extension
}

// BatchOutputPath is "<dir>/<name>-out-<identifier>.ipynb".
func BatchOutputPath(dir, name, identifier string) string {
	return filepath.Join(dir, name+outSuffix+"-"+identifier+Extension)
}
