// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads the optional nbrun configuration file.
//
// The file is fetched with go-getter, so it may be a local path or any URL that
// go-getter understands, for example "git::https://example.com/repo.git//nbrun.yaml?ref=v1".
// Files ending in ".hcl" are decoded as HCL, everything else as YAML.
//
// HCL files can read the environment through the env object:
//
//	engine {
//	  kind   = "papermill"
//	  kernel = lower(env.NB_KERNEL)
//	}
//	identifiers = ["7d", "12d"]
//
// Values missing from the file take their defaults, see Default.
package config
