// SPDX-License-Identifier: MPL-2.0

// Package config loads and persists the global chore configuration.
//
// Configuration lives in a CUE file under the platform config directory
// (e.g. ~/.config/chore/config.cue on Linux). Values are validated against
// an embedded CUE schema and merged into Viper over built-in defaults, so
// a partial config file only overrides the fields it mentions.
package config
