// SPDX-License-Identifier: MPL-2.0

// Package settings handles kbuild's own configuration using Viper with TOML
// as the file format. This is the tool's configuration (cargo binary
// override, default option-file name, UI preferences), not the workspace's
// .config option file — that one is parsed by internal/dotconfig.
//
// The settings file lives at ~/.config/kbuild/config.toml (or the XDG/OS
// equivalent). A missing file falls back to defaults.
package settings
