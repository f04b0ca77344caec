// SPDX-License-Identifier: MPL-2.0

// Package generate emits the two derived build artifacts from the parsed
// config and the workspace's declared option names: the .cargo/config.toml
// fragment declaring every recognized option for check-cfg, and the
// target/kbuild/config.rs source exposing non-boolean option values as
// typed constants. Both are regenerated from scratch on every run and are
// written in stable sort order so regeneration is byte-identical.
package generate
