// SPDX-License-Identifier: MPL-2.0

// Package workspace discovers the Cargo workspace members and loads each
// member's manifest into an immutable snapshot: package name, explicit
// kbuild metadata opt-in, and the feature table with its dependency specs
// tokenized into bare or capability references.
//
// Classification happens at load time: a package is config-aware when it
// opts in via [package.metadata.kbuild] enabled = true or declares any
// CONFIG_-prefixed feature. Pure code-level readers of global options need
// no feature table entry at all; the classification only concerns packages
// that also expose option names as features for gating optional deps.
package workspace
