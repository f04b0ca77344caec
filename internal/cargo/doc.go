// SPDX-License-Identifier: MPL-2.0

// Package cargo invokes the external build tool with pre-computed flags and
// environment. It is a thin collaborator: the pipeline hands it the derived
// arguments and RUSTFLAGS, and the child's exit status and output streams
// are relayed verbatim without interpretation.
package cargo
