// SPDX-License-Identifier: MPL-2.0

// Package pipeline wires the stages of a kbuild run into one synchronous,
// single-threaded sequence: workspace load, feature validation, option-file
// parsing, artifact generation, and the final cargo invocation. No stage
// begins before the prior one completes, no state persists across runs, and
// the first fatal error aborts before the build tool is ever called.
package pipeline
