// SPDX-License-Identifier: MPL-2.0

// Package dotconfig parses the Kconfig-style .config option file into an
// insertion-ordered, typed mapping.
//
// The file format is line-oriented KEY=VALUE, where VALUE is a y/n/m
// tristate, a double-quoted string, or a decimal integer. Parsing is strict:
// unknown value shapes and duplicate keys abort with errors that name the
// offending lines. The parsed Config is immutable for the rest of the run.
package dotconfig
