// SPDX-License-Identifier: MPL-2.0

// Package validate checks feature-dependency wiring against the
// config-awareness classification. A parent package must not steer a
// config-aware package's internals through sub-capability feature specs;
// that control belongs to the shared .config file. The scan is pure with
// respect to the workspace and aborts at the first disallowed edge.
package validate
