// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// It defines error types that include remediation steps and Markdown-formatted
// guidance for the failure classes the kbuild pipeline can hit.
package issue
