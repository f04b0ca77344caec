// SPDX-License-Identifier: MPL-2.0

// kbuild brings kernel-style global configuration to Cargo workspaces.
package main

import cmd "kbuild-cli/cmd/kbuild"

func main() {
	cmd.Execute()
}
