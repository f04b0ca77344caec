// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigNotFoundId Id = iota + 1
	ConfigParseErrorId
	WorkspaceNotFoundId
	ManifestLoadErrorId
	FeatureValidationId
	ArtifactWriteFailedId
	CargoNotFoundId
	SettingsLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation links shown under "See also"
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	configNotFoundIssue = &Issue{
		id: ConfigNotFoundId,
		mdMsg: `
# No .config file found!

kbuild needs a .config file with the global option values for this workspace.

## Things you can try:
- Generate a template from the features declared in your workspace:
~~~
$ kbuild init
~~~

- Or point kbuild at an existing option file:
~~~
$ kbuild build --config path/to/.config
~~~

## Example .config:
~~~
CONFIG_SMP=y
CONFIG_LOG_LEVEL=3
CONFIG_DEFAULT_SCHEDULER="cfs"
~~~`,
	}

	configParseErrorIssue = &Issue{
		id: ConfigParseErrorId,
		mdMsg: `
# Failed to parse .config!

Your option file contains a line kbuild does not understand.

## Accepted line shapes:
- Blank lines and lines starting with '#' (comments)
- ` + "`KEY=y`" + ` / ` + "`KEY=n`" + ` / ` + "`KEY=m`" + ` (boolean tristate)
- ` + "`KEY=\"text\"`" + ` (string, double-quoted)
- ` + "`KEY=42`" + ` (decimal integer)

## Common mistakes:
- Unquoted string values
- A key assigned twice (duplicates are rejected, even with equal values)
- Stray text outside KEY=VALUE form

The error message above names the offending line number and its raw text.`,
	}

	workspaceNotFoundIssue = &Issue{
		id: WorkspaceNotFoundId,
		mdMsg: `
# No Cargo workspace found!

kbuild must be run from (or pointed at) the root of a Cargo workspace:
a directory whose Cargo.toml declares [workspace] members.

## Things you can try:
- Change into your workspace root and retry
- Pass the root explicitly:
~~~
$ kbuild build --workspace /path/to/workspace
~~~`,
	}

	manifestLoadErrorIssue = &Issue{
		id: ManifestLoadErrorId,
		mdMsg: `
# Failed to load a package manifest!

One of the workspace members has an unreadable or malformed Cargo.toml.

## Things you can try:
- Check the path listed in [workspace] members
- Validate the member's TOML syntax
- Make sure [package] name is present

kbuild aborts before validation when any manifest cannot be loaded.`,
	}

	featureValidationIssue = &Issue{
		id: FeatureValidationId,
		mdMsg: `
# Feature validation failed!

A feature names a sub-capability of a config-aware package, e.g.:

~~~toml
[features]
CONFIG_NET = ["network_utils/async"]
~~~

Config-aware packages read CONFIG_* options from .config directly. A parent
package must not steer their internals through feature wiring.

## How to fix:
1. Use the bare package reference instead:
~~~toml
CONFIG_NET = ["network_utils"]
~~~
2. Enable the relevant option in .config so the target picks it up itself.

Sub-capabilities of third-party packages (e.g. tokio/rt) remain allowed.`,
	}

	artifactWriteFailedIssue = &Issue{
		id: ArtifactWriteFailedId,
		mdMsg: `
# Failed to write a generated artifact!

kbuild could not write .cargo/config.toml or target/kbuild/config.rs.

## Common causes:
- Read-only workspace directory
- Exhausted disk space
- A file where a directory was expected (.cargo or target/kbuild)

No build is attempted while the generated artifacts are incomplete.`,
	}

	cargoNotFoundIssue = &Issue{
		id: CargoNotFoundId,
		mdMsg: `
# cargo not found!

kbuild delegates the actual compilation to cargo, which was not found on PATH.

## Things you can try:
- Install the Rust toolchain: https://rustup.rs
- Point kbuild at a specific binary in your settings file:
~~~toml
cargo_binary = "/opt/rust/bin/cargo"
~~~`,
	}

	settingsLoadFailedIssue = &Issue{
		id: SettingsLoadFailedId,
		mdMsg: `
# Failed to load kbuild settings!

The kbuild settings file could not be read.

## Settings file locations:
- Linux: ~/.config/kbuild/config.toml
- macOS: ~/Library/Application Support/kbuild/config.toml
- Windows: %APPDATA%\kbuild\config.toml

## Things you can try:
- Check the TOML syntax
- Remove the file to fall back to defaults

## Example settings:
~~~toml
cargo_binary = "cargo"
config_file = ".config"

[ui]
verbose = false
color_scheme = "auto"
~~~`,
	}

	issues = map[Id]*Issue{
		configNotFoundIssue.Id():      configNotFoundIssue,
		configParseErrorIssue.Id():    configParseErrorIssue,
		workspaceNotFoundIssue.Id():   workspaceNotFoundIssue,
		manifestLoadErrorIssue.Id():   manifestLoadErrorIssue,
		featureValidationIssue.Id():   featureValidationIssue,
		artifactWriteFailedIssue.Id(): artifactWriteFailedIssue,
		cargoNotFoundIssue.Id():       cargoNotFoundIssue,
		settingsLoadFailedIssue.Id():  settingsLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
