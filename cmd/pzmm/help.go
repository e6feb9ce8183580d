// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/afero"
)

// productName is shown when the logo file is missing.
const productName = "Project Zomboid Mod Manager"

const helpMarkdown = `
# Project Zomboid Mod Manager

## Mods
| Command | Description |
|---|---|
| ` + "`create`" + ` | Create a new mod and pick its folder structure |
| ` + "`register`" + ` | Register an existing mod folder |
| ` + "`install`" + ` | Install a registered mod into the game |
| ` + "`list`" + ` | List registered mods |
| ` + "`delete`" + ` | Remove a mod from the registry |
| ` + "`validate`" + ` | Find mods whose folders are missing |
| ` + "`flush`" + ` | Clear the registry |

## Content
| Command | Description |
|---|---|
| ` + "`item`" + ` | Add an item to a mod |
| ` + "`recipe`" + ` | Add a crafting recipe to a mod |
| ` + "`model`" + ` | Add a model to a mod |
| ` + "`sound`" + ` | Add or update a sound in a mod |
| ` + "`itemtypes`" + ` | Show supported item types |
| ` + "`recipetypes`" + ` | Show supported recipe types |
| ` + "`modtypes`" + ` | Show mod types and their folders |

Type ` + "`help`" + ` to see this list again and ` + "`exit`" + ` to quit.
`

var renderMarkdown = glamour.Render

// renderHelp renders the built-in help with the given glamour style. The raw
// markdown is returned if rendering fails.
func renderHelp(style string) string {
	out, err := renderMarkdown(helpMarkdown, style)
	if err != nil {
		return helpMarkdown
	}
	return out
}

// readLogo returns the contents of the logo file, or the product name when it
// cannot be read.
func readLogo(fs afero.Fs, path string) string {
	data, err := afero.ReadFile(fs, path)
	if err != nil || len(strings.TrimSpace(string(data))) == 0 {
		return productName
	}
	return strings.TrimRight(string(data), "\n")
}
