// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	ModNotRegisteredId Id = iota + 1
	ModAlreadyRegisteredId
	PathNotFoundId
	InvalidModPathId
	ScriptNotFoundId
	ScriptUnavailableId
	ScriptExecutionFailedId
	InvalidItemTypeId
	InvalidRecipeTypeId
	RegistrySaveFailedId
	ConfigLoadFailedId
	HostNotSupportedId
	ShellNotFoundId
)

type MarkdownMsg string

type Issue struct {
	id    Id          // ID used to lookup the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the issue guidance with the given glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	modNotRegisteredIssue = &Issue{
		id: ModNotRegisteredId,
		mdMsg: `
# Mod not registered!

The mod name you entered is not in the registry.

## Things you can try:
- List the registered mods:
~~~
> list
~~~
- Register an existing mod folder:
~~~
> register
~~~
- Or create a brand new mod with ` + "`create`" + `.`,
	}

	modAlreadyRegisteredIssue = &Issue{
		id: ModAlreadyRegisteredId,
		mdMsg: `
# Mod already registered!

Mod names are unique within the registry. The existing record was left unchanged.

## Things you can try:
- Pick a different mod name
- Remove the old record first with ` + "`delete`",
	}

	pathNotFoundIssue = &Issue{
		id: PathNotFoundId,
		mdMsg: `
# Path not found!

The directory you entered does not exist.

## Things you can try:
- Use an absolute path
- Check for typos and missing drive letters on Windows
- Create the parent directory before running ` + "`create`",
	}

	invalidModPathIssue = &Issue{
		id: InvalidModPathId,
		mdMsg: `
# Recorded mod path is invalid!

The registry points at a folder that is missing or is not a directory.
It was probably moved or deleted after the mod was registered.

## Things you can try:
- Run ` + "`validate`" + ` to find every stale record
- ` + "`delete`" + ` the record and ` + "`register`" + ` the mod again at its new location`,
	}

	scriptNotFoundIssue = &Issue{
		id: ScriptNotFoundId,
		mdMsg: `
# Script not found!

The helper script for this operation is missing on disk.

## Things you can try:
- Run pzmm from the folder that contains the ` + "`core`" + ` directory
- Set ` + "`base_dir`" + ` in your config file
- Override the script location under ` + "`scripts`" + ` in your config file`,
	}

	scriptUnavailableIssue = &Issue{
		id: ScriptUnavailableId,
		mdMsg: `
# Script not available on this platform!

No helper script is configured for this operation on your operating system.

## Things you can try:
- Add an entry for the operation under ` + "`scripts`" + ` in your config file`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed!

The helper script exited with a non-zero status. Any files it created before
failing were left in place.

## Things you can try:
- Check the log file for the exact command line that was run
- Run that command line by hand to see the script's own output
- Make sure the script is executable and uses the right line endings`,
	}

	invalidItemTypeIssue = &Issue{
		id: InvalidItemTypeId,
		mdMsg: `
# Invalid item type!

## Supported item types:
Weapon, Food, Clothing, Literature, Drainable, Radio, Alarm Clock, Key, Tool

Item types are case sensitive. Run ` + "`itemtypes`" + ` to list them.`,
	}

	invalidRecipeTypeIssue = &Issue{
		id: InvalidRecipeTypeId,
		mdMsg: `
# Invalid recipe type!

## Supported recipe types:
Standard, Crafting, Medical, Carpentry, Mechanics

Run ` + "`recipetypes`" + ` to list them.`,
	}

	registrySaveFailedIssue = &Issue{
		id: RegistrySaveFailedId,
		mdMsg: `
# Could not save the registry!

The change was discarded so the registry on disk and in memory still agree.

## Things you can try:
- Check that the registry directory is writable
- Check free disk space`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Check the CUE syntax of your config file
- Compare it with the defaults:
~~~
$ pzmm config show
~~~`,
	}

	hostNotSupportedIssue = &Issue{
		id: HostNotSupportedId,
		mdMsg: `
# Host not supported!

pzmm ships helper scripts for Windows and Unix-like systems only.`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

The Unix helper scripts are run through an explicitly named interpreter.

## Things you can try:
- Install bash, or set ` + "`shell`" + ` in your config file
- Use the embedded interpreter: set ` + "`executor: \"virtual\"`",
	}

	issues = map[Id]*Issue{
		modNotRegisteredIssue.Id():      modNotRegisteredIssue,
		modAlreadyRegisteredIssue.Id():  modAlreadyRegisteredIssue,
		pathNotFoundIssue.Id():          pathNotFoundIssue,
		invalidModPathIssue.Id():        invalidModPathIssue,
		scriptNotFoundIssue.Id():        scriptNotFoundIssue,
		scriptUnavailableIssue.Id():     scriptUnavailableIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		invalidItemTypeIssue.Id():       invalidItemTypeIssue,
		invalidRecipeTypeIssue.Id():     invalidRecipeTypeIssue,
		registrySaveFailedIssue.Id():    registrySaveFailedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		hostNotSupportedIssue.Id():      hostNotSupportedIssue,
		shellNotFoundIssue.Id():         shellNotFoundIssue,
	}
)

// Values returns every catalogue entry ordered by Id.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(issues))
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
