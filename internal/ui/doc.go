// Package ui implements an interactive terminal result picker using bubbletea's Elm architecture.
//
// The picker shows ranked search results in a [list.Model] so the user can
// choose which candidate to download instead of relying on the automatic
// first-valid-result pipeline. The [Model] implements bubbletea/Elm's standard
// Init/Update/View pattern; selection is read back through [Model.Selection]
// after the program exits.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, q) with contextual
// help displayed via charmbracelet/bubbles/help.
package ui
