package ui

import (
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/FocusTorn/pae/internal/core/domain/alias"
	"github.com/FocusTorn/pae/internal/core/domain/aliasconfig"
)

// RenderCategories writes one table row per alias, grouped by category and
// sorted by token within each group.
func RenderCategories(w io.Writer, categories []aliasconfig.Category) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Category", "Alias", "Runs"})
	table.SetBorder(true)
	table.SetAutoMergeCells(true)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, cat := range categories {
		tokens := make([]string, 0, len(cat.Entries))
		for token := range cat.Entries {
			tokens = append(tokens, token)
		}
		sort.Strings(tokens)
		for _, token := range tokens {
			table.Append([]string{cat.Name, token, cat.Entries[token]})
		}
	}
	table.Render()
}

// RenderAliases writes the shell aliases as a two column table.
func RenderAliases(w io.Writer, aliases []alias.Alias) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Alias Name", "Command"})
	table.SetBorder(true)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, a := range aliases {
		table.Append([]string{AliasNameColor(a.Name), AliasCmdColor(a.Command)})
	}
	table.Render()
}
