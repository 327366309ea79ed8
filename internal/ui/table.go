package ui

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/calderanet/caldera-cli/internal/templates"
)

// RenderTemplateTable writes the catalog as a table, in discovery order.
func RenderTemplateTable(out io.Writer, catalog []templates.Template) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatTitle

	tw.AppendHeader(table.Row{"ID", "Name", "Description", "Path"})
	for _, t := range catalog {
		tw.AppendRow(table.Row{t.ID(), t.Name(), t.Description(), t.Path()})
	}

	tw.Render()
}
