// Package sources implements the sources command, which lists the
// registered recipe sources in a formatted table.
package sources

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/DawsonJay/jam-hot-project/internal/adapters"
)

// Command returns the sources command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List all registered recipe sources",
		Long:  `List every recipe source the scraper knows, with its fetch mode and an example search URL.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return renderSources(adapters.DefaultRegistry())
		},
	}
}

func renderSources(registry *adapters.Registry) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Fetch Mode", "Example Search"})

	for _, adapter := range registry.All() {
		t.AppendRow(table.Row{
			adapter.Name(),
			adapter.FetchMode().String(),
			adapter.SearchURL("strawberry jam"),
		})
	}

	t.Render()
	return nil
}
