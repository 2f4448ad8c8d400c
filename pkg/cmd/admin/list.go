package admin

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/scriptura/internal/catalog"
	"github.com/Paintersrp/scriptura/internal/render"
	"github.com/Paintersrp/scriptura/internal/state"
	"github.com/Paintersrp/scriptura/pkg/flags"
)

func newCmdList(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "l"},
		Short:   "List every catalogued work with its review status",
		Example: `
    scriptura admin list
    scriptura admin list -o yaml
    `,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := flags.HandleOutput(cmd)
			if err != nil {
				return err
			}
			if err := unlock(s); err != nil {
				return err
			}
			works, err := snapshot(cmd.Context(), s)
			if err != nil {
				return err
			}
			return writeWorks(cmd.OutOrStdout(), works, output)
		},
	}

	flags.AddOutput(cmd)

	return cmd
}

func writeWorks(w io.Writer, works []catalog.AdminWork, output string) error {
	switch output {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(works); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(works)
	case "table", "":
		if len(works) == 0 {
			fmt.Fprintln(w, "No works catalogued.")
			return nil
		}
		fmt.Fprintln(w, worksTable(works))
		return nil
	}
	return fmt.Errorf("unknown output format %q", output)
}

func worksTable(works []catalog.AdminWork) string {
	rows := make([][]string, 0, len(works))
	for _, wk := range works {
		year := render.Placeholder
		if wk.AnoLancamento != nil {
			year = strconv.Itoa(*wk.AnoLancamento)
		}
		rows = append(rows, []string{
			strconv.Itoa(wk.ID),
			render.Sanitize(wk.Titulo),
			render.Sanitize(wk.Autor),
			year,
			wk.Status.Label(),
		})
	}

	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style { return cell }).
		Headers("ID", "Title", "Author", "Year", "Status").
		Rows(rows...).
		Render()
}
