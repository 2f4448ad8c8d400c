package admin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/erikgeiser/promptkit/selection"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/scriptura/internal/catalog"
	"github.com/Paintersrp/scriptura/internal/client"
	"github.com/Paintersrp/scriptura/internal/render"
	"github.com/Paintersrp/scriptura/internal/state"
)

type editOptions struct {
	titulo string
	autor  string
	status string
}

// statusChooser asks for a status when none was given on the command line.
type statusChooser func(current catalog.Status) (catalog.Status, error)

func newCmdEdit(s *state.State) *cobra.Command {
	opts := &editOptions{}

	cmd := &cobra.Command{
		Use:     "edit [id]",
		Aliases: []string{"e"},
		Short:   "Change the title, author or status of a work",
		Long: `Edits one work. Without an id a fuzzy finder over the current listing
picks it; without --status a prompt asks for one.`,
		Example: `
    scriptura admin edit 12 --status approved
    scriptura admin edit --titulo "Dom Casmurro"
    `,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlock(s); err != nil {
				return err
			}
			works, err := snapshot(cmd.Context(), s)
			if err != nil {
				return err
			}
			return runEdit(
				cmd.Context(),
				cmd.OutOrStdout(),
				s.Client,
				works,
				args,
				fuzzyPicker(s),
				promptStatus,
				*opts,
			)
		},
	}

	cmd.Flags().StringVarP(&opts.titulo, "titulo", "t", "", "New title")
	cmd.Flags().StringVarP(&opts.autor, "autor", "a", "", "New author")
	cmd.Flags().StringVarP(&opts.status, "status", "s", "", "New status: approved or review")

	return cmd
}

func runEdit(
	ctx context.Context,
	out io.Writer,
	cat client.Catalog,
	works []catalog.AdminWork,
	args []string,
	pick picker,
	choose statusChooser,
	opts editOptions,
) error {
	w, ok, err := target(works, args, pick, "Edit which work?")
	if aborted(out, err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !ok {
		notFound(out, args)
		return nil
	}

	update := catalog.AdminUpdate{
		Titulo: w.Titulo,
		Autor:  w.Autor,
		Status: w.Status,
	}
	if t := strings.TrimSpace(opts.titulo); t != "" {
		update.Titulo = t
	}
	if a := strings.TrimSpace(opts.autor); a != "" {
		update.Autor = a
	}
	if opts.status != "" {
		update.Status, err = catalog.ParseStatus(opts.status)
	} else {
		update.Status, err = choose(w.Status)
	}
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if err := cat.UpdateWork(ctx, w.ID, update); err != nil {
		return err
	}

	fmt.Fprintf(out, "Updated #%d %s [%s]\n", w.ID, render.Title(catalog.WorkRef{Titulo: update.Titulo, Autor: update.Autor}), update.Status.Label())
	return nil
}

func promptStatus(current catalog.Status) (catalog.Status, error) {
	labels := make([]string, 0, len(catalog.Statuses))
	for _, st := range catalog.Statuses {
		labels = append(labels, st.Label())
	}

	sel := selection.New(fmt.Sprintf("Status (currently %s):", current.Label()), labels)
	sel.Filter = nil

	choice, err := sel.RunPrompt()
	if err != nil {
		return current, err
	}
	return catalog.ParseStatus(choice)
}
