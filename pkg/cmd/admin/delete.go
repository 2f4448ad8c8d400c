package admin

import (
	"context"
	"fmt"
	"io"

	"github.com/erikgeiser/promptkit/confirmation"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/scriptura/internal/catalog"
	"github.com/Paintersrp/scriptura/internal/client"
	"github.com/Paintersrp/scriptura/internal/render"
	"github.com/Paintersrp/scriptura/internal/state"
)

type confirmer func(prompt string) (bool, error)

func newCmdDelete(s *state.State) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete [id]",
		Aliases: []string{"rm", "d"},
		Short:   "Delete a work from the catalogue",
		Example: `
    scriptura admin delete 12
    scriptura admin delete --yes 12
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
			confirm := promptConfirm
			if yes {
				confirm = func(string) (bool, error) { return true, nil }
			}
			return runDelete(cmd.Context(), cmd.OutOrStdout(), s.Client, works, args, fuzzyPicker(s), confirm)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runDelete(
	ctx context.Context,
	out io.Writer,
	cat client.Catalog,
	works []catalog.AdminWork,
	args []string,
	pick picker,
	confirm confirmer,
) error {
	w, ok, err := target(works, args, pick, "Delete which work?")
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

	sure, err := confirm(fmt.Sprintf("Delete #%d %s?", w.ID, render.Title(w.WorkRef)))
	if err != nil {
		return err
	}
	if !sure {
		fmt.Fprintln(out, "Nothing deleted.")
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if err := cat.DeleteWork(ctx, w.ID); err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted #%d %s\n", w.ID, render.Title(w.WorkRef))
	return nil
}

func promptConfirm(prompt string) (bool, error) {
	return confirmation.New(prompt, confirmation.No).RunPrompt()
}
