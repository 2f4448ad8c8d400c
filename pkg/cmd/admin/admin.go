package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/scriptura/internal/admin"
	"github.com/Paintersrp/scriptura/internal/catalog"
	"github.com/Paintersrp/scriptura/internal/fzf"
	"github.com/Paintersrp/scriptura/internal/render"
	"github.com/Paintersrp/scriptura/internal/state"
	admintui "github.com/Paintersrp/scriptura/internal/tui/admin"
)

func NewCmdAdmin(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Review, edit and delete catalogued works",
		Long: heredoc.Doc(`
			Opens the admin panel after asking for the admin secret.

			The secret is compared with admin.secret from the config file. It
			keeps the panel out of casual reach; the backend still decides
			whether a change is allowed.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return admintui.Run(s)
		},
	}

	cmd.AddCommand(
		newCmdList(s),
		newCmdEdit(s),
		newCmdDelete(s),
	)

	return cmd
}

// unlock asks for the secret on the controlling terminal.
func unlock(s *state.State) error {
	return s.Gate.Prompt(os.Stderr, admin.TerminalReader(os.Stdin))
}

// picker chooses one work from a listing snapshot.
type picker func(works []catalog.AdminWork, header string) (catalog.AdminWork, error)

func fuzzyPicker(s *state.State) picker {
	return func(works []catalog.AdminWork, header string) (catalog.AdminWork, error) {
		renderer, err := render.NewRenderer(s.Config.Theme, 100, s.Config.APIURL)
		if err != nil {
			return catalog.AdminWork{}, err
		}
		return fzf.NewWorkFinder(works, renderer, header).Run("")
	}
}

// target resolves the work a mutation applies to: the id argument when
// given, otherwise whatever the picker returns. ok is false when the id
// is not in the snapshot.
func target(
	works []catalog.AdminWork,
	args []string,
	pick picker,
	header string,
) (w catalog.AdminWork, ok bool, err error) {
	if len(args) == 0 {
		w, err = pick(works, header)
		if err != nil {
			return w, false, err
		}
		return w, true, nil
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return w, false, fmt.Errorf("invalid work id %q", args[0])
	}
	w, ok = catalog.FindWork(works, id)
	return w, ok, nil
}

// aborted reports a closed finder on out. Any other error is left for
// the caller to return.
func aborted(out io.Writer, err error) bool {
	if !errors.Is(err, fzf.ErrNoSelection) {
		return false
	}
	fzf.HandleError(out, err)
	return true
}

func snapshot(ctx context.Context, s *state.State) ([]catalog.AdminWork, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.Client.ListWorks(ctx)
}

func notFound(w io.Writer, args []string) {
	fmt.Fprintf(w, "Work %s is not in the current listing; nothing changed.\n", args[0])
}
