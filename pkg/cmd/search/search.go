package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/scriptura/internal/catalog"
	"github.com/Paintersrp/scriptura/internal/client"
	"github.com/Paintersrp/scriptura/internal/logging"
	"github.com/Paintersrp/scriptura/internal/render"
	"github.com/Paintersrp/scriptura/internal/state"
	"github.com/Paintersrp/scriptura/internal/view"
	"github.com/Paintersrp/scriptura/pkg/flags"
)

type options struct {
	open int
}

func NewCmdSearch(s *state.State) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:     "search [literal|thematic] <query...>",
		Aliases: []string{"s", "find"},
		Short:   "Run one search and print the grouped results",
		Long: heredoc.Doc(`
			Runs a single literal or thematic search and prints the results.

			Literal searches match the exact excerpt and list up to 5 excerpts
			per work. Thematic searches match by context and list the works only.
			Queries need at least 5 characters.
		`),
		Example: heredoc.Doc(`
			scriptura search literal "olhos de ressaca"
			scriptura search thematic amor e ciúme --open 1
			scriptura search --mode thematic "saudade do mar"
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flagMode, err := flags.HandleMode(cmd)
			if err != nil {
				return err
			}
			mode, query, err := parseArgs(flagMode, args)
			if err != nil {
				return err
			}
			err = run(cmd.Context(), cmd.OutOrStdout(), s.Client, s.Config.APIURL, mode, query, opts.open)
			var searchErr *client.SearchError
			if errors.As(err, &searchErr) {
				// Already printed by the sink.
				cmd.SilenceErrors = true
			}
			return err
		},
	}

	flags.AddMode(cmd)
	cmd.Flags().IntVarP(&opts.open, "open", "o", 0, "Open the metadata of the Nth result")

	return cmd
}

// parseArgs lets the mode lead the query as a bare word when more words
// follow it.
func parseArgs(flagMode string, args []string) (catalog.Mode, string, error) {
	if len(args) > 1 {
		if mode, err := catalog.ParseMode(args[0]); err == nil {
			return mode, strings.Join(args[1:], " "), nil
		}
	}
	mode, err := catalog.ParseMode(flagMode)
	if err != nil {
		return mode, "", err
	}
	return mode, strings.Join(args, " "), nil
}

func run(
	ctx context.Context,
	out io.Writer,
	searcher client.Searcher,
	apiURL string,
	mode catalog.Mode,
	query string,
	open int,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	m := view.NewMachine(
		view.WithLogger(logging.FromContext(ctx).Named("view")),
		view.WithSink(render.TextSink(out, apiURL)),
	)
	ticket, err := m.Submit(mode, query)
	if err != nil {
		return err
	}

	matches, err := searcher.Search(ctx, ticket.Mode, ticket.Query)
	m.Complete(ticket.Token, matches, err)
	if err != nil {
		return err
	}

	if open <= 0 {
		return nil
	}
	groups := view.Groups(m.State())
	if open > len(groups) {
		return fmt.Errorf("cannot open result %d: only %d result(s)", open, len(groups))
	}
	fmt.Fprintln(out)
	m.Select(groups[open-1].Work.Key())
	return nil
}
