package settings

import (
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/scriptura/internal/config"
	"github.com/Paintersrp/scriptura/internal/state"
)

func NewCmdSettings(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"settings", "cfg"},
		Short:   "Show or change the config file",
		Long: heredoc.Docf(`
			Reads and writes %s.

			Keys: %s
		`, config.GetConfigPath(s.Home), strings.Join(config.Keys, ", ")),
		// Editing the file needs no backend client.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}

	cmd.AddCommand(newCmdShow(s), newCmdSet(s))

	return cmd
}

func newCmdShow(s *state.State) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show [key]",
		Short: "Print config values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd.OutOrStdout(), s.Config, args, reveal)
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print the admin secret instead of masking it")

	return cmd
}

func newCmdSet(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Change a config value and save the file",
		Example: "scriptura config set api_url http://10.0.0.5:8000",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return set(cmd.OutOrStdout(), s.Config, args[0], args[1])
		},
	}
}

func set(w io.Writer, cfg *config.Config, key, value string) error {
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s updated\n", key)
	return nil
}

func show(w io.Writer, cfg *config.Config, args []string, reveal bool) error {
	keys := config.Keys
	if len(args) == 1 {
		keys = args
	}
	for _, k := range keys {
		v, err := cfg.Get(k)
		if err != nil {
			return err
		}
		if k == "admin.secret" && v != "" && !reveal {
			v = "********"
		}
		if len(args) == 1 {
			fmt.Fprintln(w, v)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", k, v)
	}
	return nil
}
