/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package root

import (
	"context"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/scriptura/internal/constants"
	"github.com/Paintersrp/scriptura/internal/logging"
	"github.com/Paintersrp/scriptura/internal/state"
	searchtui "github.com/Paintersrp/scriptura/internal/tui/search"
	"github.com/Paintersrp/scriptura/pkg/cmd/admin"
	"github.com/Paintersrp/scriptura/pkg/cmd/search"
	"github.com/Paintersrp/scriptura/pkg/cmd/settings"
	"github.com/Paintersrp/scriptura/pkg/cmd/upload"
	"github.com/Paintersrp/scriptura/pkg/cmd/version"
)

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "Search the Scriptura corpus by excerpt or by theme.",
		Long: heredoc.Doc(`
			A terminal client for the Scriptura backend.

			Without a subcommand it opens the search screen. Type a query of at
			least 5 characters, press ctrl+t to switch between literal (excerpt)
			and thematic (context) search, and enter to run it.
		`),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := s.Connect(viper.GetViper()); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logging.WithLogger(ctx, s.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return searchtui.Run(s)
		},
	}

	cmd.PersistentFlags().String("api-url", "", "Backend base URL (overrides api_url)")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	viper.BindPFlag("api_url", cmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))

	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	cmd.AddCommand(
		search.NewCmdSearch(s),
		admin.NewCmdAdmin(s),
		upload.NewCmdUpload(s),
		settings.NewCmdSettings(s),
		version.NewCmdVersion(),
	)

	return cmd, nil
}
