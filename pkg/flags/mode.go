package flags

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/scriptura/internal/catalog"
)

func AddMode(cmd *cobra.Command) {
	cmd.Flags().
		StringP(
			"mode",
			"m",
			catalog.Literal.String(),
			"Search mode: literal or thematic",
		)
}

// HandleMode returns the raw --mode value. A bare mode word in the
// arguments may still override it.
func HandleMode(cmd *cobra.Command) (string, error) {
	mode, err := cmd.Flags().GetString("mode")
	if err != nil {
		return "", fmt.Errorf("error retrieving mode flag: %w", err)
	}
	return mode, nil
}
