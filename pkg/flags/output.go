package flags

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var Outputs = []string{"table", "yaml", "json"}

func AddOutput(cmd *cobra.Command) {
	cmd.Flags().
		StringP(
			"output",
			"o",
			Outputs[0],
			"Output format: "+strings.Join(Outputs, ", "),
		)
}

func HandleOutput(cmd *cobra.Command) (string, error) {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", fmt.Errorf("error retrieving output flag: %w", err)
	}

	output = strings.ToLower(strings.TrimSpace(output))
	if !slices.Contains(Outputs, output) {
		return "", fmt.Errorf(
			"invalid output %q. Available outputs are: %s",
			output,
			strings.Join(Outputs, ", "),
		)
	}
	return output, nil
}
