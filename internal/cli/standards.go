package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStandardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standards",
		Short: "List the parameter standards in effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, closeRefs, err := resolveRefs(cmd)
			if err != nil {
				return err
			}
			defer closeRefs() //nolint:errcheck // read-only

			standards, err := refs.ParameterStandards(commandContext(cmd))
			if err != nil {
				return fmt.Errorf("fetch parameter standards: %w", err)
			}
			if len(standards) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No parameter standards found.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PARAMETER\tUNIT\tWARNING\tDANGER")
			for _, s := range standards {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Parameter, dash(s.Unit),
					band(s.WarningMin, s.WarningMax), band(s.DangerMin, s.DangerMax))
			}
			return tw.Flush()
		},
	}
}

func band(lo, hi *float64) string {
	if lo == nil || hi == nil {
		return "-"
	}
	return fmt.Sprintf("%g-%g", *lo, *hi)
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
