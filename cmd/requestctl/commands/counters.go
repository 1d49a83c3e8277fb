package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wso2/data-request-api/internal/counters"
	"github.com/wso2/data-request-api/internal/counters/model"
	"github.com/wso2/data-request-api/internal/system/security"
)

// CountersCmd groups the counter subcommands.
func CountersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counters",
		Short: "Read and adjust per-dataset request counters",
	}
	cmd.AddCommand(incrementCmd(app), showCmd(app), orgCmd(app))
	return cmd
}

func incrementCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "increment <package_id> <flag>",
		Short: "Record one outcome for a dataset",
		Long: `Record one outcome for a dataset. Flag is one of: request, replied,
declined, shared, "shared and replied".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flag := model.Flag(args[1])
			if !flag.IsValid() {
				return fmt.Errorf("unknown flag %q", args[1])
			}

			result, svcErr := app.Counters.Increment(app.ctx(), security.System(), args[0], flag)
			if svcErr != nil {
				return fmt.Errorf("%s: %s", svcErr.Code, svcErr.ErrorDescription)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Counters updated for %s\n\n", result.PackageID)
			return printCounters(cmd.OutOrStdout(), []model.RequestCounters{*result}, nil)
		},
	}
}

func showCmd(app *AppContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show [package_id]",
		Short: "Show counters for one dataset, or for every dataset when no id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				result, svcErr := app.Counters.Get(app.ctx(), args[0])
				if svcErr != nil {
					return fmt.Errorf("%s: %s", svcErr.Code, svcErr.ErrorDescription)
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), result)
				}
				return printCounters(cmd.OutOrStdout(), []model.RequestCounters{*result}, nil)
			}

			summary, svcErr := app.Counters.GetAll(app.ctx(), security.System())
			if svcErr != nil {
				return fmt.Errorf("%s: %s", svcErr.Code, svcErr.ErrorDescription)
			}
			return printSummary(cmd.OutOrStdout(), summary, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func orgCmd(app *AppContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "org <organization>",
		Short: "Show counters for every dataset of an organization (id or name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, svcErr := app.Counters.GetForOrganization(app.ctx(), args[0])
			if svcErr != nil {
				return fmt.Errorf("%s: %s", svcErr.Code, svcErr.ErrorDescription)
			}
			return printSummary(cmd.OutOrStdout(), summary, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func printSummary(out io.Writer, summary *counters.CountersSummary, asJSON bool) error {
	if asJSON {
		return writeJSON(out, summary)
	}
	if len(summary.Counters) == 0 {
		fmt.Fprintln(out, "No counters recorded.")
		return nil
	}
	return printCounters(out, summary.Counters, &summary.Totals)
}

func printCounters(out io.Writer, rows []model.RequestCounters, totals *model.RequestCounters) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PACKAGE\tORGANIZATION\tREQUESTS\tREPLIED\tDECLINED\tSHARED")
	for _, c := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n", c.PackageID, c.OrgID, c.Requests, c.Replied, c.Declined, c.Shared)
	}
	if totals != nil {
		fmt.Fprintf(w, "TOTAL\t\t%d\t%d\t%d\t%d\n", totals.Requests, totals.Replied, totals.Declined, totals.Shared)
	}
	return w.Flush()
}

func writeJSON(out io.Writer, v interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
