package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NotificationsCmd groups the maintainer notification subcommands.
func NotificationsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Inspect and acknowledge maintainer notifications",
	}
	cmd.AddCommand(statusCmd(app), ackCmd(app))
	return cmd
}

func statusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <user_id>...",
		Short: "Show whether each user has unseen request activity",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, userID := range args {
				seen, svcErr := app.Notifications.IsSeen(app.ctx(), userID)
				if svcErr != nil {
					return fmt.Errorf("%s: %s", svcErr.Code, svcErr.ErrorDescription)
				}
				status := "pending"
				if seen {
					status = "seen"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", userID, status)
			}
			return nil
		},
	}
}

func ackCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ack <user_id>...",
		Short: "Mark request activity as seen for each user",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, userID := range args {
				if svcErr := app.Notifications.Acknowledge(app.ctx(), userID); svcErr != nil {
					return fmt.Errorf("%s: %s", svcErr.Code, svcErr.ErrorDescription)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Acknowledged %d user(s)\n", len(args))
			return nil
		},
	}
}
