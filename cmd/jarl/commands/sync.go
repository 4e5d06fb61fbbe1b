package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/jarl/internal/app"
)

func (c *CLI) newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [libraries...]",
		Short: "Provision manifest libraries and hand them to the load target",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, _ := cmd.Flags().GetInt("jobs")
			return c.app.Sync(cmd.Context(), args, app.SyncOptions{Jobs: jobs})
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Maximum libraries in flight (default: number of CPUs)")
	return cmd
}
