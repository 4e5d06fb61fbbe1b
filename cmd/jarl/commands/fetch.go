package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/jarl/internal/app"
)

func (c *CLI) newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [libraries...]",
		Short: "Download manifest libraries into the cache",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, _ := cmd.Flags().GetInt("jobs")
			return c.app.Fetch(cmd.Context(), args, app.FetchOptions{Jobs: jobs})
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Maximum concurrent downloads (default: number of CPUs)")
	return cmd
}
