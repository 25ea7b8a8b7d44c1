package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-debugbar/internal/inspect"
	"github.com/goliatone/go-debugbar/pkg/config"
	"github.com/goliatone/go-debugbar/pkg/snapshot"
)

func newInspectCmd(configPath *string) *cobra.Command {
	var (
		dir         string
		id          string
		collectors  []string
		method      string
		uri         string
		limit       int
		list        bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print a stored snapshot as JSON",
		Long: `inspect reads snapshots from a file storage directory. Without --id it
prompts for a snapshot, and without --collector it prompts for the collectors
to print. Pass --interactive=false to use the newest snapshot and every
collector instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Storage.Dir
			}

			var prompt inspect.PromptDriver
			if interactive {
				prompt = inspect.NewSurveyDriver()
			}
			inspector := inspect.New(snapshot.NewFileStore(dir), prompt, cmd.OutOrStdout())
			filter := snapshot.Filter{Method: method, URI: uri, Limit: limit}

			if list {
				return inspector.List(cmd.Context(), filter)
			}
			return inspector.Run(cmd.Context(), inspect.Request{
				ID:         id,
				Collectors: collectors,
				Filter:     filter,
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "snapshot directory (defaults to storage.dir)")
	cmd.Flags().StringVar(&id, "id", "", "snapshot id")
	cmd.Flags().StringSliceVar(&collectors, "collector", nil, "collector to print; repeatable")
	cmd.Flags().StringVar(&method, "method", "", "only consider snapshots with this HTTP method")
	cmd.Flags().StringVar(&uri, "uri", "", "only consider snapshots for this path")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum snapshots to consider")
	cmd.Flags().BoolVar(&list, "list", false, "list stored snapshots and exit")
	cmd.Flags().BoolVar(&interactive, "interactive", true, "prompt for missing choices")
	return cmd
}
