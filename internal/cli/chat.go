package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pathshala/pathshala/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive tutoring session",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := buildApp()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cancellableContext())
		defer cancel()
		go application.manager.RunIdleReaper(ctx, GetConfig().IdleCheckInterval())

		return tui.Run(ctx, application.orchestrator)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
