package cli

import (
	"github.com/spf13/cobra"

	"github.com/quizm/users-service/internal/server"
)

func newServerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Starts the users HTTP server",
		Long: `Starts the users HTTP server. Usage:

	quizm server

Configuration is read from the environment (and .env in development).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, log, err := bootstrap(ctx)
			if err != nil {
				return err
			}

			srv, err := server.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}
}
