// Package cli defines the quizm command tree.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quizm/users-service/internal/infrastructure/config"
	"github.com/quizm/users-service/pkg/logger"
)

const serviceName = "quizm-users"

// NewRootCommand builds the quizm command with its subcommands attached.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "quizm",
		Short:         "Quizm users service",
		Long:          "Registers and authenticates quiz players and stores their quiz records.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServerCommand(), newMigrateCommand())
	return root
}

// Execute runs the command tree until SIGINT or SIGTERM.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		log := zerolog.New(os.Stderr).With().Timestamp().Logger()
		log.Error().Err(err).Msg("quizm failed")
		return 1
	}
	return 0
}

// bootstrap loads configuration and initialises the process logger.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})
	return cfg, logger.Get(), nil
}
