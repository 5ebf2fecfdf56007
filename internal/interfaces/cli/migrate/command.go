// Package migrate contains the database migration commands.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"tollgate/internal/infrastructure/config"
	"tollgate/internal/infrastructure/database"
	"tollgate/internal/infrastructure/migration"
	"tollgate/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, rolling back and checking status.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "production", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Rollback the most recent migration",
		RunE:  runDown,
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  runStatus,
	}
}

func initEnv() error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	return nil
}

func runUp(cmd *cobra.Command, args []string) error {
	if err := initEnv(); err != nil {
		return err
	}
	defer database.Close()

	if err := migration.NewMigrator().Up(database.Get()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	if err := initEnv(); err != nil {
		return err
	}
	defer database.Close()

	if err := migration.NewMigrator().Down(database.Get()); err != nil {
		return fmt.Errorf("down migration failed: %w", err)
	}

	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := initEnv(); err != nil {
		return err
	}
	defer database.Close()

	migrator := migration.NewMigrator()

	version, err := migrator.Version(database.Get())
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Printf("Current version: %d\n", version)

	if err := migrator.Status(database.Get()); err != nil {
		return fmt.Errorf("failed to get detailed status: %w", err)
	}

	return nil
}
