package main

import (
	"os"

	"github.com/spf13/cobra"

	"tollgate/internal/interfaces/cli/migrate"
	"tollgate/internal/interfaces/cli/serve"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tollgate",
		Short: "Tollgate - paid admission bot for Telegram channels",
		Long:  `Tollgate gates a Telegram channel behind a one-time Stars payment: join requests trigger an invoice, and users are admitted once the payment clears.`,
	}

	rootCmd.AddCommand(
		serve.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
