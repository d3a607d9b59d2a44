// Command pfadmin is the operator CLI for the PriceFeed policy engine. It
// talks to the database directly: schema migrations, default seeding,
// settings edits and account unlocks.
package main

import (
	"fmt"
	"os"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/config"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/database"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/db"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	envFile    string
	jsonOutput bool

	appConfig *config.Config
	conn      *db.DB
)

var rootCmd = &cobra.Command{
	Use:           "pfadmin",
	Short:         "Administer the PriceFeed policy engine",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
		debug.Reinitialize()

		appConfig = config.NewConfig()
		var err error
		conn, err = database.Connect(appConfig.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if conn != nil {
			conn.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with database settings")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "schema", Title: "Schema:"},
		&cobra.Group{ID: "policy", Title: "Policy:"},
	)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(userCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
