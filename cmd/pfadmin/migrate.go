package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/database"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/repository"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Apply or roll back schema migrations",
	GroupID: "schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.RunMigrations(conn.DB); err != nil {
			return err
		}
		fmt.Println("Migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			steps = n
		}
		if err := database.RollbackMigrations(conn.DB, steps); err != nil {
			return err
		}
		fmt.Printf("Rolled back %d migration(s)\n", steps)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:     "seed",
	Short:   "Insert default settings that are missing",
	GroupID: "schema",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := database.SeedDefaults(context.Background(), repository.NewSystemSettingsRepository(conn))
		if err != nil {
			return err
		}
		fmt.Printf("Inserted %d default setting(s)\n", n)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}
