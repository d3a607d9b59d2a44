package main

import (
	"context"
	"fmt"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/repository"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/services"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:     "user",
	Short:   "Inspect and unlock user accounts",
	GroupID: "policy",
}

func userServices() (*services.LockoutService, *services.ReputationService, func()) {
	users := repository.NewUserRepository(conn)
	store := settings.New(repository.NewSystemSettingsRepository(conn), appConfig.SettingsOptions())
	lockout := services.NewLockoutService(users, store, settings.SystemClock{}, appConfig.CounterTimeout)
	reputation := services.NewReputationService(users, store, appConfig.CounterTimeout)
	return lockout, reputation, store.Close
}

func parseUserID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id %q", arg)
	}
	return id, nil
}

var userStatusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Show lock state and reputation of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		lockout, reputation, cleanup := userServices()
		defer cleanup()

		ctx := context.Background()
		status, err := lockout.CheckLockStatus(ctx, id)
		if err != nil {
			return err
		}
		progress, err := reputation.UserLevel(ctx, id)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(map[string]any{"lock": status, "reputation": progress})
		} else {
			printUserStatus(id, status, progress)
		}
		return nil
	},
}

var userUnlockCmd = &cobra.Command{
	Use:   "unlock <id>",
	Short: "Clear the failed attempts and lock of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		lockout, _, cleanup := userServices()
		defer cleanup()

		if err := lockout.Unlock(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("Unlocked %s\n", id)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userStatusCmd)
	userCmd.AddCommand(userUnlockCmd)
}
