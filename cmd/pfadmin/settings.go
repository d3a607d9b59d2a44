package main

import (
	"context"
	"fmt"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/events"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/repository"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/services"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/secret"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Short:   "Inspect and change system settings",
	GroupID: "policy",
}

// newSettingsService builds the same write path the admin API uses. When
// NATS is configured the running servers are told to drop their caches;
// otherwise they pick up the change when their cache expires.
func newSettingsService() (*services.SettingsService, func(), error) {
	box, err := secret.NewBox(appConfig.SettingsKey)
	if err != nil {
		return nil, nil, err
	}
	repo := repository.NewSystemSettingsRepository(conn)
	store := settings.New(repo, appConfig.SettingsOptions())

	var publisher events.Publisher = &events.NoopPublisher{}
	if appConfig.NATSURL != "" {
		pub, err := events.NewNATSPublisher(appConfig.NATSURL)
		if err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		publisher = pub
	}

	cleanup := func() {
		publisher.Close()
		store.Close()
	}
	return services.NewSettingsService(repo, store, publisher, box, "pfadmin-"+appConfig.InstanceID), cleanup, nil
}

var settingsListCmd = &cobra.Command{
	Use:   "list <category>",
	Short: "List the settings of a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newSettingsService()
		if err != nil {
			return err
		}
		defer cleanup()

		entries, err := svc.ListByCategory(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(entries)
		} else {
			printSettingsTable(entries)
		}
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newSettingsService()
		if err != nil {
			return err
		}
		defer cleanup()

		entry, err := svc.GetSetting(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(entry)
		} else {
			printSetting(entry)
		}
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Validate and store a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newSettingsService()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := svc.UpdateSetting(context.Background(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Updated %s\n", args[0])
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
