package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/services"
	"github.com/google/uuid"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func displayValue(e models.SettingEntry) string {
	if e.Value == nil {
		return "<null>"
	}
	v := *e.Value
	if len(v) > 40 {
		v = v[:37] + "..."
	}
	return v
}

func printSettingsTable(entries []models.SettingEntry) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tTYPE\tVALUE\tUPDATED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Key,
			e.ValueType,
			displayValue(e),
			e.UpdatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()
	fmt.Printf("\n%d settings\n", len(entries))
}

func printSetting(e *models.SettingEntry) {
	fmt.Printf("Key:         %s\n", e.Key)
	fmt.Printf("Category:    %s\n", e.Category)
	fmt.Printf("Type:        %s\n", e.ValueType)
	fmt.Printf("Value:       %s\n", displayValue(*e))
	if e.Description != "" {
		fmt.Printf("Description: %s\n", e.Description)
	}
	fmt.Printf("Updated At:  %s\n", e.UpdatedAt.Format("2006-01-02 15:04:05"))
}

func printUserStatus(id uuid.UUID, status services.LockStatus, p services.LevelProgress) {
	fmt.Printf("User:        %s\n", id)
	if status.Locked && status.RemainingMinutes != nil {
		fmt.Printf("Locked:      yes (%d minute(s) left)\n", *status.RemainingMinutes)
	} else {
		fmt.Printf("Locked:      no\n")
	}
	fmt.Printf("Reputation:  %d points (%s)\n", p.Points, p.Level)
	if p.NextLevel != nil {
		fmt.Printf("Next Level:  %s in %d points\n", *p.NextLevel, p.PointsToNext)
	}
}
