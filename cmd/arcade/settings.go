package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubble-arcade/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show player preferences",
	Long: `Show the saved player preferences.

Keys:
  player      - Name recorded with your scores (default: your user name)
  show_guide  - Draw the dotted aim guide (true/false)
  aim_step    - Radians per aim key press, 0 uses the game config

Examples:
  arcade settings
  arcade settings set player ann
  arcade settings set show_guide false
  arcade settings set aim_step 0.06`,
	Args: cobra.NoArgs,
	Run:  runSettings,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a player preference",
	Args:  cobra.ExactArgs(2),
	Run:   runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
}

func openSettings() *settings.Manager {
	mgr, err := settings.Open(settings.AppName, newStderrLogger("arcade"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return mgr
}

func runSettings(_ *cobra.Command, _ []string) {
	mgr := openSettings()
	values := mgr.Values()

	for _, key := range settings.Keys() {
		value := values[key]
		if key == settings.KeyPlayer && value == "" {
			value = fmt.Sprintf("(unset, scores use %q)", playerName(mgr.Get()))
		}
		fmt.Printf("  %-10s  %s\n", key, value)
	}
	if !mgr.Persistent() {
		fmt.Println()
		fmt.Println("Settings storage is unavailable; changes will not be saved.")
	}
}

func runSettingsSet(_ *cobra.Command, args []string) {
	mgr := openSettings()

	if err := mgr.Set(args[0], args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Known keys: %v\n", settings.Keys())
		os.Exit(1)
	}
	if err := mgr.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving settings: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s = %s\n", args[0], mgr.Values()[args[0]])
}
