// arcade is a terminal arcade hosting a bubble shooter.
//
// Usage:
//
//	arcade list                    - List available games
//	arcade play <game>             - Play a game
//	arcade menu                    - Start menu to pick games interactively
//	arcade serve                   - Start SSH (and optional HTTP) server
//	arcade scores <game>           - Show high scores for a game
//	arcade settings                - Show player preferences
//	arcade settings set <key> <v>  - Change a preference
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.arcade/scores.db)
//	--config <path>      - Custom game config YAML
//	--log-file <path>    - Log file for interactive commands
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubble-arcade/internal/games/bubbles"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogFile  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Bubble Arcade - pop bubbles in your terminal",
	Long: `Bubble Arcade is a terminal arcade built around a bubble shooter.
Aim the launcher, fire colored bubbles into the field and clear groups
of three or more before the pile reaches the loss line.

Available commands:
  list      - Show all available games
  play      - Play a specific game directly
  menu      - Interactive game picker menu
  serve     - Start SSH server for remote play (and HTTP leaderboard)
  scores    - View high scores
  settings  - Show or change player preferences

Examples:
  arcade list
  arcade play bubbles
  arcade play bubbles --seed 42
  arcade menu
  arcade serve --ssh :2222 --http :8080
  arcade scores bubbles
  arcade settings set player ann`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		bubbles.SetConfigPath(flagConfig)
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.arcade/arcade.log", "Log file for interactive commands")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(settingsCmd)
}
