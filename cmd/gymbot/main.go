// Command gymbot runs the WhatsApp workout bot.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gymbot",
	Short: "Personal WhatsApp bot for logging workouts",
	Long: `gymbot links to a WhatsApp account as a device and answers chat commands
from allow-listed numbers: log a workout, list recent ones, keep todos.

Configuration comes from environment variables (ALLOWED_NUMBERS,
COMMAND_PREFIX, USER_TIMEZONE_OFFSET, ...) and an optional YAML file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $CONFIG_FILE)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(allowlistCmd)
}
