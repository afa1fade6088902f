package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the bookable application
var rootCmd = &cobra.Command{
	Use:   "bookable",
	Short: "Finds bookable meeting slots on a Google Calendar",
	Long: `bookable computes free meeting slots from Google Calendar free/busy data,
respecting workday hours and buffers around existing events, and can book
a chosen slot as an event with a Google Meet link.

It can run as:
  - A standalone CLI tool (slots, busy, book)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "bookable version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newSlotsCmd())
	rootCmd.AddCommand(newBusyCmd())
	rootCmd.AddCommand(newBookCmd())
	rootCmd.AddCommand(newServeCmd())
}
