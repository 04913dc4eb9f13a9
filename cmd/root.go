package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/konselapp/konsel_backend/cmd/http"
	systemcmd "github.com/konselapp/konsel_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "konsel",
	Short: "Konsel school guidance counseling backend.",
	Long: `Konsel is the backend for a school guidance counseling platform.
It serves students, counselors, and administrators through a single API:
consultations, psychology tests, behavior records, schedules, and an AI
assistant.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
