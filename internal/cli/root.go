// Package cli provides the command-line interface for wardrobe.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wardrobe-mods/wardrobe/internal/logging"
	"github.com/wardrobe-mods/wardrobe/internal/version"
)

var (
	// Global flags
	cfgFile    string
	socketPath string
	verbose    bool
	jsonOutput bool

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// GetLogger returns the CLI logger, creating it on first use.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return logger
}

// GetContext returns the root context, cancelled on SIGINT/SIGTERM.
func GetContext() context.Context {
	if rootContext == nil {
		rootContext = context.Background()
	}
	return rootContext
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wardrobe",
		Short: "wardrobe - mod manager for League cosmetic mods",
		Long: `wardrobe manages installed cosmetic mods, profiles and override
layers. The heavy lifting (package extraction, WAD patching) happens in
the wardrobe daemon; this CLI talks to it over its local socket.`,
		Version:       fmt.Sprintf("%s (built %s)", version.Version, version.BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewDefault()
			if verbose {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				logging.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/wardrobe/config)")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "daemon socket path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit JSON instead of tables")

	rootCmd.AddCommand(newModsCmd())
	rootCmd.AddCommand(newProfilesCmd())
	rootCmd.AddCommand(newLayersCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// Execute runs the CLI with signal handling wired up.
func Execute() int {
	rootContext, cancelFunc = signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancelFunc()

	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
