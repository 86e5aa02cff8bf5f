package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardrobe-mods/wardrobe/internal/config"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the configuration file",
	}

	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigInitCmd())

	return configCmd
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if socketPath != "" {
				cfg.SocketPath = socketPath
			}

			if jsonOutput {
				return printJSON(cfg)
			}
			fmt.Printf("socket_path:     %s\n", cfg.SocketPath)
			fmt.Printf("timeout_seconds: %d\n", cfg.TimeoutSeconds)
			fmt.Printf("locale:          %s\n", cfg.Locale)
			fmt.Printf("cache_dir:       %s\n", cfg.CacheDir)
			fmt.Printf("download_dir:    %s\n", cfg.DownloadDir)
			return nil
		},
	}
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg, cfgFile); err != nil {
				return err
			}
			path := cfgFile
			if path == "" {
				path, _ = config.DefaultPath()
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
}
