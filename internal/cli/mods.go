// Package cli mod commands.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/wardrobe-mods/wardrobe/internal/fetch"
	"github.com/wardrobe-mods/wardrobe/internal/models"
	"github.com/wardrobe-mods/wardrobe/internal/modpkg"
	"github.com/wardrobe-mods/wardrobe/internal/ordering"
	"github.com/wardrobe-mods/wardrobe/internal/progress"
	"github.com/wardrobe-mods/wardrobe/internal/reconcile"
	"github.com/wardrobe-mods/wardrobe/internal/search"
)

// newModsCmd creates the 'mods' command group.
func newModsCmd() *cobra.Command {
	modsCmd := &cobra.Command{
		Use:   "mods",
		Short: "Mod operations (list, enable, disable, move, install, uninstall)",
	}

	modsCmd.AddCommand(newModsListCmd())
	modsCmd.AddCommand(newModsEnableCmd(true))
	modsCmd.AddCommand(newModsEnableCmd(false))
	modsCmd.AddCommand(newModsMoveCmd())
	modsCmd.AddCommand(newModsInstallCmd())
	modsCmd.AddCommand(newModsUninstallCmd())

	return modsCmd
}

// newModsListCmd creates the 'mods list' command.
func newModsListCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed mods",
		Long: `List installed mods in display order: enabled mods first, in the
active profile's order, then disabled mods.

Example:
  wardrobe mods list
  wardrobe mods list --search "star guardian"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			mods, err := a.coord.RefreshMods(GetContext())
			if err != nil {
				// Fall back to the cached snapshot when the daemon is
				// unreachable; stale beats nothing for a list command.
				cached, loaded := a.store.Mods.Read()
				if !loaded {
					return err
				}
				GetLogger().Warn().Err(err).Msg("daemon unreachable, showing cached state")
				mods = cached
			}

			if query != "" {
				matches := search.Mods(mods, query)
				found := make([]models.Mod, len(matches))
				for i, m := range matches {
					found[i] = m.Mod
				}
				return printMods(found)
			}

			if active, ok := a.store.Active(); ok {
				mods = ordering.Canonical(mods, active.EnabledMods)
			}
			return printMods(mods)
		},
	}

	cmd.Flags().StringVar(&query, "search", "", "fuzzy-filter by name, description or author")
	return cmd
}

func printMods(mods []models.Mod) error {
	if jsonOutput {
		return printJSON(mods)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVERSION\tENABLED\tLAYERS\tINSTALLED")
	for _, m := range mods {
		enabled := "-"
		if m.Enabled {
			enabled = "yes"
		}
		installed := "-"
		if !m.InstalledAt.IsZero() {
			installed = humanize.Time(m.InstalledAt)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			m.ID, m.Name, m.Version, enabled, len(m.Layers), installed)
	}
	return w.Flush()
}

// newModsEnableCmd creates 'mods enable' or 'mods disable'.
func newModsEnableCmd(enable bool) *cobra.Command {
	use, short := "enable <mod-id>", "Enable a mod"
	if !enable {
		use, short = "disable <mod-id>", "Disable a mod"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := a.coord.RefreshMods(GetContext()); err != nil {
				return err
			}
			if err := a.coord.ToggleMod(GetContext(), args[0], enable); err != nil {
				return err
			}
			fmt.Printf("%s %s\n", args[0], map[bool]string{true: "enabled", false: "disabled"}[enable])
			return nil
		},
	}
}

// newModsMoveCmd creates the 'mods move' command.
func newModsMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move an enabled mod to a new position",
		Long: `Move the enabled mod at position <from> to position <to>. Positions
are zero-based and count enabled mods only; disabled mods cannot be
moved and keep their place after the enabled ones.

Example:
  # Make the third enabled mod apply first
  wardrobe mods move 2 0`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("from must be a number: %w", err)
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("to must be a number: %w", err)
			}

			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := a.coord.RefreshMods(GetContext()); err != nil {
				return err
			}
			return a.coord.MoveMod(GetContext(), from, to)
		},
	}
}

// newModsInstallCmd creates the 'mods install' command.
func newModsInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install <package>...",
		Short: "Install mod packages from files or URLs",
		Long: `Install one or more mod packages (.modpkg, .fantome, .zip). Each
package is attempted independently: one bad file never aborts the rest.
URLs are downloaded first, then installed like local files.

Example:
  wardrobe mods install skin.modpkg
  wardrobe mods install ~/Downloads/*.fantome
  wardrobe mods install https://example.com/mods/chroma.modpkg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			paths, err := resolvePackageArgs(a, args)
			if err != nil {
				return err
			}
			if err := modpkg.ValidateAll(paths); err != nil {
				return err
			}

			result := runBulkInstall(a, paths)

			if jsonOutput {
				return printJSON(result)
			}
			fmt.Printf("\n%d installed, %d failed\n", len(result.Installed), len(result.Failed))
			for _, f := range result.Failed {
				fmt.Printf("  failed: %s: %s\n", f.FileName, f.Message)
			}
			if len(result.Failed) > 0 {
				return fmt.Errorf("%d package(s) failed to install", len(result.Failed))
			}
			return nil
		},
	}
}

// resolvePackageArgs downloads any URL arguments and returns local
// paths for everything.
func resolvePackageArgs(a *app, args []string) ([]string, error) {
	var fetcher *fetch.Fetcher
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		if !fetch.IsURL(arg) {
			paths = append(paths, arg)
			continue
		}
		if fetcher == nil {
			fetcher = fetch.New(a.cfg.DownloadDir, GetLogger())
		}

		bar := progressbar.DefaultBytes(-1, "downloading")
		local, err := fetcher.Download(GetContext(), arg, func(written, total int64) {
			if total > 0 && bar.GetMax64() != total {
				bar.ChangeMax64(total)
			}
			bar.Set64(written)
		})
		bar.Finish()
		fmt.Println()
		if err != nil {
			return nil, err
		}
		paths = append(paths, local)
	}
	return paths, nil
}

// runBulkInstall drives the coordinator's bulk install while rendering
// daemon progress events, one bar per package.
func runBulkInstall(a *app, paths []string) reconcile.BulkInstallResult {
	ui := progress.NewInstallUI(len(paths))

	updates, cancelListen, err := a.router.Listen(progress.KindInstall)
	if err == nil {
		defer cancelListen()
		go func() {
			for up := range updates {
				ui.Apply(up)
			}
		}()

		// Event delivery is best-effort: when the subscription fails the
		// install still runs, just without live progress.
		events, subErr := a.ipc.Subscribe(GetContext(), progress.KindInstall)
		if subErr == nil {
			go func() {
				for up := range events {
					a.router.Deliver(up)
				}
			}()
		} else {
			GetLogger().Debug().Err(subErr).Msg("no event stream, installing without progress")
		}
	}

	result := a.coord.BulkInstall(GetContext(), paths, func(index int, operationID, fileName string) {
		ui.AddBar(index, operationID, fileName)
	})
	ui.Wait()
	return result
}

// newModsUninstallCmd creates the 'mods uninstall' command.
func newModsUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <mod-id>",
		Short: "Uninstall a mod",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := a.coord.RefreshMods(GetContext()); err != nil {
				return err
			}
			if err := a.coord.UninstallMod(GetContext(), args[0]); err != nil {
				return err
			}
			fmt.Printf("%s uninstalled\n", args[0])
			return nil
		},
	}
}
