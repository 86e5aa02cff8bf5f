// Package cli profile commands.
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/wardrobe-mods/wardrobe/internal/models"
)

// newProfilesCmd creates the 'profiles' command group.
func newProfilesCmd() *cobra.Command {
	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "Profile operations (list, create, rename, delete, switch)",
	}

	profilesCmd.AddCommand(newProfilesListCmd())
	profilesCmd.AddCommand(newProfilesCreateCmd())
	profilesCmd.AddCommand(newProfilesRenameCmd())
	profilesCmd.AddCommand(newProfilesDeleteCmd())
	profilesCmd.AddCommand(newProfilesSwitchCmd())

	return profilesCmd
}

// newProfilesListCmd creates the 'profiles list' command.
func newProfilesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			profiles, err := a.coord.RefreshProfiles(GetContext())
			if err != nil {
				cached, loaded := a.store.Profiles.Read()
				if !loaded {
					return err
				}
				GetLogger().Warn().Err(err).Msg("daemon unreachable, showing cached state")
				profiles = cached
			}
			activeID, _ := a.store.ActiveProfile.Read()

			if jsonOutput {
				return printJSON(struct {
					Profiles []models.Profile `json:"profiles"`
					ActiveID string           `json:"activeId"`
				}{profiles, activeID})
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tMODS\tLAST USED\tACTIVE")
			for _, p := range profiles {
				lastUsed := "-"
				if !p.LastUsedAt.IsZero() {
					lastUsed = humanize.Time(p.LastUsedAt)
				}
				active := ""
				if p.ID == activeID {
					active = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", p.ID, p.Name, len(p.EnabledMods), lastUsed, active)
			}
			return w.Flush()
		},
	}
}

// newProfilesCreateCmd creates the 'profiles create' command.
func newProfilesCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new empty profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			p, err := a.coord.CreateProfile(GetContext(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("created profile %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
}

// newProfilesRenameCmd creates the 'profiles rename' command.
func newProfilesRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <profile-id> <new-name>",
		Short: "Rename a profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := a.coord.RefreshProfiles(GetContext()); err != nil {
				return err
			}
			return a.coord.RenameProfile(GetContext(), args[0], args[1])
		},
	}
}

// newProfilesDeleteCmd creates the 'profiles delete' command.
func newProfilesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <profile-id>",
		Short: "Delete a profile",
		Long:  `Delete a profile. The active profile cannot be deleted; switch first.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := a.coord.RefreshProfiles(GetContext()); err != nil {
				return err
			}
			return a.coord.DeleteProfile(GetContext(), args[0])
		},
	}
}

// newProfilesSwitchCmd creates the 'profiles switch' command.
func newProfilesSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <profile-id>",
		Short: "Make a profile active",
		Long: `Make a profile active. The daemon applies the profile's enabled set
and the mod collection is refetched under it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := a.coord.RefreshProfiles(GetContext()); err != nil {
				return err
			}
			if err := a.coord.SwitchProfile(GetContext(), args[0]); err != nil {
				return err
			}
			fmt.Printf("switched to profile %s\n", args[0])
			return nil
		},
	}
}
