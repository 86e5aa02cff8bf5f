// Package cli layer commands.
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wardrobe-mods/wardrobe/internal/apperr"
	"github.com/wardrobe-mods/wardrobe/internal/models"
	"github.com/wardrobe-mods/wardrobe/internal/overlay"
)

// newLayersCmd creates the 'layers' command group.
func newLayersCmd() *cobra.Command {
	layersCmd := &cobra.Command{
		Use:   "layers",
		Short: "Layer operations on one mod (list, create, delete, reorder, set, unset)",
		Long: `Manage a mod's override layers. Layers apply in priority order: the
base layer first at priority 0, then the rest from 1 upward; on
conflicting keys the higher priority wins.`,
	}

	layersCmd.AddCommand(newLayersListCmd())
	layersCmd.AddCommand(newLayersCreateCmd())
	layersCmd.AddCommand(newLayersDeleteCmd())
	layersCmd.AddCommand(newLayersReorderCmd())
	layersCmd.AddCommand(newLayersSetCmd())
	layersCmd.AddCommand(newLayersUnsetCmd())

	return layersCmd
}

// findMod refreshes the collection and returns one mod by id.
func findMod(a *app, modID string) (models.Mod, error) {
	if _, err := a.coord.RefreshMods(GetContext()); err != nil {
		return models.Mod{}, err
	}
	m, ok := a.store.FindMod(modID)
	if !ok {
		return models.Mod{}, apperr.New(apperr.CodeModNotFound, "no installed mod with id %s", modID)
	}
	return m, nil
}

// newLayersListCmd creates the 'layers list' command.
func newLayersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <mod-id>",
		Short: "List a mod's layers in priority order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			m, err := findMod(a, args[0])
			if err != nil {
				return err
			}
			layers := overlay.Normalize(m.Layers)

			if jsonOutput {
				return printJSON(layers)
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PRIORITY\tNAME\tLOCALES\tKEYS\tDESCRIPTION")
			for _, l := range layers {
				keys := 0
				for _, kv := range l.Overrides {
					keys += len(kv)
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", l.Priority, l.Name, len(l.Overrides), keys, l.Description)
			}
			return w.Flush()
		},
	}
}

// newLayersCreateCmd creates the 'layers create' command.
func newLayersCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <mod-id> <layer-name>",
		Short: "Add an empty layer on top of a mod's stack",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := findMod(a, args[0]); err != nil {
				return err
			}
			return a.coord.CreateLayer(GetContext(), args[0], args[1], description)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "layer description")
	return cmd
}

// newLayersDeleteCmd creates the 'layers delete' command.
func newLayersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <mod-id> <layer-name>",
		Short: "Delete a layer (the base layer cannot be deleted)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[1] == models.BaseLayer {
				return apperr.New(apperr.CodeValidationFailed, "the base layer cannot be deleted")
			}
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := findMod(a, args[0]); err != nil {
				return err
			}
			return a.coord.DeleteLayer(GetContext(), args[0], args[1])
		},
	}
}

// newLayersReorderCmd creates the 'layers reorder' command.
func newLayersReorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <mod-id> <layer-name>...",
		Short: "Reorder a mod's non-base layers",
		Long: `Reorder a mod's layers. Names are given lowest priority first; the
base layer stays pinned at 0 and may be omitted. Priorities are
reassigned contiguously from the new order.

Example:
  wardrobe layers reorder m1 winter chroma voices`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := findMod(a, args[0]); err != nil {
				return err
			}
			return a.coord.ReorderLayers(GetContext(), args[0], args[1:])
		},
	}
}

// newLayersSetCmd creates the 'layers set' command.
func newLayersSetCmd() *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "set <mod-id> <layer-name> <key> <value>",
		Short: "Set a string override in a layer",
		Long: `Set one override key in a layer. Without --locale the value lands in
the "default" tier, which applies to every locale that has no specific
entry of its own.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := findMod(a, args[0]); err != nil {
				return err
			}
			return a.coord.SetLayerOverride(GetContext(), args[0], args[1], locale, args[2], args[3])
		},
	}

	cmd.Flags().StringVar(&locale, "locale", models.DefaultLocale, "locale tier to write")
	return cmd
}

// newLayersUnsetCmd creates the 'layers unset' command.
func newLayersUnsetCmd() *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "unset <mod-id> <layer-name> <key>",
		Short: "Remove a string override from a layer",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := findMod(a, args[0]); err != nil {
				return err
			}
			return a.coord.RemoveLayerOverride(GetContext(), args[0], args[1], locale, args[2])
		},
	}

	cmd.Flags().StringVar(&locale, "locale", models.DefaultLocale, "locale tier to remove from")
	return cmd
}
