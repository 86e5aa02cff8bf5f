package cli

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wardrobe-mods/wardrobe/internal/apperr"
	"github.com/wardrobe-mods/wardrobe/internal/overlay"
)

// newResolveCmd creates the 'resolve' command.
func newResolveCmd() *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "resolve <mod-id> [key]",
		Short: "Show effective override values for a mod",
		Long: `Resolve a mod's override layers into the effective values a locale
would see: layers apply in ascending priority, each consulting the
specific locale before the "default" tier, and the highest-priority
value wins. With a key, prints just that value; without, prints the
whole effective view.

Example:
  wardrobe resolve m1 --locale fr
  wardrobe resolve m1 champion_title --locale en`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			if locale == "" {
				locale = a.cfg.Locale
			}

			m, err := findMod(a, args[0])
			if err != nil {
				return err
			}

			if len(args) == 2 {
				value, ok := overlay.Resolve(m.Layers, locale, args[1])
				if !ok {
					return apperr.New(apperr.CodeValidationFailed,
						"no layer of %s defines %q for locale %s", m.Name, args[1], locale)
				}
				fmt.Println(value)
				return nil
			}

			effective := overlay.ResolveAll(m.Layers, locale)
			if jsonOutput {
				return printJSON(effective)
			}

			keys := make([]string, 0, len(effective))
			for k := range effective {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tVALUE")
			for _, k := range keys {
				fmt.Fprintf(w, "%s\t%s\n", k, effective[k])
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "locale to resolve for (default from config)")
	return cmd
}
