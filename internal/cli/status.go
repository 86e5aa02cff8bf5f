package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardrobe-mods/wardrobe/internal/version"
)

// newStatusCmd creates the 'status' command.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and game status",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.close()

			st, err := a.client.Status(GetContext())
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(st)
			}

			fmt.Printf("client version: %s\n", version.Version)
			fmt.Printf("daemon version: %s\n", st.DaemonVersion)
			fmt.Printf("socket:         %s\n", a.ipc.SocketPath())
			if st.GameFound {
				fmt.Printf("game:           found at %s\n", st.GamePath)
			} else {
				fmt.Println("game:           not found")
			}
			if st.PatcherRunning {
				fmt.Println("patcher:        running (mutations will be refused)")
			} else {
				fmt.Println("patcher:        idle")
			}
			return nil
		},
	}
}
