package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func diffCmd() *cobra.Command {
	var (
		from      int
		to        int
		keyed     bool
		listeners bool
	)

	cmd := &cobra.Command{
		Use:   "diff [demo]",
		Short: "Print the patches between two demo states",
		Long: `Diff the views of a demo in two states and print the patch list.

For counter the state is the count, for todo the number of items, and for
showcase both. Listeners are re-registered on every diff, so their patches
are only printed with --listeners.

Examples:
  sprout diff counter --from=0 --to=-1
  sprout diff todo --from=5 --to=2 --keyed`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "counter"
			if len(args) == 1 {
				name = args[0]
			}
			d, err := lookupDemo(name)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			patches := d.diff(from, to, keyed, listeners)
			if len(patches) == 0 {
				fmt.Fprintln(w, "no changes")
				return nil
			}
			for _, p := range patches {
				fmt.Fprintln(w, p)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&from, "from", 0, "Starting state")
	cmd.Flags().IntVar(&to, "to", 1, "Target state")
	cmd.Flags().BoolVar(&keyed, "keyed", false, "Use keyed reconciliation")
	cmd.Flags().BoolVar(&listeners, "listeners", false, "Include listener patches")

	return cmd
}
