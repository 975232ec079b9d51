package main

import (
	"github.com/spf13/cobra"
	"github.com/vango-dev/sprout/pkg/render"
)

func renderCmd(g *globalFlags) *cobra.Command {
	var (
		pretty  bool
		static  bool
		keyed   bool
		markers bool
	)

	cmd := &cobra.Command{
		Use:   "render [demo]",
		Short: "Render a demo to HTML",
		Long: `Render the initial view of a demo as a complete HTML page on stdout.

The page loads the thin client unless --static is given. Commands the
app starts during Init are not waited for.

Examples:
  sprout render counter
  sprout render todo --pretty --static > todo.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			name := "showcase"
			if len(args) == 1 {
				name = args[0]
			}
			d, err := lookupDemo(name)
			if err != nil {
				return err
			}
			return d.page(cmd.OutOrStdout(), static, runOptions{
				keyed: keyed || cfg.Render.Keyed,
				renderer: render.RendererConfig{
					Pretty:       pretty || cfg.Render.Pretty,
					EventMarkers: markers,
				},
				logger: g.logger(cmd.ErrOrStderr()),
			})
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the HTML")
	cmd.Flags().BoolVar(&static, "static", false, "Omit the thin client")
	cmd.Flags().BoolVar(&keyed, "keyed", false, "Use keyed reconciliation")
	cmd.Flags().BoolVar(&markers, "event-markers", false, "Add data-on-* attributes for listeners")

	return cmd
}
