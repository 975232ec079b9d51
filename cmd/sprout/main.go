package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/sprout/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌─┐┬─┐┌─┐┬ ┬┌┬┐
  └─┐├─┘├┬┘│ ││ │ │
  └─┘┴  ┴└─└─┘└─┘ ┴
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(errors.Classify(err, "E143"))
		os.Exit(1)
	}
}

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:   "sprout",
		Short: "Elm-style virtual DOM apps in Go",
		Long: `Sprout runs Elm-style apps (model, update, view) on a virtual DOM.

The same app can be rendered to HTML, exported as static pages or served
in server-driven mode, where every browser tab gets its own instance on
the server and a thin client applies the DOM mutations it streams.

The built-in demos are counter, todo and showcase.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to sprout.json or sprout.yaml (default: search upwards)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log debug output")

	rootCmd.AddCommand(
		renderCmd(&g),
		serveCmd(&g),
		exportCmd(&g),
		diffCmd(),
		versionCmd(),
	)
	return rootCmd
}

// logger returns the CLI logger, writing text records to w.
func (g *globalFlags) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// printBanner prints the sprout ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
