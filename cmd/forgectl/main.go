// Command forgectl inspects and restores identity profile versions through
// the REST API or the tool-call endpoint of a running server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/forge-journal/forge-identity/internal/app"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	server    string
	token     string
	output    string
	tools     bool
	toolsPath string
	debug     bool
}

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "forgectl",
		Short:         "Browse, compare and restore identity profile versions",
		Version:       app.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			switch opts.output {
			case outputText, outputJSON, outputYAML:
				return nil
			}
			return fmt.Errorf("unknown output format %q (want text, json or yaml)", opts.output)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.server, "server", envOr("FORGE_SERVER", "http://localhost:8080"), "Server base URL")
	flags.StringVar(&opts.token, "token", os.Getenv("FORGE_TOKEN"), "Bearer access token")
	flags.StringVarP(&opts.output, "output", "o", outputText, "Output format: text, json or yaml")
	flags.BoolVar(&opts.tools, "tools", false, "Use the tool-call endpoint instead of REST")
	flags.StringVar(&opts.toolsPath, "tools-path", "/mcp", "Path of the tool-call endpoint")
	flags.BoolVar(&opts.debug, "debug", false, "Print raw payloads that could not be decoded")

	root.AddCommand(
		newProfileCmd(opts),
		newHistoryCmd(opts),
		newVersionCmd(opts),
		newCompareCmd(opts),
		newRestoreCmd(opts),
	)

	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
