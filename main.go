// Command eca analyzes earnings call transcripts: it parses and indexes a
// transcript PDF, answers questions about it with retrieval-augmented
// generation, and extracts the main topics per section.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vishwa0198/earnings-call-analyzer/cmd"
	"github.com/vishwa0198/earnings-call-analyzer/config"
	"github.com/vishwa0198/earnings-call-analyzer/pkg/logging"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	deps := &cmd.Deps{}

	var (
		configPath string
		output     string
		debug      bool
	)

	root := &cobra.Command{
		Use:   "eca",
		Short: "Earnings call transcript analyzer",
		Long: `eca processes earnings call transcript PDFs into a searchable on-disk
vector index, answers questions about the call grounded in the transcript,
and extracts the main topics of the opening remarks and Q&A sections.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			var (
				cfg *config.Config
				err error
			)
			if configPath != "" {
				cfg, err = config.LoadConfigFromPath(configPath)
			} else {
				cfg, err = config.LoadConfig()
			}
			if err != nil {
				return err
			}

			if output != "" {
				cfg.OutputFormat = config.OutputFormat(output)
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			level := logging.Level(cfg.LogLevel)
			if debug {
				level = logging.LevelDebug
			}

			deps.Config = cfg
			deps.OutputFormat = cfg.OutputFormat
			deps.Logger = logging.NewLogger(&logging.Config{
				Level:     level,
				Component: "eca",
			})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.eca/config.yaml)")
	root.PersistentFlags().StringVarP(&output, "output", "o", "", "output format: text, json, or yaml")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		cmd.NewProcessCommand(deps),
		cmd.NewAskCommand(deps),
		cmd.NewTopicsCommand(deps),
		cmd.NewInfoCommand(deps),
		cmd.NewClearCommand(deps),
		cmd.NewAuthCommand(deps),
	)

	return root
}
