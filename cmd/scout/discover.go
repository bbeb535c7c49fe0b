// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sirseerhq/sirseer-scout/internal/catalog"
	"github.com/sirseerhq/sirseer-scout/internal/config"
	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
	"github.com/sirseerhq/sirseer-scout/internal/explore"
	"github.com/sirseerhq/sirseer-scout/internal/logger"
	"github.com/sirseerhq/sirseer-scout/internal/node"
	"github.com/sirseerhq/sirseer-scout/internal/orchestrator"
	"github.com/sirseerhq/sirseer-scout/internal/output"
	"github.com/sirseerhq/sirseer-scout/internal/progress"
	"github.com/sirseerhq/sirseer-scout/internal/simapi"
	"github.com/sirseerhq/sirseer-scout/internal/state"
	"github.com/sirseerhq/sirseer-scout/pkg/version"
)

// globalOptions are shared by every command.
type globalOptions struct {
	configPath string
	verbose    bool
}

type discoverOptions struct {
	outputFile string
	reset      bool
	maxDepth   int

	maxDepthSet bool
}

func newRootCommand() *cobra.Command {
	global := &globalOptions{}
	opts := &discoverOptions{}

	cmd := &cobra.Command{
		Use:   "sirseer-scout [root...]",
		Short: "Discover every readable endpoint of the simulation API",
		Long: `SirSeer Scout walks the node tree of the simulation API depth-first,
starting from each configured root node, and records every endpoint it can read.

Progress is written to a state document per root after every discovery, so an
interrupted run picks up where it stopped. Roots that were already fully
discovered are skipped.

The API key is read from SCOUT_API_KEY or from ~/.sirseer/credentials.yaml.`,
		Version:       version.Version,
		Args:          cobra.ArbitraryArgs, // root names, not subcommands
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.maxDepthSet = cmd.Flags().Changed("max-depth")
			return runDiscover(cmd.Context(), global, opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&global.configPath, "config", "", "Path to config file (default: .sirseer-scout.yaml or ~/.sirseer/scout.yaml)")
	cmd.PersistentFlags().BoolVarP(&global.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "Stream discovered endpoints as NDJSON to this file ('-' for stdout)")
	cmd.Flags().BoolVar(&opts.reset, "reset", false, "Delete the state documents of the selected roots before starting")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 0, "Override discovery.max_depth")

	cmd.AddCommand(newStatusCommand(global))
	return cmd
}

// loadConfig reads and validates configuration, applying command-line
// overrides.
func loadConfig(global *globalOptions, roots []string, apply func(cfg *config.Config)) (*config.Config, error) {
	cfg, err := config.LoadConfig(global.configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scouterrors.ErrInvalidConfig, err)
	}

	if len(roots) > 0 {
		cfg.Discovery.Roots = roots
	}
	if global.verbose {
		cfg.Logging.Verbose = true
	}
	if apply != nil {
		apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initLogging(cfg *config.Config, stderr io.Writer) error {
	return logger.Init(logger.LogOptions{
		Verbose:      cfg.Logging.Verbose,
		DisableColor: cfg.Logging.DisableColor || !isTerminal(stderr),
		LogToFile:    cfg.Logging.ToFile,
		OutputPath:   cfg.Logging.Dir,
		Output:       stderr,
	})
}

func runDiscover(ctx context.Context, global *globalOptions, opts *discoverOptions, args []string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(global, args, func(cfg *config.Config) {
		if opts.maxDepthSet {
			cfg.Discovery.MaxDepth = opts.maxDepth
		}
	})
	if err != nil {
		return err
	}
	if err := initLogging(cfg, stderr); err != nil {
		return err
	}

	// The credential is checked before any state is touched
	key, err := config.LoadCredential(cfg)
	if err != nil {
		return err
	}

	store := state.NewStore(cfg.Storage.StateDir)
	if opts.reset {
		for _, root := range cfg.Discovery.Roots {
			if err := store.Reset(root); err != nil {
				return err
			}
			logrus.WithField("target", root).Info("State document reset")
		}
	}

	client := simapi.NewHTTPClient(simapi.Options{
		BaseURL: cfg.API.BaseURL,
		Header:  cfg.API.KeyHeader,
		Key:     key,
		Timeout: cfg.Timeout(),
		Delay:   cfg.Delay(),
	})

	proc := node.New(client, store, node.Options{
		BaseURL: cfg.API.BaseURL,
		Explore: explore.Options{
			MaxDepth:              cfg.Discovery.MaxDepth,
			RequireAllEndpoints:   cfg.Discovery.RequireAllEndpoints,
			SkipRecordedEndpoints: cfg.Discovery.SkipRecordedEndpoints,
		},
		ReportDir: cfg.Storage.ReportDir,
		Version:   version.Version,
	})

	if cfg.Storage.CatalogPath != "" {
		cat, err := catalog.Open(cfg.Storage.CatalogPath)
		if err != nil {
			return err
		}
		defer cat.Close()
		proc.WithRecorder(cat)
	}

	summaryOut := stdout
	if opts.outputFile != "" {
		writer, err := output.Open(opts.outputFile)
		if err != nil {
			return err
		}
		defer writer.Close()
		proc.WithSink(writer)

		// Keep stdout clean for the stream
		if opts.outputFile == output.Stdout {
			summaryOut = stderr
		}
	}

	showProgress := cfg.RateLimit.ShowProgress && isTerminal(stderr)
	proc.WithProgress(func(target string) progress.Reporter {
		return progress.New(showProgress, stderr, target)
	})

	logrus.WithFields(logrus.Fields{
		"roots":     len(cfg.Discovery.Roots),
		"base_url":  cfg.API.BaseURL,
		"max_depth": cfg.Discovery.MaxDepth,
		"state_dir": cfg.Storage.StateDir,
	}).Info("Starting discovery")

	results, runErr := orchestrator.New(proc).Run(ctx, cfg.Discovery.Roots)
	if len(results) > 0 {
		orchestrator.RenderSummary(summaryOut, results)
	}
	return runErr
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
