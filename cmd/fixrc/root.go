// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/fixrc/cmd/fixrc/commands"
	"github.com/walteh/fixrc/cmd/fixrc/opts"
	"github.com/walteh/fixrc/pkg/log"
)

// newRootCmd builds the command tree with fresh flag storage
func newRootCmd() *cobra.Command {
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "fixrc",
		Short: "Mechanical source repair with ordered pattern rules",
		Long: `fixrc rewrites source trees with an ordered list of pattern rules.
It comments out broken multi-line dispatch blocks, trims argument lists and
renames field accesses, leaving anything it cannot safely rewrite untouched.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			o.ConfigExplicit = cmd.Flags().Changed("config")

			zlog := setupLogging(cmd.ErrOrStderr(), o.Debug)
			ctx := zlog.WithContext(cmd.Context())
			ctx = log.NewContext(ctx, log.New(cmd.OutOrStdout(), zlog))
			cmd.SetContext(ctx)
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewRunCmd(o),
		commands.NewCheckCmd(o),
		commands.NewRulesCmd(o),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", opts.DefaultConfigFile, "config file path (yaml, json, hcl)")
	cmd.PersistentFlags().StringSliceVarP(&o.RuleSets, "ruleset", "r", nil, "built-in rule sets to apply, in order")
	cmd.PersistentFlags().StringSliceVar(&o.Include, "include", nil, "glob patterns of files to rewrite (default **/*.rs)")
	cmd.PersistentFlags().StringSliceVar(&o.Ignore, "ignore", nil, "glob patterns of files to skip")
	cmd.PersistentFlags().IntVar(&o.Workers, "workers", 0, "number of files rewritten concurrently")
	cmd.PersistentFlags().BoolVar(&o.Backup, "backup", false, "keep a .bak copy of every rewritten file")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging builds the structured logger. Console output goes through
// pkg/log, so only warnings reach stderr unless debug is on.
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
}
