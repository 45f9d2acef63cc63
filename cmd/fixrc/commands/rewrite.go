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

package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/fixrc/cmd/fixrc/opts"
	"github.com/walteh/fixrc/pkg/log"
	"github.com/walteh/fixrc/pkg/operation"
	"github.com/walteh/fixrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// rewriteTree runs the rule set over the tree named by args. Files with
// warnings do not fail the command; files that could not be read or written do.
func rewriteTree(cmd *cobra.Command, o *opts.RootOpts, args []string, dryRun bool) error {
	ctx := cmd.Context()

	cfg, err := o.LoadConfig(ctx, args)
	if err != nil {
		return err
	}

	set, err := cfg.BuildRuleSet()
	if err != nil {
		return errors.Errorf("building rules: %w", err)
	}

	logger := log.FromContext(ctx)
	logger.Header(cmd.Name())
	logger.StartRun(ctx, log.RunOperation{
		Root:     cfg.Root,
		RuleSets: cfg.RuleSets,
		Rules:    set.Len(),
		DryRun:   dryRun,
	})

	statusMgr := status.New(cfg.Root, zerolog.Ctx(ctx))
	op, err := operation.NewRewriteOperation(operation.Options{
		Config:    cfg,
		RuleSet:   set,
		StatusMgr: statusMgr,
		Logger:    logger,
		DryRun:    dryRun,
		Out:       cmd.OutOrStdout(),
	})
	if err != nil {
		return errors.Errorf("creating operation: %w", err)
	}

	if err := operation.NewRunner(zerolog.Ctx(ctx), cfg.Async).Run(ctx, op); err != nil {
		return errors.Errorf("running rewrite: %w", err)
	}
	logger.EndRun(ctx)

	sum := statusMgr.Summary(ctx)
	printSummary(logger, sum, dryRun)

	if sum.Failed > 0 {
		return errors.Errorf("%d of %d files could not be processed", sum.Failed, sum.Total)
	}
	return nil
}

func printSummary(logger *log.Logger, sum status.Summary, dryRun bool) {
	logger.LogNewline()

	if dryRun {
		logger.Infof("%s would be fixed (%d files scanned)", plural(sum.Modified, "file"), sum.Total)
	} else {
		logger.Successf("Fixed %s (%d files scanned, %s)", plural(sum.Modified, "file"), sum.Total, plural(sum.Replacements, "replacement"))
	}

	if len(sum.Warned) > 0 {
		logger.Warningf("%s left constructs untouched:", plural(len(sum.Warned), "file"))
		for _, path := range sum.Warned {
			logger.Raw("    " + path + "\n")
		}
	}

	if sum.Failed > 0 {
		logger.Errorf("%s failed", plural(sum.Failed, "file"))
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
