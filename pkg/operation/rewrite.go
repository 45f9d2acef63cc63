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

package operation

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/fixrc/pkg/log"
	"github.com/walteh/fixrc/pkg/status"
	"github.com/walteh/fixrc/pkg/text"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

var _ Operation = (*RewriteOperation)(nil)

// ✏️ RewriteOperation runs the rule set over every file the walker finds
type RewriteOperation struct {
	BaseOperation
	rewriter *text.Rewriter
	walker   *Walker

	outMu sync.Mutex
}

// 🏭 NewRewriteOperation builds the rewriter and walker for opts
func NewRewriteOperation(opts Options) (*RewriteOperation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}

	rw, err := text.NewRewriter(base.RuleSet)
	if err != nil {
		return nil, errors.Errorf("creating rewriter: %w", err)
	}

	cfg := base.Config
	walker, err := NewWalker(cfg.Root, cfg.Include, cfg.Ignore, cfg.UseGitignore())
	if err != nil {
		return nil, errors.Errorf("creating walker: %w", err)
	}

	return &RewriteOperation{
		BaseOperation: base,
		rewriter:      rw,
		walker:        walker,
	}, nil
}

// 🏃 Execute rewrites every matching file. A failure on one file is recorded
// in its status entry and does not stop the others; only walking errors and
// cancellation are returned.
func (op *RewriteOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	files, err := op.walker.Walk(ctx)
	if err != nil {
		return errors.Errorf("listing files: %w", err)
	}

	op.StatusMgr.StartOperation(ctx, len(files))
	defer op.StatusMgr.FinishOperation(ctx)

	workers := op.workers()
	logger.Debug().Int("files", len(files)).Int("workers", workers).Bool("dry_run", op.DryRun).Msg("rewriting files")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			op.RewriteFile(gctx, file)
			op.StatusMgr.UpdateProgress(gctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Errorf("rewriting files: %w", err)
	}
	return nil
}

// 📄 RewriteFile runs the rule set over one file, relative to the root, and
// records the outcome. Unchanged files are never written.
func (op *RewriteOperation) RewriteFile(ctx context.Context, path string) status.FileInfo {
	logger := zerolog.Ctx(ctx).With().Str("file", path).Logger()

	content, err := op.StatusMgr.ReadFile(ctx, path)
	if err != nil {
		return op.fail(ctx, path, status.FileInfo{}, err)
	}

	result := op.rewriter.Rewrite(content)
	info := status.FileInfo{
		Status:       status.StatusUnchanged,
		Replacements: result.Replacements,
		Warnings:     result.Warnings,
	}

	for _, w := range result.Warnings {
		logger.Debug().Err(w).Msg("left construct untouched")
		op.Logger.Warningf("%s: %v", path, w)
	}

	if !result.Changed {
		op.StatusMgr.TrackFile(ctx, path, info)
		return info
	}

	info.Status = status.StatusModified
	info.Insertions, info.Deletions = ChangeStats(result.Original, result.Modified)

	if op.DryRun {
		diff, err := Diff(path, result.Original, result.Modified)
		if err != nil {
			return op.fail(ctx, path, info, err)
		}
		op.outMu.Lock()
		fmt.Fprint(op.Out, diff)
		op.outMu.Unlock()
	} else {
		if op.Config.Backup {
			if err := op.StatusMgr.BackupFile(ctx, path); err != nil {
				return op.fail(ctx, path, info, err)
			}
		}
		if err := op.StatusMgr.WriteFileAtomic(ctx, path, result.Modified); err != nil {
			return op.fail(ctx, path, info, err)
		}
	}

	op.StatusMgr.TrackFile(ctx, path, info)
	op.Logger.LogFileOperation(ctx, log.FileOperation{
		Path:         path,
		Status:       op.verb(),
		IsModified:   true,
		Replacements: info.Replacements,
		Warnings:     len(info.Warnings),
	})
	return info
}

func (op *RewriteOperation) verb() string {
	if op.DryRun {
		return "would fix"
	}
	return "fixed"
}

func (op *RewriteOperation) fail(ctx context.Context, path string, info status.FileInfo, err error) status.FileInfo {
	zerolog.Ctx(ctx).Error().Err(err).Str("file", path).Msg("rewriting file")

	info.Status = status.StatusFailed
	info.Error = err
	op.StatusMgr.TrackFile(ctx, path, info)
	op.Logger.LogFileOperation(ctx, log.FileOperation{
		Path:         path,
		Status:       "failed",
		IsFailed:     true,
		Replacements: info.Replacements,
		Warnings:     len(info.Warnings),
	})
	return info
}
