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
	"io"

	"github.com/walteh/fixrc/pkg/config"
	"github.com/walteh/fixrc/pkg/log"
	"github.com/walteh/fixrc/pkg/rule"
	"github.com/walteh/fixrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is a unit of work the runner executes
type Operation interface {
	Execute(ctx context.Context) error
}

// 🔧 Options contains everything an operation needs
type Options struct {
	// Config is the validated fixrc configuration
	Config *config.Config
	// RuleSet is the ordered rule set to apply
	RuleSet *rule.RuleSet
	// StatusMgr reads, writes and tracks files under Config.Root
	StatusMgr *status.Manager
	// Logger prints per-file lines to the console
	Logger *log.Logger
	// DryRun reports what would change without writing
	DryRun bool
	// Out receives unified diffs in dry-run mode
	Out io.Writer
}

// 📦 BaseOperation holds the options shared by operations
type BaseOperation struct {
	Options
}

// 🏭 NewBaseOperation checks opts and wraps them
func NewBaseOperation(opts Options) (BaseOperation, error) {
	if opts.Config == nil {
		return BaseOperation{}, errors.Errorf("config is required")
	}
	if opts.RuleSet == nil {
		return BaseOperation{}, errors.Errorf("rule set is required")
	}
	if opts.StatusMgr == nil {
		return BaseOperation{}, errors.Errorf("status manager is required")
	}
	if opts.Logger == nil {
		return BaseOperation{}, errors.Errorf("logger is required")
	}
	if opts.DryRun && opts.Out == nil {
		opts.Out = io.Discard
	}
	return BaseOperation{Options: opts}, nil
}

// workers returns the size of the file worker pool
func (op BaseOperation) workers() int {
	if !op.Config.Async || op.Config.Workers < 1 {
		return 1
	}
	return op.Config.Workers
}
