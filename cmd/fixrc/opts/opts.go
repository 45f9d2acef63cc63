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

package opts

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/fixrc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// DefaultConfigFile is read when present; a missing default is not an error.
const DefaultConfigFile = ".fixrc.yaml"

// RootOpts holds the persistent flags shared by every command.
type RootOpts struct {
	ConfigFile     string
	ConfigExplicit bool // set when --config was passed on the command line
	RuleSets       []string
	Include        []string
	Ignore         []string
	Workers        int
	Backup         bool
	Debug          bool
}

// 🎯 LoadConfig reads the config file and applies command line overrides.
// The first positional argument, when given, replaces the configured root.
func (o *RootOpts) LoadConfig(ctx context.Context, args []string) (*config.Config, error) {
	logger := zerolog.Ctx(ctx)

	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		if o.ConfigExplicit || !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Errorf("loading config: %w", err)
		}
		logger.Debug().Str("config", o.ConfigFile).Msg("no config file, using built-in defaults")
		cfg = config.Default()
	}

	if len(args) > 0 {
		cfg.Root = args[0]
	}
	if len(o.RuleSets) > 0 {
		cfg.RuleSets = o.RuleSets
	}
	if len(o.Include) > 0 {
		cfg.Include = o.Include
	}
	cfg.Ignore = append(cfg.Ignore, o.Ignore...)
	if o.Workers > 0 {
		cfg.Workers = o.Workers
		cfg.Async = o.Workers > 1
	}
	if o.Backup {
		cfg.Backup = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating flags: %w", err)
	}

	logger.Debug().Stringer("config", cfg).Msg("configuration ready")
	return cfg, nil
}
