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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/fixrc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// DefaultInclude matches every Rust source file under the root.
const DefaultInclude = "**/*.rs"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📏 RuleConfig is a custom pattern rule as written in a config file.
type RuleConfig struct {
	Name     string `json:"name" yaml:"name" hcl:"name,label"`
	Scope    string `json:"scope" yaml:"scope" hcl:"scope"`
	Match    string `json:"match,omitempty" yaml:"match,omitempty" hcl:"match,optional"`
	Template string `json:"template,omitempty" yaml:"template,omitempty" hcl:"template,optional"`
	Start    string `json:"start,omitempty" yaml:"start,omitempty" hcl:"start,optional"`
	Replace  string `json:"replace,omitempty" yaml:"replace,omitempty" hcl:"replace,optional"`
	Inline   string `json:"inline,omitempty" yaml:"inline,omitempty" hcl:"inline,optional"`
	End      string `json:"end,omitempty" yaml:"end,omitempty" hcl:"end,optional"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty" hcl:"prefix,optional"`
	MaxArgs  int    `json:"max_args,omitempty" yaml:"max_args,omitempty" hcl:"max_args,optional"`
}

// PatternRule converts the config entry into a rule. The result is not compiled.
func (rc RuleConfig) PatternRule() (rule.PatternRule, error) {
	scope, err := rule.ParseScope(rc.Scope)
	if err != nil {
		return rule.PatternRule{}, errors.Errorf("rule %s: %w", rc.Name, err)
	}
	return rule.PatternRule{
		Name:     rc.Name,
		Scope:    scope,
		Match:    rc.Match,
		Template: rc.Template,
		Start:    rc.Start,
		Replace:  rc.Replace,
		Inline:   rc.Inline,
		End:      rc.End,
		Prefix:   rc.Prefix,
		MaxArgs:  rc.MaxArgs,
	}, nil
}

// 📚 Config represents the complete configuration
type Config struct {
	Root      string       `json:"root,omitempty" yaml:"root,omitempty" hcl:"root,optional"`
	Include   []string     `json:"include,omitempty" yaml:"include,omitempty" hcl:"include,optional"`
	Ignore    []string     `json:"ignore,omitempty" yaml:"ignore,omitempty" hcl:"ignore,optional"`
	Gitignore *bool        `json:"gitignore,omitempty" yaml:"gitignore,omitempty" hcl:"gitignore,optional"`
	RuleSets  []string     `json:"rulesets,omitempty" yaml:"rulesets,omitempty" hcl:"rulesets,optional"`
	Rules     []RuleConfig `json:"rules,omitempty" yaml:"rules,omitempty" hcl:"rule,block"`
	Workers   int          `json:"workers,omitempty" yaml:"workers,omitempty" hcl:"workers,optional"`
	Async     bool         `json:"async,omitempty" yaml:"async,omitempty" hcl:"async,optional"`
	Backup    bool         `json:"backup,omitempty" yaml:"backup,omitempty" hcl:"backup,optional"`
}

// 🏭 Default returns a validated config that runs every built-in rule set
// over the current directory.
func Default() *Config {
	cfg := &Config{}
	// an empty config always validates
	_ = cfg.Validate()
	return cfg
}

// 🎯 Load loads the configuration from a file.
//
// The format is picked from the extension. A file named .fixrc, or with a
// .fixrc extension, is tried against every registered parser in turn.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg *Config
	if filepath.Base(path) == ".fixrc" || filepath.Ext(path) == ".fixrc" {
		cfg, err = parseAny(ctx, data)
	} else {
		p := GetParser(path)
		if p == nil {
			return nil, errors.Errorf("no parser found for file: %s", path)
		}
		cfg, err = p.Parse(ctx, data)
	}
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func parseAny(ctx context.Context, data []byte) (*Config, error) {
	var errs []string
	for _, p := range parsers {
		cfg, err := p.Parse(ctx, data)
		if err == nil {
			return cfg, nil
		}
		errs = append(errs, err.Error())
	}
	return nil, errors.Errorf("no parser accepted the file: %s", strings.Join(errs, "; "))
}

// 🔍 Validate fills in defaults and checks that every rule set, rule and
// glob pattern can be used.
func (cfg *Config) Validate() error {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	cfg.Root = filepath.Clean(cfg.Root)

	if len(cfg.Include) == 0 {
		cfg.Include = []string{DefaultInclude}
	}
	for _, pattern := range append(append([]string{}, cfg.Include...), cfg.Ignore...) {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid glob pattern %q", pattern)
		}
	}

	if cfg.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if len(cfg.RuleSets) == 0 && len(cfg.Rules) == 0 {
		cfg.RuleSets = rule.BuiltinNames()
	}

	if _, err := cfg.BuildRuleSet(); err != nil {
		return err
	}

	return nil
}

// UseGitignore reports whether .gitignore files should be honoured. It
// defaults to true.
func (cfg *Config) UseGitignore() bool {
	return cfg.Gitignore == nil || *cfg.Gitignore
}

// 🧩 BuildRuleSet returns the built-in sets named in RuleSets, in order,
// followed by the custom rules.
func (cfg *Config) BuildRuleSet() (*rule.RuleSet, error) {
	var all []rule.PatternRule
	for _, name := range cfg.RuleSets {
		set, err := rule.Builtin(name)
		if err != nil {
			return nil, errors.Errorf("loading rule set: %w", err)
		}
		all = append(all, set.Rules()...)
	}

	for _, rc := range cfg.Rules {
		r, err := rc.PatternRule()
		if err != nil {
			return nil, err
		}
		all = append(all, r)
	}

	set, err := rule.NewRuleSet(all...)
	if err != nil {
		return nil, errors.Errorf("building rule set: %w", err)
	}
	return set, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	sets := strings.Join(cfg.RuleSets, ",")
	if sets == "" {
		sets = "-"
	}
	return fmt.Sprintf("%s [%s] rulesets=%s rules=%d", cfg.Root, strings.Join(cfg.Include, ","), sets, len(cfg.Rules))
}
