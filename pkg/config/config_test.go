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
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fixrc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel).WithContext(context.Background())
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing config file")
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		config      string
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_yaml",
			file: ".fixrc.yaml",
			config: `
root: src
include:
  - "**/*.rs"
  - "**/*.rs.in"
ignore:
  - "target/**"
gitignore: false
rulesets:
  - dispatch
rules:
  - name: track-id
    scope: field
    match: '(\w+)\.uri\b'
    template: '${1}.id'
workers: 4
async: true
backup: true
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "src", cfg.Root, "root should match")
				assert.Equal(t, []string{"**/*.rs", "**/*.rs.in"}, cfg.Include, "include should match")
				assert.Equal(t, []string{"target/**"}, cfg.Ignore, "ignore should match")
				assert.False(t, cfg.UseGitignore(), "gitignore should be disabled")
				assert.Equal(t, []string{"dispatch"}, cfg.RuleSets, "rulesets should match")
				require.Len(t, cfg.Rules, 1, "should have 1 custom rule")
				assert.Equal(t, `(\w+)\.uri\b`, cfg.Rules[0].Match, "match should be kept verbatim")
				assert.Equal(t, 4, cfg.Workers, "workers should match")
				assert.True(t, cfg.Async, "async should be true")
				assert.True(t, cfg.Backup, "backup should be true")
			},
		},
		{
			name:   "minimal_yaml",
			file:   "fixrc.yml",
			config: "root: .\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ".", cfg.Root)
				assert.Equal(t, []string{DefaultInclude}, cfg.Include, "include should have default value")
				assert.Equal(t, rule.BuiltinNames(), cfg.RuleSets, "every built-in set should be enabled")
				assert.Equal(t, runtime.NumCPU(), cfg.Workers, "workers should default to the CPU count")
				assert.True(t, cfg.UseGitignore(), "gitignore should default to true")
				assert.False(t, cfg.Async)
			},
		},
		{
			name:        "unknown_field",
			file:        "fixrc.yaml",
			config:      "destination: /tmp\n",
			errContains: "field destination not found",
		},
		{
			name:        "unknown_ruleset",
			file:        "fixrc.yaml",
			config:      "rulesets: [nope]\n",
			errContains: `unknown rule set "nope"`,
		},
		{
			name: "bad_scope",
			file: "fixrc.yaml",
			config: `
rules:
  - name: x
    scope: everywhere
    match: x
`,
			errContains: `unknown scope "everywhere"`,
		},
		{
			name: "bad_regexp",
			file: "fixrc.yaml",
			config: `
rules:
  - name: x
    scope: line
    match: '(x'
`,
			errContains: "compiling match",
		},
		{
			name:        "bad_glob",
			file:        "fixrc.yaml",
			config:      "include: ['[']\n",
			errContains: "invalid glob pattern",
		},
		{
			name:        "negative_workers",
			file:        "fixrc.yaml",
			config:      "workers: -1\n",
			errContains: "workers must not be negative",
		},
		{
			name:        "unsupported_extension",
			file:        "fixrc.txt",
			config:      "root: .\n",
			errContains: "no parser found",
		},
		{
			name:   "dotfile_yaml",
			file:   ".fixrc",
			config: "rulesets: [startplayback]\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"startplayback"}, cfg.RuleSets)
			},
		},
		{
			name:   "dotfile_hcl",
			file:   ".fixrc",
			config: "rulesets = [builtin.uri_fields]\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"uri-fields"}, cfg.RuleSets)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.config)

			cfg, err := Load(testContext(t), path)
			if tt.errContains != "" {
				require.Error(t, err, "expected error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "unexpected error")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(testContext(t), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist), "missing files should be detectable")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, rule.BuiltinNames(), cfg.RuleSets)

	set, err := cfg.BuildRuleSet()
	require.NoError(t, err)

	want := 0
	for _, info := range rule.Builtins() {
		want += info.Rules
	}
	assert.Equal(t, want, set.Len(), "every built-in rule should be present")
}

func TestBuildRuleSet_Order(t *testing.T) {
	cfg := &Config{
		RuleSets: []string{"uri-fields", "dispatch"},
		Rules: []RuleConfig{
			{Name: "custom", Scope: "line", Match: `foo`, Template: `bar`},
		},
	}
	require.NoError(t, cfg.Validate())

	set, err := cfg.BuildRuleSet()
	require.NoError(t, err)

	rules := set.Rules()
	require.NotEmpty(t, rules)
	assert.Equal(t, "album-uri", rules[0].Name, "built-in sets come first, in listed order")
	assert.Equal(t, "custom", rules[len(rules)-1].Name, "custom rules come last")
}

func TestBuildRuleSet_DuplicateName(t *testing.T) {
	cfg := &Config{
		RuleSets: []string{"dispatch"},
		Rules: []RuleConfig{
			{Name: "dispatch-block", Scope: "block", Start: "x(//", Replace: "x("},
		},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate name "dispatch-block"`)
}

func TestConfig_String(t *testing.T) {
	cfg := Default()
	assert.Contains(t, cfg.String(), "rulesets=dispatch,startplayback,uri-fields")
}
