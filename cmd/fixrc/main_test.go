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
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fixrc/pkg/testutils"
)

const playerSource = `fn play(&mut self) {
    self.dispatch(// IoEvent::Pause);
    let uri = track.uri;
}
`

const playerFixed = `fn play(&mut self) {
    // self.dispatch(IoEvent::Pause);
    let uri = format!("spotify:track:{}", track.id.as_ref().map(|id| id.to_string()).unwrap_or_default());
}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name        string
		args        func(root string) []string
		setup       func(t *testing.T, root string)
		wantErr     bool
		errContains string
		validate    func(t *testing.T, root, out string)
	}{
		{
			name: "run_fixes_in_place",
			args: func(root string) []string { return []string{"run", root} },
			validate: func(t *testing.T, root, out string) {
				assert.Equal(t, playerFixed, testutils.ReadFile(t, root, "src/player.rs"))
				assert.Contains(t, out, "src/player.rs")
				assert.Contains(t, out, "✅ Fixed 1 file")
			},
		},
		{
			name: "check_prints_diff_without_writing",
			args: func(root string) []string { return []string{"check", root} },
			validate: func(t *testing.T, root, out string) {
				assert.Equal(t, playerSource, testutils.ReadFile(t, root, "src/player.rs"))
				assert.Contains(t, out, "+++ b/src/player.rs")
				assert.Contains(t, out, "1 file would be fixed")
			},
		},
		{
			name: "ruleset_flag_limits_rules",
			args: func(root string) []string { return []string{"run", "-r", "dispatch", "--backup", root} },
			validate: func(t *testing.T, root, out string) {
				got := testutils.ReadFile(t, root, "src/player.rs")
				assert.Contains(t, got, "// self.dispatch(IoEvent::Pause);")
				assert.Contains(t, got, "track.uri;", "field rules were not selected")
				assert.Equal(t, playerSource, testutils.ReadFile(t, root, "src/player.rs.bak"))
			},
		},
		{
			name: "config_file_with_custom_rule",
			setup: func(t *testing.T, root string) {
				testutils.WriteTree(t, root, map[string]string{"fixrc.yaml": `
rulesets: []
rules:
  - name: rename-play
    scope: line
    match: 'fn play\('
    template: 'fn resume('
`})
			},
			args: func(root string) []string {
				return []string{"run", "-c", filepath.Join(root, "fixrc.yaml"), root}
			},
			validate: func(t *testing.T, root, out string) {
				got := testutils.ReadFile(t, root, "src/player.rs")
				assert.Contains(t, got, "fn resume(&mut self)")
				assert.Contains(t, got, "self.dispatch(// IoEvent::Pause);", "built-in sets were not selected")
			},
		},
		{
			name: "warnings_do_not_fail_run",
			setup: func(t *testing.T, root string) {
				testutils.WriteTree(t, root, map[string]string{
					"src/broken.rs": "fn f() {\n    self.dispatch(// IoEvent::PlayTrack(\n        track.uri,\n",
				})
			},
			args: func(root string) []string { return []string{"run", root} },
			validate: func(t *testing.T, root, out string) {
				assert.Equal(t, "fn f() {\n    self.dispatch(// IoEvent::PlayTrack(\n        track.uri,\n", testutils.ReadFile(t, root, "src/broken.rs"))
				assert.Contains(t, out, "⚠️  1 file left constructs untouched:")
				assert.Contains(t, out, "    src/broken.rs\n")
			},
		},
		{
			name:        "explicit_missing_config",
			args:        func(root string) []string { return []string{"run", "-c", filepath.Join(root, "missing.yaml"), root} },
			wantErr:     true,
			errContains: "loading config",
		},
		{
			name:        "unknown_ruleset",
			args:        func(root string) []string { return []string{"run", "-r", "nope", root} },
			wantErr:     true,
			errContains: `unknown rule set "nope"`,
		},
		{
			name:        "root_is_a_file",
			args:        func(root string) []string { return []string{"run", filepath.Join(root, "src", "player.rs")} },
			wantErr:     true,
			errContains: "is not a directory",
		},
		{
			name: "rules_lists_selected_sets",
			args: func(root string) []string { return []string{"rules", "-r", "dispatch,startplayback"} },
			validate: func(t *testing.T, root, out string) {
				assert.Contains(t, out, "dispatch-block")
				assert.Contains(t, out, "startplayback-args")
				assert.NotContains(t, out, "album-uri")
				assert.Contains(t, out, "uri-fields", "every built-in set is described")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			testutils.WriteTree(t, root, map[string]string{"src/player.rs": playerSource})
			if tt.setup != nil {
				tt.setup(t, root)
			}

			out, err := execute(t, tt.args(root)...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, root, out)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "🚀 fixrc")
	assert.Contains(t, out, "Go:")

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)

	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
