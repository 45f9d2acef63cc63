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

package rule

import (
	"gitlab.com/tozd/go/errors"
)

const trackURI = `format!("spotify:track:{}", ${1}.id.as_ref().map(|id| id.to_string()).unwrap_or_default())`

// 📦 builtin rule sets, in the order they are listed and applied
var builtins = []struct {
	name        string
	description string
	rules       []PatternRule
}{
	{
		name:        "dispatch",
		description: "comment out dispatch calls whose argument was commented out in place",
		rules: []PatternRule{
			{
				Name:     "dispatch-statement",
				Scope:    ScopeLine,
				Match:    `self\.dispatch\(// ([A-Za-z_]\w*::[^;]*)\);`,
				Template: `// self.dispatch(${1});`,
			},
			{
				Name:     "dispatch-expression",
				Scope:    ScopeLine,
				Match:    `self\.dispatch\(// ([A-Za-z_]\w*::[^(;]*\([^);]*\))\)`,
				Template: `// self.dispatch(${1})`,
			},
			{
				Name:    "dispatch-block",
				Scope:   ScopeBlock,
				Start:   "self.dispatch(//",
				Replace: "self.dispatch(",
				Inline:  ");",
				End:     "));",
				Prefix:  "// ",
			},
		},
	},
	{
		name:        "startplayback",
		description: "keep only the first argument of IoEvent::StartPlayback",
		rules: []PatternRule{
			{
				Name:    "startplayback-args",
				Scope:   ScopeArgList,
				Match:   `IoEvent::StartPlayback`,
				MaxArgs: 1,
			},
		},
	},
	{
		name:        "uri-fields",
		description: "rewrite removed .uri fields into spotify URIs built from .id",
		rules: []PatternRule{
			{
				Name:     "album-uri",
				Scope:    ScopeField,
				Match:    `(\w+\.album)\.uri\b`,
				Template: `format!("spotify:album:{}", ${1}.id.as_ref().map(|id| id.to_string()).unwrap_or_default())`,
			},
			{
				Name:     "playlist-uri",
				Scope:    ScopeField,
				Match:    `(\w+\.playlist)\.uri\b`,
				Template: `format!("spotify:playlist:{}", ${1}.id)`,
			},
			{
				Name:     "artist-uri",
				Scope:    ScopeField,
				Match:    `(\w+\.artist)\.uri\b`,
				Template: `format!("spotify:artist:{}", ${1}.id)`,
			},
			{
				Name:     "track-uri-clone",
				Scope:    ScopeField,
				Match:    `(\w+)\.uri\.clone\(\)`,
				Template: trackURI,
			},
			{
				Name:     "track-uri",
				Scope:    ScopeField,
				Match:    `(\w+)\.uri\b`,
				Template: trackURI,
			},
		},
	},
}

// BuiltinInfo describes a built-in rule set.
type BuiltinInfo struct {
	Name        string
	Description string
	Rules       int
}

// BuiltinNames lists the built-in rule sets in their canonical order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for _, b := range builtins {
		names = append(names, b.name)
	}
	return names
}

// Builtins describes every built-in rule set.
func Builtins() []BuiltinInfo {
	out := make([]BuiltinInfo, 0, len(builtins))
	for _, b := range builtins {
		out = append(out, BuiltinInfo{Name: b.name, Description: b.description, Rules: len(b.rules)})
	}
	return out
}

// 🎯 Builtin returns the named built-in rule set.
func Builtin(name string) (*RuleSet, error) {
	for _, b := range builtins {
		if b.name == name {
			return NewRuleSet(b.rules...)
		}
	}
	return nil, errors.Errorf("unknown rule set %q", name)
}
