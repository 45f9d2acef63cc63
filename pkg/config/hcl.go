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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/fixrc/pkg/rule"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
//
// Rules are written as labelled blocks:
//
//	rulesets = [builtin.dispatch, builtin.uri_fields]
//
//	rule "track-id" {
//	  scope    = scope.field
//	  match    = "(\\w+)\\.uri\\b"
//	  template = "$${1}.id"
//	}
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "fixrc.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &cfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &cfg, nil
}

// evalContext exposes the built-in rule set names as builtin.<name> (with
// dashes written as underscores) and the rule scopes as scope.<name>.
func evalContext() *hcl.EvalContext {
	builtins := map[string]cty.Value{}
	for _, name := range rule.BuiltinNames() {
		builtins[strings.ReplaceAll(name, "-", "_")] = cty.StringVal(name)
	}

	scopes := map[string]cty.Value{}
	for _, s := range []rule.Scope{rule.ScopeLine, rule.ScopeBlock, rule.ScopeArgList, rule.ScopeField} {
		scopes[string(s)] = cty.StringVal(string(s))
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"builtin": cty.ObjectVal(builtins),
			"scope":   cty.ObjectVal(scopes),
		},
	}
}
