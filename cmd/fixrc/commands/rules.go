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
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/fixrc/cmd/fixrc/opts"
	"github.com/walteh/fixrc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rules that run would apply",
		Long: `Rules prints every active rule in the order it is tried, followed by
the built-in rule sets that can be selected with --ruleset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := o.LoadConfig(ctx, nil)
			if err != nil {
				return err
			}

			data := pterm.TableData{{"#", "Name", "Scope", "Set", "Detail"}}
			n := 0
			add := func(set string, r rule.PatternRule) {
				n++
				data = append(data, []string{strconv.Itoa(n), r.Name, string(r.Scope), set, ruleDetail(r)})
			}

			for _, name := range cfg.RuleSets {
				set, err := rule.Builtin(name)
				if err != nil {
					return errors.Errorf("loading rule set: %w", err)
				}
				for _, r := range set.Rules() {
					add(name, r)
				}
			}
			for _, rc := range cfg.Rules {
				r, err := rc.PatternRule()
				if err != nil {
					return err
				}
				add("config", r)
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering rules: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)

			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), pterm.Bold.Sprint("Built-in rule sets"))
			for _, b := range rule.Builtins() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-14s %d rules  %s\n", b.Name, b.Rules, b.Description)
			}

			return nil
		},
	}

	return cmd
}

func ruleDetail(r rule.PatternRule) string {
	switch r.Scope {
	case rule.ScopeBlock:
		return fmt.Sprintf("%q .. %q", r.Start, r.End)
	case rule.ScopeArgList:
		return fmt.Sprintf("%s keep %d", r.Match, r.MaxArgs)
	default:
		return r.Match + " -> " + r.Template
	}
}
