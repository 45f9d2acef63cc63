// Package config loads and validates fixrc configuration.
//
// 	            +-------------+
// 	            |   Config    |
// 	            | (Settings)  |
// 	            +------+------+
// 	                   |
// 	      +------------+------------+
// 	      |            |            |
// 	+-----+-----+ +----+----+ +-----+-----+
// 	|   YAML    | |   HCL   | |   JSON    |
// 	|  Parser   | | Parser  | |  Parser   |
// 	+-----------+ +---------+ +-----------+
//
// 🎯 Purpose:
// - Picks a parser from the file extension (.fixrc tries all of them)
// - Fills defaults: root ".", include "**/*.rs", one worker per CPU
// - Resolves built-in rule sets and custom rules into one ordered rule.RuleSet
//
// 🔄 Flow:
// 1. Load reads the file and hands it to the matching Parser
// 2. Validate fills defaults and compiles every rule
// 3. BuildRuleSet returns the rules in application order
//
// 🔍 Example:
//
// 	cfg, err := config.Load(ctx, ".fixrc.yaml")
// 	if err != nil {
// 		return err
// 	}
//
// 	set, err := cfg.BuildRuleSet()
// 	if err != nil {
// 		return err
// 	}
package config
