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

// 📚 RuleSet is an ordered collection of compiled rules.
//
// Order is precedence: within one pass, a span claimed by an earlier rule is
// never matched by a later one, so specific rules must come before the
// generic rules that would shadow them. The set never reorders anything.
type RuleSet struct {
	rules []PatternRule
}

// 🏭 NewRuleSet compiles rules and keeps them in the given order.
func NewRuleSet(rules ...PatternRule) (*RuleSet, error) {
	set := &RuleSet{rules: make([]PatternRule, 0, len(rules))}
	seen := make(map[string]struct{}, len(rules))
	for i, r := range rules {
		compiled, err := r.Compile()
		if err != nil {
			return nil, errors.Errorf("rule %d: %w", i, err)
		}
		if _, dup := seen[compiled.Name]; dup {
			return nil, errors.Errorf("rule %d: %w: duplicate name %q", i, ErrInvalidRule, compiled.Name)
		}
		seen[compiled.Name] = struct{}{}
		set.rules = append(set.rules, compiled)
	}
	return set, nil
}

// MustRuleSet is NewRuleSet for rules known to be valid.
func MustRuleSet(rules ...PatternRule) *RuleSet {
	set, err := NewRuleSet(rules...)
	if err != nil {
		panic(err)
	}
	return set
}

// Len returns the number of rules.
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Rules returns a copy of the rules in order.
func (s *RuleSet) Rules() []PatternRule {
	if s == nil {
		return nil
	}
	out := make([]PatternRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Scoped returns the rules with the given scope, keeping their relative order.
func (s *RuleSet) Scoped(scope Scope) []PatternRule {
	if s == nil {
		return nil
	}
	var out []PatternRule
	for _, r := range s.rules {
		if r.Scope == scope {
			out = append(out, r)
		}
	}
	return out
}

// Concat returns a new set with the rules of s followed by those of others.
func (s *RuleSet) Concat(others ...*RuleSet) (*RuleSet, error) {
	all := s.Rules()
	for _, o := range others {
		all = append(all, o.Rules()...)
	}
	return NewRuleSet(all...)
}
