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
	"regexp"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrInvalidRule is wrapped by every rule validation failure.
var ErrInvalidRule = errors.Base("invalid rule")

// 🎯 Scope says where a rule is allowed to match
type Scope string

const (
	ScopeLine    Scope = "line"    // within a single line
	ScopeBlock   Scope = "block"   // across a buffered multi-line construct
	ScopeArgList Scope = "arglist" // within the argument list of a call
	ScopeField   Scope = "field"   // within a single line, in the field-access pass
)

// ParseScope converts a config string into a Scope.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeLine:
		return ScopeLine, nil
	case ScopeBlock:
		return ScopeBlock, nil
	case ScopeArgList:
		return ScopeArgList, nil
	case ScopeField:
		return ScopeField, nil
	}
	return "", errors.Errorf("%w: unknown scope %q", ErrInvalidRule, s)
}

// Block rule defaults, taken from the broken dispatch shape.
const (
	DefaultInline = ");"
	DefaultEnd    = "));"
	DefaultPrefix = "// "
)

// 🔧 PatternRule is a single (matcher, replacement) pair.
//
// Which fields matter depends on Scope:
//   - line, field: Match is a regular expression and Template a regexp.Expand
//     template ($1, ${1}, ${name}).
//   - block: Start, Replace, Inline, End and Prefix describe the construct.
//   - arglist: Match selects the callee and MaxArgs is the number of
//     arguments to keep.
//
// A PatternRule is a value; Compile returns a validated copy and never
// mutates the receiver.
type PatternRule struct {
	Name     string
	Scope    Scope
	Match    string
	Template string

	Start   string
	Replace string
	Inline  string
	End     string
	Prefix  string

	MaxArgs int

	re *regexp.Regexp
}

// Regexp returns the compiled matcher, nil for block rules or uncompiled rules.
func (r PatternRule) Regexp() *regexp.Regexp {
	return r.re
}

// String returns a short human readable description of the rule.
func (r PatternRule) String() string {
	switch r.Scope {
	case ScopeBlock:
		return r.Name + " [block] " + strconv.Quote(r.Start) + " .. " + strconv.Quote(r.End)
	case ScopeArgList:
		return r.Name + " [arglist] " + r.Match + " keep " + strconv.Itoa(r.MaxArgs)
	default:
		return r.Name + " [" + string(r.Scope) + "] " + r.Match + " -> " + r.Template
	}
}

// 🔍 Compile validates the rule and returns a copy ready for use.
func (r PatternRule) Compile() (PatternRule, error) {
	if r.Name == "" {
		return r, errors.Errorf("%w: name is required", ErrInvalidRule)
	}

	scope, err := ParseScope(string(r.Scope))
	if err != nil {
		return r, errors.Errorf("rule %s: %w", r.Name, err)
	}
	r.Scope = scope

	switch r.Scope {
	case ScopeLine, ScopeField:
		return r.compileSubstitution()
	case ScopeBlock:
		return r.compileBlock()
	default:
		return r.compileArgList()
	}
}

func (r PatternRule) compileSubstitution() (PatternRule, error) {
	if r.Match == "" {
		return r, errors.Errorf("%w: rule %s: match is required", ErrInvalidRule, r.Name)
	}
	re, err := regexp.Compile(r.Match)
	if err != nil {
		return r, errors.Errorf("%w: rule %s: compiling match: %s", ErrInvalidRule, r.Name, err.Error())
	}
	if err := checkTemplate(re, r.Template); err != nil {
		return r, errors.Errorf("%w: rule %s: %s", ErrInvalidRule, r.Name, err.Error())
	}
	r.re = re
	return r, nil
}

func (r PatternRule) compileBlock() (PatternRule, error) {
	if r.Start == "" {
		return r, errors.Errorf("%w: rule %s: start is required", ErrInvalidRule, r.Name)
	}
	if r.Inline == "" {
		r.Inline = DefaultInline
	}
	if r.End == "" {
		r.End = DefaultEnd
	}
	if r.Prefix == "" {
		r.Prefix = DefaultPrefix
	}
	// the neutralized form must never contain the start marker again
	if strings.Contains(r.Replace, r.Start) {
		return r, errors.Errorf("%w: rule %s: replace %q contains start marker %q", ErrInvalidRule, r.Name, r.Replace, r.Start)
	}
	if strings.Contains(r.Prefix, r.Start) {
		return r, errors.Errorf("%w: rule %s: prefix %q contains start marker %q", ErrInvalidRule, r.Name, r.Prefix, r.Start)
	}
	return r, nil
}

func (r PatternRule) compileArgList() (PatternRule, error) {
	if r.Match == "" {
		return r, errors.Errorf("%w: rule %s: match is required", ErrInvalidRule, r.Name)
	}
	if r.MaxArgs < 0 {
		return r, errors.Errorf("%w: rule %s: max_args must be positive, got %d", ErrInvalidRule, r.Name, r.MaxArgs)
	}
	if r.MaxArgs == 0 {
		r.MaxArgs = 1
	}
	// callee, optional whitespace, then the opening delimiter
	re, err := regexp.Compile(`(?:` + r.Match + `)\s*[(\[{]`)
	if err != nil {
		return r, errors.Errorf("%w: rule %s: compiling match: %s", ErrInvalidRule, r.Name, err.Error())
	}
	r.re = re
	return r, nil
}

// checkTemplate makes sure every $ reference in tmpl names a group of re.
// It follows the regexp.Expand grammar; malformed references are literal text
// there, so they are ignored here too.
func checkTemplate(re *regexp.Regexp, tmpl string) error {
	for len(tmpl) > 0 {
		i := strings.IndexByte(tmpl, '$')
		if i < 0 {
			return nil
		}
		tmpl = tmpl[i+1:]
		if tmpl == "" {
			return nil
		}
		if tmpl[0] == '$' {
			tmpl = tmpl[1:]
			continue
		}

		var name string
		if tmpl[0] == '{' {
			end := strings.IndexByte(tmpl, '}')
			if end < 0 {
				continue
			}
			name, tmpl = tmpl[1:end], tmpl[end+1:]
		} else {
			n := 0
			for n < len(tmpl) && isNameByte(tmpl[n]) {
				n++
			}
			name, tmpl = tmpl[:n], tmpl[n:]
		}
		if name == "" {
			continue
		}

		if num, err := strconv.Atoi(name); err == nil {
			if num < 0 || num > re.NumSubexp() {
				return errors.Errorf("template references group %d but match defines %d", num, re.NumSubexp())
			}
			continue
		}
		if re.SubexpIndex(name) < 0 {
			return errors.Errorf("template references unknown group %q", name)
		}
	}
	return nil
}

func isNameByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
