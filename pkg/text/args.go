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

package text

import (
	"strings"
	"unicode"

	"github.com/walteh/fixrc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

var closerOf = map[byte]byte{'(': ')', '[': ']', '{': '}'}

// argSpan is one top-level argument, as offsets into the call text
type argSpan struct {
	start, end int
}

// scanCall walks call, which must begin with an opening delimiter, and
// returns its top-level arguments and the offset of the matching close.
// Nesting is tracked with an explicit stack; double-quoted strings are opaque.
// Angle brackets only nest after `::`, as in `Vec::<A, B>::new()`.
func scanCall(call string) ([]argSpan, int, error) {
	if call == "" {
		return nil, 0, &UnbalancedDelimiterError{Reason: "empty call"}
	}
	closer, ok := closerOf[call[0]]
	if !ok {
		return nil, 0, &UnbalancedDelimiterError{Reason: "call does not start with an opening delimiter"}
	}

	stack := []byte{closer}
	var args []argSpan
	argStart := 1
	inString := false

	for i := 1; i < len(call); i++ {
		c := call[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '(', '[', '{':
			stack = append(stack, closerOf[c])
		case '<':
			if strings.HasSuffix(call[:i], "::") {
				stack = append(stack, '>')
			}
		case '>':
			if stack[len(stack)-1] == '>' && call[i-1] != '-' {
				stack = stack[:len(stack)-1]
			}
		case ')', ']', '}':
			want := stack[len(stack)-1]
			if c != want {
				return nil, 0, &UnbalancedDelimiterError{Reason: "expected " + string(want) + " but found " + string(c)}
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				args = append(args, argSpan{start: argStart, end: i})
				return args, i, nil
			}
		case ',':
			if len(stack) == 1 {
				args = append(args, argSpan{start: argStart, end: i})
				argStart = i + 1
			}
		}
	}

	return nil, 0, &UnbalancedDelimiterError{Reason: "missing " + string(stack[len(stack)-1])}
}

// countable drops the empty argument left by `()` or by a trailing comma.
func countable(call string, args []argSpan) []argSpan {
	if n := len(args); n > 0 && strings.TrimSpace(call[args[n-1].start:args[n-1].end]) == "" {
		return args[:n-1]
	}
	return args
}

// SplitArgs returns the raw top-level arguments of call. call must start with
// an opening delimiter; anything after the matching close is ignored.
func SplitArgs(call string) ([]string, error) {
	spans, _, err := scanCall(call)
	if err != nil {
		return nil, err
	}
	spans = countable(call, spans)
	out := make([]string, 0, len(spans))
	for _, s := range spans {
		out = append(out, call[s.start:s.end])
	}
	return out, nil
}

// ✂️ NormalizeCall keeps the first k top-level arguments of call and drops
// the rest, returning the new text and whether anything changed.
//
// call must start with an opening delimiter. Text after the matching close is
// carried over untouched. Arguments are only dropped whole, so a balanced
// call stays balanced. Calls with k or fewer arguments come back unchanged.
// An unbalanced call yields an *UnbalancedDelimiterError and the original text.
func NormalizeCall(call string, k int) (string, bool, error) {
	if k < 1 {
		return call, false, errors.Errorf("argument count must be at least 1, got %d", k)
	}
	spans, end, err := scanCall(call)
	if err != nil {
		return call, false, err
	}
	spans = countable(call, spans)
	if len(spans) <= k {
		return call, false, nil
	}

	kept := strings.TrimRightFunc(call[:spans[k-1].end], unicode.IsSpace)
	return kept + call[end:], true, nil
}

// NormalizeCalls applies every arglist rule to content, in order, and returns
// the new content, the number of calls changed and any delimiter warnings.
//
// Calls nested inside kept arguments are normalized as well, so the result
// is stable under a second pass.
func NormalizeCalls(content string, rules []rule.PatternRule) (string, int, []error) {
	var warnings []error
	changed := 0

	for _, r := range rules {
		re := r.Regexp()
		if r.Scope != rule.ScopeArgList || re == nil {
			continue
		}

		pos := 0
		for pos < len(content) {
			loc := re.FindStringIndex(content[pos:])
			if loc == nil {
				break
			}
			open := pos + loc[1] - 1

			out, ok, err := NormalizeCall(content[open:], r.MaxArgs)
			if err != nil {
				var ude *UnbalancedDelimiterError
				if errors.As(err, &ude) {
					ude.Rule = r.Name
					ude.Line = strings.Count(content[:open], "\n") + 1
				}
				warnings = append(warnings, err)
			} else if ok {
				content = content[:open] + out
				changed++
			}
			pos = open + 1
		}
	}

	return content, changed, warnings
}
