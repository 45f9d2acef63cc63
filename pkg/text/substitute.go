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
	"sort"
	"strings"

	"github.com/walteh/fixrc/pkg/rule"
)

// edit replaces line[start:end] with text
type edit struct {
	start, end int
	text       string
}

// 🔄 Substitute applies line-scoped rules to every line of content and
// returns the new content with the number of replacements made.
//
// Each line is matched on its original text. Rules run in order and a match
// overlapping a span already claimed by an earlier rule is dropped, so the
// first rule in the list wins. Empty matches are ignored. Rules that are not
// line or field scoped are skipped.
func Substitute(content string, rules []rule.PatternRule) (string, int) {
	rules = substitutionRules(rules)
	if len(rules) == 0 || content == "" {
		return content, 0
	}

	lines := strings.Split(content, "\n")
	total := 0
	for i, line := range lines {
		out, n := substituteLine(line, rules)
		if n > 0 {
			lines[i] = out
			total += n
		}
	}
	if total == 0 {
		return content, 0
	}
	return strings.Join(lines, "\n"), total
}

func substitutionRules(rules []rule.PatternRule) []rule.PatternRule {
	out := rules[:0:0]
	for _, r := range rules {
		if (r.Scope == rule.ScopeLine || r.Scope == rule.ScopeField) && r.Regexp() != nil {
			out = append(out, r)
		}
	}
	return out
}

func substituteLine(line string, rules []rule.PatternRule) (string, int) {
	var edits []edit
	for _, r := range rules {
		re := r.Regexp()
		for _, m := range re.FindAllStringSubmatchIndex(line, -1) {
			if m[0] == m[1] || overlaps(edits, m[0], m[1]) {
				continue
			}
			text := string(re.ExpandString(nil, r.Template, line, m))
			edits = append(edits, edit{start: m[0], end: m[1], text: text})
		}
	}
	if len(edits) == 0 {
		return line, 0
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var b strings.Builder
	b.Grow(len(line))
	last := 0
	for _, e := range edits {
		b.WriteString(line[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.WriteString(line[last:])
	return b.String(), len(edits)
}

func overlaps(edits []edit, start, end int) bool {
	for _, e := range edits {
		if start < e.end && e.start < end {
			return true
		}
	}
	return false
}
