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
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/fixrc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

var _ TextRewriter = (*Rewriter)(nil)

// 🛠️ Rewriter runs a rule set over whole files.
//
// The pipeline order is fixed: line substitution, block reconstruction,
// argument normalization, field-access rewriting. A Rewriter holds no
// per-file state and is safe for concurrent use.
type Rewriter struct {
	lines  []rule.PatternRule
	blocks []*Reconstructor
	calls  []rule.PatternRule
	fields []rule.PatternRule
}

// 🏭 NewRewriter splits set into its pipeline stages, keeping rule order
// within each stage.
func NewRewriter(set *rule.RuleSet) (*Rewriter, error) {
	if set.Len() == 0 {
		return nil, errors.New("rule set is empty")
	}

	r := &Rewriter{
		lines:  set.Scoped(rule.ScopeLine),
		calls:  set.Scoped(rule.ScopeArgList),
		fields: set.Scoped(rule.ScopeField),
	}
	for _, b := range set.Scoped(rule.ScopeBlock) {
		rc, err := NewReconstructor(b)
		if err != nil {
			return nil, errors.Errorf("creating reconstructor: %w", err)
		}
		r.blocks = append(r.blocks, rc)
	}
	return r, nil
}

// Rewrite applies the pipeline to content. It never fails: constructs that
// cannot be fixed safely are left untouched and listed in Result.Warnings.
//
// A block still open at end of file freezes everything from its first line
// on: later stages do not see it, and when no stage changed the line count
// the frozen lines are emitted exactly as they were read.
func (r *Rewriter) Rewrite(content []byte) *Result {
	result := &Result{
		Original: content,
		Modified: content,
	}

	original := string(content)

	head, n := Substitute(original, r.lines)
	result.Replacements += n
	sameLines := strings.Count(head, "\n") == strings.Count(original, "\n")

	var tail string
	frozen := 0
	for _, rc := range r.blocks {
		var err error
		head, n, err = rc.Reconstruct(head)
		result.Replacements += n
		if err == nil {
			continue
		}
		result.Warnings = append(result.Warnings, err)

		var ute *UnterminatedBlockError
		if errors.As(err, &ute) {
			var rest string
			head, rest = splitAtLine(head, ute.Line)
			tail = rest + tail
			frozen = ute.Line
		}
	}

	var warnings []error
	head, n, warnings = NormalizeCalls(head, r.calls)
	result.Replacements += n
	result.Warnings = append(result.Warnings, warnings...)

	head, n = Substitute(head, r.fields)
	result.Replacements += n

	if frozen > 0 && sameLines {
		_, tail = splitAtLine(original, frozen)
	}

	if current := head + tail; current != original {
		result.Changed = true
		result.Modified = []byte(current)
	}
	return result
}

// splitAtLine splits content before line n (1-based).
func splitAtLine(content string, n int) (string, string) {
	idx := 0
	for i := 1; i < n; i++ {
		j := strings.IndexByte(content[idx:], '\n')
		if j < 0 {
			return content, ""
		}
		idx += j + 1
	}
	return content[:idx], content[idx:]
}

// ReplaceText implements TextRewriter.ReplaceText
func (r *Rewriter) ReplaceText(ctx context.Context, content io.Reader) (*Result, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := r.Rewrite(data)

	zerolog.Ctx(ctx).Debug().
		Bool("changed", result.Changed).
		Int("replacements", result.Replacements).
		Int("warnings", len(result.Warnings)).
		Msg("rewrote content")

	return result, nil
}
