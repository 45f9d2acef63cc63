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

	"github.com/walteh/fixrc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

type scanState int

const (
	stateOutside scanState = iota
	stateCollecting
)

// 🧱 Reconstructor turns a broken multi-line construct into a commented-out
// copy of itself. It is driven by a single block rule.
type Reconstructor struct {
	rule rule.PatternRule
}

// NewReconstructor builds a reconstructor for a compiled block rule.
func NewReconstructor(r rule.PatternRule) (*Reconstructor, error) {
	if r.Scope != rule.ScopeBlock {
		return nil, errors.Errorf("rule %s: expected %s scope, got %s", r.Name, rule.ScopeBlock, r.Scope)
	}
	r, err := r.Compile()
	if err != nil {
		return nil, err
	}
	return &Reconstructor{rule: r}, nil
}

// collected is the buffer owned by the collecting state
type collected struct {
	startLine int // 0-based
	indent    string
	raw       []string
	neutral   []string
}

// 🔄 Reconstruct scans content once, line by line, and returns the rewritten
// content and the number of blocks neutralized.
//
// A block opens on a line containing the start marker that does not already
// end with the inline terminator, and closes on the first line ending with
// the end terminator. Every line of a closed block is emitted neutralized and
// in order. If the file ends inside a block the buffered lines are emitted
// unchanged and an *UnterminatedBlockError is returned alongside the output.
func (r *Reconstructor) Reconstruct(content string) (string, int, error) {
	if !strings.Contains(content, r.rule.Start) {
		return content, 0, nil
	}

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	state := stateOutside
	var buf collected
	blocks := 0

	for i, line := range lines {
		body, cr := splitCR(line)
		trimmed := strings.TrimSpace(body)

		if state == stateOutside {
			if !strings.Contains(body, r.rule.Start) || strings.HasSuffix(trimmed, r.rule.Inline) {
				out = append(out, line)
				continue
			}
			state = stateCollecting
			buf = collected{startLine: i, indent: leadingSpace(body)}
		}

		buf.raw = append(buf.raw, line)
		buf.neutral = append(buf.neutral, r.neutralize(buf.indent, trimmed)+cr)

		if strings.HasSuffix(trimmed, r.rule.End) {
			out = append(out, buf.neutral...)
			blocks++
			state = stateOutside
			buf = collected{}
		}
	}

	var err error
	if state == stateCollecting {
		out = append(out, buf.raw...)
		err = &UnterminatedBlockError{Rule: r.rule.Name, Line: buf.startLine + 1}
	}

	if blocks == 0 {
		return content, 0, err
	}
	return strings.Join(out, "\n"), blocks, err
}

func (r *Reconstructor) neutralize(indent, trimmed string) string {
	if trimmed == "" {
		return indent + strings.TrimRight(r.rule.Prefix, " \t")
	}
	// one space after the marker goes with it
	body := strings.ReplaceAll(trimmed, r.rule.Start+" ", r.rule.Replace)
	return indent + r.rule.Prefix + strings.ReplaceAll(body, r.rule.Start, r.rule.Replace)
}

func splitCR(line string) (string, string) {
	if strings.HasSuffix(line, "\r") {
		return line[:len(line)-1], "\r"
	}
	return line, ""
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}
