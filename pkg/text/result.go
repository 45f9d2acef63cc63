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
)

// Result contains the outcome of rewriting one file
type Result struct {
	// Changed indicates if the content differs from the original
	Changed bool

	// Replacements is the number of rule applications that changed text
	Replacements int

	// Original is the content before rewriting
	Original []byte

	// Modified is the content after rewriting, equal to Original when nothing changed
	Modified []byte

	// Warnings holds the constructs that were detected but left as they were,
	// as *UnterminatedBlockError or *UnbalancedDelimiterError values
	Warnings []error
}

// HasWarnings reports whether some construct was left unfixed.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// TextRewriter defines the interface for whole-file rewriting
type TextRewriter interface {
	// Rewrite applies the full pipeline to content
	Rewrite(content []byte) *Result

	// ReplaceText reads content fully and rewrites it
	ReplaceText(ctx context.Context, content io.Reader) (*Result, error)
}
