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
	"fmt"
)

// ⚠️ UnterminatedBlockError is reported when a block construct is still open
// at end of file. The buffered lines are left exactly as they were.
type UnterminatedBlockError struct {
	Rule string // block rule name
	Line int    // 1-based line of the start marker
}

func (e *UnterminatedBlockError) Error() string {
	return fmt.Sprintf("%s: unterminated block starting at line %d", e.Rule, e.Line)
}

// ⚠️ UnbalancedDelimiterError is reported when a call's argument list cannot
// be delimited. The call is left exactly as it was.
type UnbalancedDelimiterError struct {
	Rule   string // arglist rule name, empty when called directly
	Line   int    // 1-based line of the opening delimiter, 0 when unknown
	Reason string
}

func (e *UnbalancedDelimiterError) Error() string {
	if e.Rule == "" {
		return "unbalanced delimiters: " + e.Reason
	}
	return fmt.Sprintf("%s: unbalanced delimiters at line %d: %s", e.Rule, e.Line, e.Reason)
}
