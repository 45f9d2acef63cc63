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
	"github.com/spf13/cobra"
	"github.com/walteh/fixrc/cmd/fixrc/opts"
)

func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [root]",
		Short: "Rewrite matching files in place",
		Long: `Run applies the rule sets to every matching file under root.
It will:
1. Apply line rules
2. Comment out broken multi-line blocks
3. Trim argument lists
4. Rewrite field accesses
5. Write each changed file back atomically`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rewriteTree(cmd, o, args, false)
		},
	}

	return cmd
}

func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [root]",
		Short: "Show what run would change",
		Long: `Check runs the same pipeline as run but never writes.
A unified diff is printed for every file that would change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rewriteTree(cmd, o, args, true)
		},
	}

	return cmd
}
