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

package operation

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	ignore "github.com/sabhiram/go-gitignore"
	"gitlab.com/tozd/go/errors"
)

// directories that are never descended into
var skippedDirs = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
}

// 🚶 Walker lists the files under a root that a run should touch
type Walker struct {
	root      string
	include   []string
	ignore    []string
	gitignore *ignore.GitIgnore
}

// 🏭 NewWalker creates a walker. When useGitignore is set, the root's
// .gitignore (if any) is honoured as well as the ignore patterns.
func NewWalker(root string, include, ignorePatterns []string, useGitignore bool) (*Walker, error) {
	w := &Walker{
		root:    filepath.Clean(root),
		include: include,
		ignore:  ignorePatterns,
	}

	if useGitignore {
		path := filepath.Join(w.root, ".gitignore")
		if _, err := os.Stat(path); err == nil {
			gi, err := ignore.CompileIgnoreFile(path)
			if err != nil {
				return nil, errors.Errorf("compiling %s: %w", path, err)
			}
			w.gitignore = gi
		}
	}

	return w, nil
}

// Match reports whether rel, a slash-separated path relative to the root,
// is included and not ignored.
func (w *Walker) Match(rel string) bool {
	if w.ignored(rel) {
		return false
	}
	for _, pattern := range w.include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (w *Walker) ignored(rel string) bool {
	if w.gitignore != nil && w.gitignore.MatchesPath(rel) {
		return true
	}
	for _, pattern := range w.ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// 🔍 Walk returns every matching regular file as a slash-separated path
// relative to the root, sorted. Symlinks are not followed.
func (w *Walker) Walk(ctx context.Context) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	info, err := os.Stat(w.root)
	if err != nil {
		return nil, errors.Errorf("reading root: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("root %s is not a directory", w.root)
	}

	var files []string
	err = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == w.root {
			return nil
		}

		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if skippedDirs[d.Name()] || w.ignored(rel) {
				logger.Trace().Str("dir", rel).Msg("skipping directory")
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if w.Match(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", w.root, err)
	}

	sort.Strings(files)
	logger.Debug().Str("root", w.root).Int("files", len(files)).Msg("walked tree")
	return files, nil
}
