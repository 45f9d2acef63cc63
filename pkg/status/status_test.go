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

package status

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return New(dir, &logger), dir
}

func TestManager_FileOperations(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, dir string)
		op          func(t *testing.T, mgr *Manager) error
		check       func(t *testing.T, dir string)
		errContains string
	}{
		{
			name: "atomic_write_replaces_content",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rs"), []byte("old"), 0644))
			},
			op: func(t *testing.T, mgr *Manager) error {
				return mgr.WriteFileAtomic(context.Background(), "a.rs", []byte("new"))
			},
			check: func(t *testing.T, dir string) {
				got, err := os.ReadFile(filepath.Join(dir, "a.rs"))
				require.NoError(t, err)
				assert.Equal(t, "new", string(got), "content should be replaced")

				entries, err := os.ReadDir(dir)
				require.NoError(t, err)
				assert.Len(t, entries, 1, "no temp file should be left behind")
			},
		},
		{
			name: "atomic_write_keeps_mode",
			setup: func(t *testing.T, dir string) {
				if runtime.GOOS == "windows" {
					t.Skip("permission bits are not portable")
				}
				require.NoError(t, os.WriteFile(filepath.Join(dir, "run.rs"), []byte("old"), 0600))
			},
			op: func(t *testing.T, mgr *Manager) error {
				return mgr.WriteFileAtomic(context.Background(), "run.rs", []byte("new"))
			},
			check: func(t *testing.T, dir string) {
				info, err := os.Stat(filepath.Join(dir, "run.rs"))
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "mode should be preserved")
			},
		},
		{
			name: "atomic_write_missing_dir",
			op: func(t *testing.T, mgr *Manager) error {
				return mgr.WriteFileAtomic(context.Background(), "nope/a.rs", []byte("x"))
			},
			errContains: "creating temp file",
		},
		{
			name: "backup_copies_file",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "b.rs"), []byte("original"), 0644))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "b.rs.bak"), []byte("stale backup"), 0644))
			},
			op: func(t *testing.T, mgr *Manager) error {
				return mgr.BackupFile(context.Background(), "b.rs")
			},
			check: func(t *testing.T, dir string) {
				got, err := os.ReadFile(filepath.Join(dir, "b.rs"+BackupSuffix))
				require.NoError(t, err)
				assert.Equal(t, "original", string(got), "backup should hold the current content")
			},
		},
		{
			name: "backup_missing_file_is_noop",
			op: func(t *testing.T, mgr *Manager) error {
				return mgr.BackupFile(context.Background(), "missing.rs")
			},
			check: func(t *testing.T, dir string) {
				_, err := os.Stat(filepath.Join(dir, "missing.rs"+BackupSuffix))
				assert.True(t, os.IsNotExist(err), "no backup should be created")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, dir := newTestManager(t)
			if tt.setup != nil {
				tt.setup(t, dir)
			}

			err := tt.op(t, mgr)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, dir)
			}
		})
	}
}

func TestManager_ReadFile(t *testing.T) {
	mgr, dir := newTestManager(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "lib.rs"), []byte("fn x() {}"), 0644))

	got, err := mgr.ReadFile(context.Background(), filepath.Join("src", "lib.rs"))
	require.NoError(t, err)
	assert.Equal(t, "fn x() {}", string(got))

	_, err = mgr.ReadFile(context.Background(), "missing.rs")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestManager_Tracking(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	mgr.StartOperation(ctx, 4)
	mgr.TrackFile(ctx, "c.rs", FileInfo{Status: StatusUnchanged})
	mgr.TrackFile(ctx, "a.rs", FileInfo{Status: StatusModified, Replacements: 3, Warnings: []error{errors.New("w")}})
	mgr.TrackFile(ctx, "b.rs", FileInfo{Status: StatusFailed, Error: errors.New("boom")})
	mgr.TrackFile(ctx, "d.rs", FileInfo{Status: StatusModified, Replacements: 1})
	for i := 0; i < 4; i++ {
		mgr.UpdateProgress(ctx)
	}
	mgr.FinishOperation(ctx)

	files := mgr.ListFiles(ctx)
	require.Len(t, files, 4)
	assert.Equal(t, "a.rs", files[0].Path, "files should be sorted by path")
	assert.Equal(t, "d.rs", files[3].Path, "files should be sorted by path")

	info, err := mgr.GetFileInfo(ctx, "b.rs")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, info.Status)
	assert.EqualError(t, info.Error, "boom")

	_, err = mgr.GetFileInfo(ctx, "zzz.rs")
	assert.Error(t, err)

	sum := mgr.Summary(ctx)
	assert.Equal(t, Summary{
		Total:        4,
		Modified:     2,
		Unchanged:    1,
		Failed:       1,
		Replacements: 4,
		Warned:       []string{"a.rs"},
	}, sum)
}

func TestManager_ConcurrentTracking(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mgr.TrackFile(ctx, filepath.Join("dir", string(rune('a'+i%26))+string(rune('a'+i/26))+".rs"), FileInfo{Status: StatusModified, Replacements: 1})
			mgr.UpdateProgress(ctx)
		}(i)
	}
	wg.Wait()

	sum := mgr.Summary(ctx)
	assert.Equal(t, 50, sum.Total)
	assert.Equal(t, 50, sum.Replacements)
}

func TestFileFormatter(t *testing.T) {
	f := NewDefaultFileFormatter()

	assert.Equal(t, "📝 Fixed a.rs (2 replacements)", f.FormatFileOperation(FileInfo{Path: "a.rs", Status: StatusModified, Replacements: 2}))
	assert.Equal(t, "👍 Unchanged b.rs ⚠️  1 warnings", f.FormatFileOperation(FileInfo{Path: "b.rs", Status: StatusUnchanged, Warnings: []error{errors.New("x")}}))
	assert.Equal(t, "❌ Failed c.rs", f.FormatFileOperation(FileInfo{Path: "c.rs", Status: StatusFailed}))

	assert.Equal(t, "⏳ Progress: 1/4 (25%)", f.FormatProgress(1, 4))
	assert.Equal(t, "✅ Progress: 4/4 (100%)", f.FormatProgress(4, 4))
	assert.Equal(t, "✅ Progress: 0/0 (0%)", f.FormatProgress(0, 0))

	assert.Equal(t, "❌ Error in a.rs: boom", f.FormatError("a.rs", errors.New("boom")))
	assert.Empty(t, f.FormatError("a.rs", nil))
}

func TestFileStatus_String(t *testing.T) {
	assert.Equal(t, "unchanged", StatusUnchanged.String())
	assert.Equal(t, "modified", StatusModified.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", StatusUnknown.String())
}
