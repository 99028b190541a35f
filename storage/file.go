// Copyright 2025 Google LLC
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

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"google.golang.org/modeleval"
)

// File is a Storage that keeps each run result as one JSON file in a
// directory, named <run-id>.json. It is safe for concurrent use within a
// single process.
type File struct {
	dir string
	mu  sync.Mutex
}

var _ Storage = (*File)(nil)

// NewFile creates a file store rooted at dir, creating the directory when
// needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create results directory: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(runID string) string {
	return filepath.Join(f.dir, runID+".json")
}

// Save implements [Storage].
func (f *File) Save(ctx context.Context, result *modeleval.RunResult) error {
	if err := validateRun(result); err != nil {
		return err
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run %q: %w", result.RunID, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	path := f.path(result.RunID)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: run %q", modeleval.ErrAlreadyExists, result.RunID)
	}
	return os.WriteFile(path, data, 0o644)
}

// Get implements [Storage].
func (f *File) Get(ctx context.Context, runID string) (*modeleval.RunResult, error) {
	data, err := os.ReadFile(f.path(runID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: run %q", modeleval.ErrNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	var result modeleval.RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode run %q: %w", runID, err)
	}
	return &result, nil
}

// List implements [Storage].
func (f *File) List(ctx context.Context) ([]*modeleval.RunResult, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}

	var out []*modeleval.RunResult
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		result, err := f.Get(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete implements [Storage].
func (f *File) Delete(ctx context.Context, runID string) error {
	err := os.Remove(f.path(runID))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: run %q", modeleval.ErrNotFound, runID)
	}
	return err
}
