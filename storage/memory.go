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
	"fmt"
	"sort"
	"sync"

	"google.golang.org/modeleval"
)

// Memory is an in-memory Storage. It is safe for concurrent use and stores
// defensive copies, so results cannot be mutated after saving.
type Memory struct {
	mu   sync.RWMutex
	runs map[string]*modeleval.RunResult
}

var _ Storage = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{runs: make(map[string]*modeleval.RunResult)}
}

// Save implements [Storage].
func (m *Memory) Save(ctx context.Context, result *modeleval.RunResult) error {
	if err := validateRun(result); err != nil {
		return err
	}
	stored, err := cloneRun(result)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[result.RunID]; ok {
		return fmt.Errorf("%w: run %q", modeleval.ErrAlreadyExists, result.RunID)
	}
	m.runs[result.RunID] = stored
	return nil
}

// Get implements [Storage].
func (m *Memory) Get(ctx context.Context, runID string) (*modeleval.RunResult, error) {
	m.mu.RLock()
	stored, ok := m.runs[runID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: run %q", modeleval.ErrNotFound, runID)
	}
	return cloneRun(stored)
}

// List implements [Storage].
func (m *Memory) List(ctx context.Context) ([]*modeleval.RunResult, error) {
	m.mu.RLock()
	out := make([]*modeleval.RunResult, 0, len(m.runs))
	for _, stored := range m.runs {
		r, err := cloneRun(stored)
		if err != nil {
			m.mu.RUnlock()
			return nil, err
		}
		out = append(out, r)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete implements [Storage].
func (m *Memory) Delete(ctx context.Context, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[runID]; !ok {
		return fmt.Errorf("%w: run %q", modeleval.ErrNotFound, runID)
	}
	delete(m.runs, runID)
	return nil
}
