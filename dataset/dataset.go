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

// Package dataset loads prediction and ground-truth record sets from disk.
//
// Supported formats are dispatched on the file extension: ".json" holds a
// single array of objects, ".ndjson" and ".jsonl" hold one object per line,
// and ".yaml"/".yml" hold a sequence of mappings. An optional JSON schema
// validates every record at load time.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"gopkg.in/yaml.v3"

	"google.golang.org/modeleval"
)

// Option configures record loading.
type Option func(*loader)

// WithSchema validates every loaded record against the schema. A record that
// fails validation aborts the load with an error naming its position.
func WithSchema(schema *jsonschema.Schema) Option {
	return func(l *loader) { l.schema = schema }
}

type loader struct {
	schema *jsonschema.Schema
}

// LoadRecords reads the records in the file at path. The format is chosen by
// extension; an unknown extension is an error.
func LoadRecords(path string, opts ...Option) ([]modeleval.Record, error) {
	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}

	var resolved *jsonschema.Resolved
	if l.schema != nil {
		var err error
		resolved, err = l.schema.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("resolve schema: %w", err)
		}
	}

	var records []modeleval.Record
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		records, err = loadJSON(path)
	case ".ndjson", ".jsonl":
		records, err = loadNDJSON(path)
	case ".yaml", ".yml":
		records, err = loadYAML(path)
	default:
		return nil, fmt.Errorf("%w: unsupported dataset extension %q", modeleval.ErrInvalidInput, ext)
	}
	if err != nil {
		return nil, err
	}

	if resolved != nil {
		for i, r := range records {
			if err := resolved.Validate(map[string]any(r)); err != nil {
				return nil, fmt.Errorf("%s: record %d: %w", path, i, err)
			}
		}
	}
	return records, nil
}

// LoadSchema reads a JSON schema document from path.
func LoadSchema(path string) (*jsonschema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("%s: parse schema: %w", path, err)
	}
	return &schema, nil
}

func loadJSON(path string) ([]modeleval.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []modeleval.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%s: parse JSON array: %w", path, err)
	}
	return records, nil
}

func loadNDJSON(path string) ([]modeleval.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []modeleval.Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var r modeleval.Record
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, lineNo, err)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func loadYAML(path string) ([]modeleval.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []modeleval.Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%s: parse YAML sequence: %w", path, err)
	}
	return records, nil
}
