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
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"google.golang.org/modeleval"
)

// runJSON stores a serialized RunResult document as a JSON text column,
// implementing driver.Valuer and sql.Scanner.
type runJSON json.RawMessage

func (j runJSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *runJSON) Scan(value any) error {
	if value == nil {
		*j = runJSON("null")
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = runJSON(append([]byte(nil), v...))
	case string:
		*j = runJSON(v)
	default:
		return fmt.Errorf("scan run payload: unsupported type %T", value)
	}
	return nil
}

func (runJSON) GormDataType() string {
	return "text"
}

// runRow is the relational shape of a stored run: indexed columns for the
// fields queries filter on, the full document as a payload column.
type runRow struct {
	RunID     string    `gorm:"primaryKey;column:run_id"`
	Suite     string    `gorm:"index"`
	Status    string    `gorm:"index"`
	CreatedAt time.Time `gorm:"index"`
	Payload   runJSON
}

func (runRow) TableName() string {
	return "runs"
}

// SQLite is a Storage backed by a SQLite database file.
type SQLite struct {
	db *gorm.DB
}

var _ Storage = (*SQLite)(nil)

// NewSQLite opens (and migrates) the SQLite database at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", path, err)
	}
	if err := db.AutoMigrate(&runRow{}); err != nil {
		return nil, fmt.Errorf("migrate runs table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Save implements [Storage].
func (s *SQLite) Save(ctx context.Context, result *modeleval.RunResult) error {
	if err := validateRun(result); err != nil {
		return err
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode run %q: %w", result.RunID, err)
	}

	row := runRow{
		RunID:     result.RunID,
		Suite:     result.Suite,
		Status:    string(result.Status),
		CreatedAt: result.CreatedAt,
		Payload:   runJSON(payload),
	}
	err = s.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: run %q", modeleval.ErrAlreadyExists, result.RunID)
	}
	return err
}

// Get implements [Storage].
func (s *SQLite) Get(ctx context.Context, runID string) (*modeleval.RunResult, error) {
	var row runRow
	err := s.db.WithContext(ctx).First(&row, "run_id = ?", runID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: run %q", modeleval.ErrNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return decodeRow(&row)
}

// List implements [Storage].
func (s *SQLite) List(ctx context.Context) ([]*modeleval.RunResult, error) {
	var rows []runRow
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*modeleval.RunResult, 0, len(rows))
	for i := range rows {
		result, err := decodeRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, nil
}

// Delete implements [Storage].
func (s *SQLite) Delete(ctx context.Context, runID string) error {
	res := s.db.WithContext(ctx).Delete(&runRow{}, "run_id = ?", runID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: run %q", modeleval.ErrNotFound, runID)
	}
	return nil
}

func decodeRow(row *runRow) (*modeleval.RunResult, error) {
	var result modeleval.RunResult
	if err := json.Unmarshal([]byte(row.Payload), &result); err != nil {
		return nil, fmt.Errorf("decode run %q: %w", row.RunID, err)
	}
	return &result, nil
}
