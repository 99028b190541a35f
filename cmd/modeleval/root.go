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

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"google.golang.org/modeleval"
	"google.golang.org/modeleval/storage"
)

type rootFlags struct {
	verbose    bool
	db         string
	resultsDir string
}

var rootFlagValues rootFlags

var rootCmd = &cobra.Command{
	Use:          "modeleval",
	Short:        "Evaluate model predictions against ground truth.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if rootFlagValues.verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootFlagValues.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootFlagValues.db, "db", "", "SQLite database file for run results")
	rootCmd.PersistentFlags().StringVar(&rootFlagValues.resultsDir, "results-dir", "", "Directory for run result JSON files")
}

// openStorage builds the result store selected by the persistent flags.
// required decides whether having no store configured is an error.
func (f *rootFlags) openStorage(required bool) (storage.Storage, error) {
	switch {
	case f.db != "" && f.resultsDir != "":
		return nil, fmt.Errorf("%w: --db and --results-dir are mutually exclusive", modeleval.ErrInvalidInput)
	case f.db != "":
		return storage.NewSQLite(f.db)
	case f.resultsDir != "":
		return storage.NewFile(f.resultsDir)
	case required:
		return nil, fmt.Errorf("%w: either --db or --results-dir is required", modeleval.ErrInvalidInput)
	}
	return nil, nil
}
