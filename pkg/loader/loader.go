// Copyright 2025 venslabs
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

// Package loader discovers SPDX JSON documents on disk and parses them
// into inputs for the validation engine. It is deliberately thin: every
// per-file problem becomes a load error on the input, so the engine can
// report it next to the documents that did load.
package loader

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/venslabs/sbomcheck/pkg/check"
)

// Extension is the filename suffix that marks a file as an SPDX JSON
// document.
const Extension = ".spdx.json"

// Directory reads every regular file in root (non-recursively, in name
// order) and returns one input per file. Files without the SPDX extension
// and files that are not valid JSON become inputs with a load error; only
// an unreadable directory is an error.
func Directory(root string) ([]check.Input, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %q: %w", root, err)
	}
	var inputs []check.Input
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		inputs = append(inputs, File(filepath.Join(root, entry.Name())))
	}
	return inputs, nil
}

// File loads a single document. The input's ID is the file's base name.
func File(path string) check.Input {
	name := filepath.Base(path)
	if !strings.HasSuffix(strings.ToLower(name), Extension) {
		slog.Warn("Skipping file without SPDX extension", "file", path)
		return check.Input{ID: name, LoadErr: fmt.Errorf("file %q is not recognized; SPDX JSON files must end with %q", name, Extension)}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return check.Input{ID: name, LoadErr: fmt.Errorf("failed to read file: %w", err)}
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return check.Input{ID: name, LoadErr: fmt.Errorf("not valid JSON: %w", err)}
	}
	slog.Debug("Loaded SPDX document", "file", path)
	return check.Input{ID: name, Value: v}
}
