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

package outputhandler

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/venslabs/sbomcheck/pkg/check"
)

var csvHeader = []string{"Rule", "Severity", "SPDXID", "Field", "Message"}

type csvExportOutputHandler struct {
	dir string
	s   *check.RunSummary
}

// NewCSVExportOutputHandler returns an OutputHandler that writes one
// <document>_exceptions.csv file into dir for every document that did not
// pass. Unreadable documents get a header-only file, so the set of CSV
// files always matches the set of non-passing documents.
func NewCSVExportOutputHandler(dir string) OutputHandler {
	if dir == "" {
		dir = "."
	}
	return &csvExportOutputHandler{dir: dir}
}

func (h *csvExportOutputHandler) HandleSummary(s *check.RunSummary) error {
	h.s = s
	return nil
}

func (h *csvExportOutputHandler) Close() error {
	if h.s == nil {
		return nil
	}
	for i := range h.s.Documents {
		r := &h.s.Documents[i]
		if r.Status == check.StatusPass {
			continue
		}
		if err := h.writeDocument(r); err != nil {
			return err
		}
	}
	return nil
}

func (h *csvExportOutputHandler) writeDocument(r *check.ValidationReport) error {
	path := filepath.Join(h.dir, r.DocumentID+"_exceptions.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV export: %w", err)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, v := range r.Violations {
		row := []string{
			v.RuleCode,
			string(v.Severity),
			v.EntitySPDXID,
			v.FieldPath,
			strings.ReplaceAll(v.Message, "\n", " "),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
