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
	"io"
	"os"
	"sort"

	"github.com/aquasecurity/table"
	"github.com/aquasecurity/tml"

	"github.com/venslabs/sbomcheck/pkg/check"
)

type consoleTableOutputHandler struct {
	w io.Writer
	s *check.RunSummary
}

// NewConsoleTableOutputHandler returns an OutputHandler that renders the
// summary grouped by document: a one-line verdict per document, and for
// failing documents a table of violations sorted specification-first while
// preserving entity appearance order within each severity.
func NewConsoleTableOutputHandler(w io.Writer) OutputHandler {
	if w == nil {
		w = os.Stdout
	}
	return &consoleTableOutputHandler{w: w}
}

func (h *consoleTableOutputHandler) HandleSummary(s *check.RunSummary) error {
	h.s = s
	return nil
}

func (h *consoleTableOutputHandler) Close() error {
	if h.s == nil {
		return nil
	}
	for i := range h.s.Documents {
		if err := h.renderDocument(&h.s.Documents[i]); err != nil {
			return err
		}
	}
	return tml.Fprintf(h.w, "\nRun status: %s\n", coloredStatus(h.s.Status))
}

func (h *consoleTableOutputHandler) renderDocument(r *check.ValidationReport) error {
	switch {
	case r.Status == check.StatusUnreadable:
		return tml.Fprintf(h.w, "\n<red><bold>%s</bold></red> could not be read: %s\n", r.DocumentID, r.LoadError)
	case len(r.Violations) == 0:
		return tml.Fprintf(h.w, "\n<green><bold>%s</bold></green> is compliant\n", r.DocumentID)
	}

	if err := tml.Fprintf(h.w, "\n<yellow><bold>%s</bold></yellow> has %d violation(s)\n", r.DocumentID, len(r.Violations)); err != nil {
		return err
	}
	violations := make([]check.Violation, len(r.Violations))
	copy(violations, r.Violations)
	sort.SliceStable(violations, func(i, j int) bool {
		return severityRank(violations[i].Severity) < severityRank(violations[j].Severity)
	})

	t := table.New(h.w)
	t.SetHeaders("Rule", "Severity", "SPDXID", "Field", "Message")
	for _, v := range violations {
		t.AddRow(v.RuleCode, coloredSeverity(v.Severity), v.EntitySPDXID, v.FieldPath, v.Message)
	}
	t.Render()
	return nil
}

func severityRank(s check.Severity) int {
	if s == check.SeveritySpecification {
		return 0
	}
	return 1
}

func coloredSeverity(s check.Severity) string {
	if s == check.SeveritySpecification {
		return tml.Sprintf("<red>%s</red>", string(s))
	}
	return tml.Sprintf("<yellow>%s</yellow>", string(s))
}

func coloredStatus(s check.Status) string {
	if s == check.StatusPass {
		return tml.Sprintf("<green><bold>%s</bold></green>", string(s))
	}
	return tml.Sprintf("<red><bold>%s</bold></red>", string(s))
}
