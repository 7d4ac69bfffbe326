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

package check

// Status classifies one document, or a whole run, after evaluation.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	// StatusUnreadable marks documents that never reached evaluation
	// because the loader could not produce parsed JSON for them.
	StatusUnreadable Status = "unreadable"
)

// ValidationReport is the evaluation outcome for a single document.
type ValidationReport struct {
	DocumentID string      `json:"documentId"`
	Status     Status      `json:"status"`
	LoadError  string      `json:"loadError,omitempty"`
	Violations []Violation `json:"violations"`
}

// Failed reports whether the document counts as failed at the given
// severity threshold. Unreadable documents always count.
func (r *ValidationReport) Failed(threshold Severity) bool {
	if r.Status == StatusUnreadable {
		return true
	}
	if threshold != SeveritySpecification {
		return len(r.Violations) > 0
	}
	for _, v := range r.Violations {
		if v.Severity == SeveritySpecification {
			return true
		}
	}
	return false
}

// RunSummary aggregates the reports of one validation run, in document
// submission order.
type RunSummary struct {
	Status    Status             `json:"status"`
	Documents []ValidationReport `json:"documents"`
}

// Failed reports whether the run as a whole fails at the given severity
// threshold, for exit-code purposes.
func (s *RunSummary) Failed(threshold Severity) bool {
	for i := range s.Documents {
		if s.Documents[i].Failed(threshold) {
			return true
		}
	}
	return false
}
