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

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/venslabs/sbomcheck/pkg/policyconfig"
	"github.com/venslabs/sbomcheck/pkg/spdx"
)

// Input is one document handed to the engine by the external loader: an
// identifier plus the already-parsed JSON value, or the error that kept the
// loader from producing one. Load failures are surfaced in the summary as
// unreadable documents, never dropped.
type Input struct {
	ID      string
	Value   any
	LoadErr error
}

// Options selects which rule sets run and how the run is executed.
type Options struct {
	// Specification enables the SPDX 2.3 conformance rules.
	Specification bool
	// Policy enables the minimum-required-values rules.
	Policy bool
	// Jobs bounds how many documents are validated concurrently.
	// Zero or negative means sequential.
	Jobs int
	// FailOn is the severity threshold for Failed on the summary.
	FailOn Severity
}

// ConfigurationError marks a run that was aborted before any document was
// evaluated because its configuration cannot produce meaningful results.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

// Run validates every input independently and aggregates one report per
// document into a RunSummary, in submission order regardless of completion
// order. Only a ConfigurationError aborts the run; per-document failures of
// any kind become report entries and never disturb sibling documents.
//
// Documents are evaluated concurrently up to Options.Jobs. Cancellation is
// cooperative and checked between documents: a document that started
// evaluating finishes.
func Run(ctx context.Context, inputs []Input, policy *policyconfig.Config, opts Options) (*RunSummary, error) {
	if opts.Policy {
		if policy == nil {
			return nil, &ConfigurationError{Reason: "policy rules enabled but no policy supplied"}
		}
		if err := policy.Validate(); err != nil {
			return nil, &ConfigurationError{Reason: err.Error()}
		}
		if err := validatePolicyFields(policy); err != nil {
			return nil, &ConfigurationError{Reason: err.Error()}
		}
	}
	switch opts.FailOn {
	case "", SeveritySpecification, SeverityPolicy:
	default:
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown fail-on severity %q", opts.FailOn)}
	}

	reports := make([]ValidationReport, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	} else {
		g.SetLimit(1)
	}
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g.Go(func() error {
			reports[i] = validateDocument(in, policy, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &RunSummary{Status: StatusPass, Documents: reports}
	for i := range reports {
		if reports[i].Status != StatusPass {
			summary.Status = StatusFail
			break
		}
	}
	return summary, nil
}

// validateDocument walks one document through the full pipeline:
// Loaded -> Resolved -> RuleEvaluated -> Reported. Resolution never fails;
// lookup misses surface later as rule violations.
func validateDocument(in Input, policy *policyconfig.Config, opts Options) ValidationReport {
	report := ValidationReport{DocumentID: in.ID, Violations: []Violation{}}
	if in.LoadErr != nil {
		report.Status = StatusUnreadable
		report.LoadError = in.LoadErr.Error()
		return report
	}

	doc, issues := spdx.Decode(in.Value)
	for _, issue := range issues {
		report.Violations = append(report.Violations, specViolation(CodeStructure, "", issue.Field, issue.Message))
	}
	if doc != nil {
		idx, dupes := NewIndex(doc)
		if opts.Specification {
			report.Violations = append(report.Violations, dupes...)
			report.Violations = append(report.Violations, evaluateSpecification(doc, idx)...)
		}
		if opts.Policy {
			report.Violations = append(report.Violations, evaluatePolicy(doc, policy)...)
		}
	}

	if len(report.Violations) == 0 {
		report.Status = StatusPass
	} else {
		report.Status = StatusFail
	}
	return report
}
