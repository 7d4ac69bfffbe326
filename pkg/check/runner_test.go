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
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venslabs/sbomcheck/pkg/policyconfig"
)

// conformantJSON is the JSON form of a document that passes the full
// specification rule set.
const conformantJSON = `{
	"spdxVersion": "SPDX-2.3",
	"dataLicense": "CC0-1.0",
	"SPDXID": "SPDXRef-DOCUMENT",
	"name": "conformant",
	"documentNamespace": "https://example.com/spdxdocs/conformant",
	"creationInfo": {
		"creators": ["Tool: sbomcheck-fixture"],
		"created": "2024-01-15T10:00:00Z",
		"licenseListVersion": "3.22"
	},
	"packages": [{
		"SPDXID": "SPDXRef-Package-1",
		"name": "libexample",
		"versionInfo": "1.0.0",
		"supplier": "Organization: Example Corp",
		"downloadLocation": "https://example.com/libexample.tar.gz",
		"licenseConcluded": "MIT",
		"licenseDeclared": "MIT",
		"copyrightText": "Copyright Example Corp"
	}],
	"documentDescribes": ["SPDXRef-Package-1"]
}`

func parsedInput(t *testing.T, id, raw string) Input {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return Input{ID: id, Value: v}
}

func withoutKey(t *testing.T, raw, key string) string {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	delete(m, key)
	b, err := json.Marshal(m)
	require.NoError(t, err)
	return string(b)
}

func specOnly() Options {
	return Options{Specification: true, Jobs: 1}
}

func TestRun_ConformantAndMissingDataLicense(t *testing.T) {
	inputs := []Input{
		parsedInput(t, "good.spdx.json", conformantJSON),
		parsedInput(t, "bad.spdx.json", withoutKey(t, conformantJSON, "dataLicense")),
	}
	summary, err := Run(context.Background(), inputs, nil, specOnly())
	require.NoError(t, err)

	assert.Equal(t, StatusFail, summary.Status)
	require.Len(t, summary.Documents, 2)

	good := summary.Documents[0]
	assert.Equal(t, "good.spdx.json", good.DocumentID)
	assert.Equal(t, StatusPass, good.Status)
	assert.Empty(t, good.Violations)

	bad := summary.Documents[1]
	assert.Equal(t, StatusFail, bad.Status)
	require.Len(t, bad.Violations, 1)
	assert.Equal(t, CodeDocLicense, bad.Violations[0].RuleCode)
	assert.Equal(t, "dataLicense", bad.Violations[0].FieldPath)
}

func TestRun_UnresolvedLicenseRefDoesNotCrash(t *testing.T) {
	raw := `{
		"spdxVersion": "SPDX-2.3",
		"dataLicense": "CC0-1.0",
		"SPDXID": "SPDXRef-DOCUMENT",
		"name": "orphan-ref",
		"documentNamespace": "https://example.com/spdxdocs/orphan-ref",
		"creationInfo": {
			"creators": ["Tool: sbomcheck-fixture"],
			"created": "2024-01-15T10:00:00Z"
		},
		"packages": [{
			"SPDXID": "SPDXRef-Package-1",
			"name": "libexample",
			"supplier": "Organization: Example Corp",
			"downloadLocation": "NOASSERTION",
			"licenseConcluded": "LicenseRef-Foo",
			"licenseDeclared": "NOASSERTION",
			"copyrightText": "NOASSERTION"
		}],
		"documentDescribes": ["SPDXRef-Package-1"]
	}`
	summary, err := Run(context.Background(), []Input{parsedInput(t, "doc.spdx.json", raw)}, nil, specOnly())
	require.NoError(t, err)

	report := summary.Documents[0]
	require.Len(t, report.Violations, 1)
	assert.Equal(t, CodeLicenseRefMissing, report.Violations[0].RuleCode)
	assert.Contains(t, report.Violations[0].Message, "LicenseRef-Foo")
}

func TestRun_LoadErrorIsReportedAndSiblingsEvaluate(t *testing.T) {
	inputs := []Input{
		{ID: "broken.spdx.json", LoadErr: errors.New("not valid JSON: unexpected end of input")},
		parsedInput(t, "good.spdx.json", conformantJSON),
	}
	summary, err := Run(context.Background(), inputs, nil, specOnly())
	require.NoError(t, err)

	assert.Equal(t, StatusFail, summary.Status)
	require.Len(t, summary.Documents, 2)
	assert.Equal(t, StatusUnreadable, summary.Documents[0].Status)
	assert.Contains(t, summary.Documents[0].LoadError, "not valid JSON")
	assert.Equal(t, StatusPass, summary.Documents[1].Status)
}

func TestRun_PolicyOnlyWithEmptyConfig(t *testing.T) {
	inputs := []Input{
		parsedInput(t, "good.spdx.json", conformantJSON),
		parsedInput(t, "bad.spdx.json", withoutKey(t, conformantJSON, "dataLicense")),
	}
	summary, err := Run(context.Background(), inputs, &policyconfig.Config{}, Options{Policy: true, Jobs: 1})
	require.NoError(t, err)

	// Specification defects are invisible to a policy-only run.
	assert.Equal(t, StatusPass, summary.Status)
	for _, report := range summary.Documents {
		assert.Empty(t, report.Violations)
	}
}

func TestRun_PolicyViolationsCountTowardFailure(t *testing.T) {
	raw := withoutKey(t, conformantJSON, "dataLicense")
	inputs := []Input{parsedInput(t, "doc.spdx.json", raw)}
	policy := &policyconfig.Config{
		Package: []policyconfig.FieldRule{{Field: "supplier", Check: policyconfig.CheckNonPlaceholder}},
	}
	summary, err := Run(context.Background(), inputs, policy, Options{Specification: true, Policy: true, Jobs: 1})
	require.NoError(t, err)

	report := summary.Documents[0]
	assert.Equal(t, StatusFail, report.Status)
	require.Len(t, report.Violations, 1) // supplier is populated, only the spec violation remains
	assert.Equal(t, SeveritySpecification, report.Violations[0].Severity)

	// The fail-on threshold only affects the exit signal, not the report.
	assert.True(t, summary.Failed(SeveritySpecification))
	assert.True(t, summary.Failed(SeverityPolicy))
}

func TestRun_FailOnThreshold(t *testing.T) {
	raw := `{
		"spdxVersion": "SPDX-2.3",
		"dataLicense": "CC0-1.0",
		"SPDXID": "SPDXRef-DOCUMENT",
		"name": "policy-gap",
		"documentNamespace": "https://example.com/spdxdocs/policy-gap",
		"creationInfo": {
			"creators": ["Tool: sbomcheck-fixture"],
			"created": "2024-01-15T10:00:00Z"
		},
		"packages": [{
			"SPDXID": "SPDXRef-Package-1",
			"name": "libexample",
			"supplier": "NOASSERTION",
			"downloadLocation": "NOASSERTION",
			"licenseConcluded": "NOASSERTION",
			"licenseDeclared": "NOASSERTION",
			"copyrightText": "NOASSERTION"
		}],
		"documentDescribes": ["SPDXRef-Package-1"]
	}`
	policy := &policyconfig.Config{
		Package: []policyconfig.FieldRule{{Field: "supplier", Check: policyconfig.CheckNonPlaceholder}},
	}
	summary, err := Run(context.Background(), []Input{parsedInput(t, "doc.spdx.json", raw)}, policy,
		Options{Specification: true, Policy: true, Jobs: 1})
	require.NoError(t, err)

	report := summary.Documents[0]
	require.Len(t, report.Violations, 1)
	assert.Equal(t, SeverityPolicy, report.Violations[0].Severity)

	// A document failing only policy rules passes a specification-level
	// threshold but fails the default one.
	assert.False(t, summary.Failed(SeveritySpecification))
	assert.True(t, summary.Failed(SeverityPolicy))
}

func TestRun_InvalidPolicyAbortsBeforeEvaluation(t *testing.T) {
	inputs := []Input{parsedInput(t, "good.spdx.json", conformantJSON)}

	tests := []struct {
		name   string
		policy *policyconfig.Config
	}{
		{name: "nil_policy", policy: nil},
		{
			name: "unknown_field",
			policy: &policyconfig.Config{
				Package: []policyconfig.FieldRule{{Field: "maintainer", Check: policyconfig.CheckRequired}},
			},
		},
		{
			name: "one_of_without_values",
			policy: &policyconfig.Config{
				Package: []policyconfig.FieldRule{{Field: "supplier", Check: policyconfig.CheckOneOf}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := Run(context.Background(), inputs, tt.policy, Options{Policy: true, Jobs: 1})
			assert.Nil(t, summary)
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestRun_NotAnObjectDocument(t *testing.T) {
	summary, err := Run(context.Background(), []Input{parsedInput(t, "list.spdx.json", `[1, 2, 3]`)}, nil, specOnly())
	require.NoError(t, err)

	report := summary.Documents[0]
	assert.Equal(t, StatusFail, report.Status)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, CodeStructure, report.Violations[0].RuleCode)
}

func TestRun_ConcurrentRunsKeepSubmissionOrder(t *testing.T) {
	var inputs []Input
	ids := []string{"a.spdx.json", "b.spdx.json", "c.spdx.json", "d.spdx.json", "e.spdx.json", "f.spdx.json"}
	for i, id := range ids {
		raw := conformantJSON
		if i%2 == 1 {
			raw = withoutKey(t, conformantJSON, "name")
		}
		inputs = append(inputs, parsedInput(t, id, raw))
	}
	summary, err := Run(context.Background(), inputs, nil, Options{Specification: true, Jobs: 4})
	require.NoError(t, err)

	require.Len(t, summary.Documents, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, summary.Documents[i].DocumentID)
		if i%2 == 1 {
			assert.Equal(t, StatusFail, summary.Documents[i].Status)
		} else {
			assert.Equal(t, StatusPass, summary.Documents[i].Status)
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	inputs := []Input{
		parsedInput(t, "bad.spdx.json", withoutKey(t, conformantJSON, "creationInfo")),
		parsedInput(t, "good.spdx.json", conformantJSON),
	}
	first, err := Run(context.Background(), inputs, policyconfig.Default(),
		Options{Specification: true, Policy: true, Jobs: 2})
	require.NoError(t, err)
	for range 10 {
		again, err := Run(context.Background(), inputs, policyconfig.Default(),
			Options{Specification: true, Policy: true, Jobs: 2})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, []Input{parsedInput(t, "good.spdx.json", conformantJSON)}, nil, specOnly())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_SummaryJSONShape(t *testing.T) {
	inputs := []Input{parsedInput(t, "bad.spdx.json", withoutKey(t, conformantJSON, "dataLicense"))}
	summary, err := Run(context.Background(), inputs, nil, specOnly())
	require.NoError(t, err)

	b, err := json.Marshal(summary)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))

	assert.Equal(t, "fail", decoded["status"])
	docs := decoded["documents"].([]any)
	doc := docs[0].(map[string]any)
	assert.Equal(t, "bad.spdx.json", doc["documentId"])
	violations := doc["violations"].([]any)
	v := violations[0].(map[string]any)
	for _, key := range []string{"ruleCode", "severity", "fieldPath", "message"} {
		assert.Contains(t, v, key)
	}
}
