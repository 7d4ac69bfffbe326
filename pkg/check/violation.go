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

// Package check is the validation engine: it indexes a decoded SPDX
// document, evaluates the SPDX 2.3 specification rule set and a configurable
// policy rule set against it, and aggregates the outcome of a whole run.
package check

// Severity separates violations of the SPDX specification itself from
// violations of an organization's minimum-required-values policy. Both count
// toward a failed document; they stay distinguishable for reporting.
type Severity string

const (
	SeveritySpecification Severity = "specification"
	SeverityPolicy        Severity = "policy"
)

// Rule codes of the specification rule set. Codes are stable: reports and
// downstream tooling key on them.
const (
	CodeStructure     = "spdx.structure"
	CodeDuplicateID   = "spdx.id.duplicate"
	CodeIDFormat      = "spdx.id.format"
	CodeRefUnresolved = "spdx.ref.unresolved"

	CodeDocVersion   = "spdx.doc.spdx_version"
	CodeDocLicense   = "spdx.doc.data_license"
	CodeDocID        = "spdx.doc.spdxid"
	CodeDocName      = "spdx.doc.name"
	CodeDocNamespace = "spdx.doc.namespace"
	CodeDocCreators  = "spdx.doc.creators"
	CodeDocCreated   = "spdx.doc.created"
	CodeDocDescribes = "spdx.doc.describes"

	CodePkgName             = "spdx.pkg.name"
	CodePkgDownloadLocation = "spdx.pkg.download_location"
	CodePkgActor            = "spdx.pkg.actor"
	CodePkgVerification     = "spdx.pkg.verification_code"

	CodeFileName     = "spdx.file.name"
	CodeFileChecksum = "spdx.file.checksum_sha1"
	CodeFileType     = "spdx.file.type"

	CodeSnippetFromFile = "spdx.snippet.from_file"

	CodeRelType = "spdx.rel.type"

	CodeLicenseSyntax     = "spdx.license.syntax"
	CodeLicenseRefMissing = "spdx.license.unresolved_ref"
	CodeExtractedID       = "spdx.extracted.license_id"
	CodeExtractedText     = "spdx.extracted.text"

	CodeChecksumAlgorithm = "spdx.checksum.algorithm"
	CodeChecksumValue     = "spdx.checksum.value"
)

// Violation is one failed rule evaluation. Violations are immutable values;
// their order within a report follows entity appearance order, then rule
// evaluation order.
type Violation struct {
	RuleCode     string   `json:"ruleCode"`
	Severity     Severity `json:"severity"`
	EntitySPDXID string   `json:"entitySpdxId,omitempty"`
	FieldPath    string   `json:"fieldPath,omitempty"`
	Message      string   `json:"message"`
}

func specViolation(code, spdxID, field, message string) Violation {
	return Violation{
		RuleCode:     code,
		Severity:     SeveritySpecification,
		EntitySPDXID: spdxID,
		FieldPath:    field,
		Message:      message,
	}
}

func policyViolation(code, spdxID, field, message string) Violation {
	return Violation{
		RuleCode:     code,
		Severity:     SeverityPolicy,
		EntitySPDXID: spdxID,
		FieldPath:    field,
		Message:      message,
	}
}
