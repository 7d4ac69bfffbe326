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
	"fmt"
	"strings"
	"time"

	"github.com/venslabs/sbomcheck/pkg/spdx"
)

// SupportedVersions lists the SPDX versions this rule set encodes.
var SupportedVersions = []string{"SPDX-2.3"}

// createdLayout is the exact timestamp form required by clause 6.9.
const createdLayout = "2006-01-02T15:04:05Z"

// The specification rule set. Rules are pure functions over the document
// and its index; they never return errors and never panic on malformed
// input. Evaluation visits entities in appearance order and, within one
// entity, rules in registration order, which keeps the violation sequence
// deterministic across runs.
var (
	documentRules = []documentRule{
		{CodeDocVersion, checkDocVersion},
		{CodeDocLicense, checkDocDataLicense},
		{CodeDocID, checkDocID},
		{CodeDocName, checkDocName},
		{CodeDocNamespace, checkDocNamespace},
		{CodeDocCreators, checkDocCreators},
		{CodeDocCreated, checkDocCreated},
		{CodeDocDescribes, checkDocDescribes},
	}
	packageRules = []packageRule{
		{CodeIDFormat, checkPackageID},
		{CodePkgName, checkPackageName},
		{CodePkgDownloadLocation, checkPackageDownloadLocation},
		{CodePkgActor, checkPackageActors},
		{CodePkgVerification, checkPackageVerification},
		{CodeChecksumAlgorithm, checkPackageChecksums},
		{CodeLicenseSyntax, checkPackageLicenses},
	}
	fileRules = []fileRule{
		{CodeIDFormat, checkFileID},
		{CodeFileName, checkFileName},
		{CodeFileType, checkFileTypes},
		{CodeFileChecksum, checkFileChecksums},
		{CodeLicenseSyntax, checkFileLicenses},
	}
	snippetRules = []snippetRule{
		{CodeIDFormat, checkSnippetID},
		{CodeSnippetFromFile, checkSnippetFromFile},
		{CodeLicenseSyntax, checkSnippetLicenses},
	}
	extractedRules = []extractedRule{
		{CodeExtractedID, checkExtractedID},
		{CodeExtractedText, checkExtractedText},
	}
	relationshipRules = []relationshipRule{
		{CodeRelType, checkRelationshipType},
		{CodeRefUnresolved, checkRelationshipEndpoints},
	}
)

type documentRule struct {
	code  string
	check func(*spdx.Document, *Index) []Violation
}

type packageRule struct {
	code  string
	check func(*spdx.Package, *Index) []Violation
}

type fileRule struct {
	code  string
	check func(*spdx.File, *Index) []Violation
}

type snippetRule struct {
	code  string
	check func(*spdx.Snippet, *Index) []Violation
}

type extractedRule struct {
	code  string
	check func(*spdx.ExtractedLicense, *Index) []Violation
}

type relationshipRule struct {
	code  string
	check func(*spdx.Relationship, int, *Index) []Violation
}

// evaluateSpecification runs the full SPDX 2.3 rule set against a resolved
// document. A document yielding no violations is specification-conformant.
func evaluateSpecification(doc *spdx.Document, idx *Index) []Violation {
	var out []Violation
	for _, r := range documentRules {
		out = append(out, r.check(doc, idx)...)
	}
	for _, p := range doc.Packages {
		for _, r := range packageRules {
			out = append(out, r.check(p, idx)...)
		}
	}
	for _, f := range doc.Files {
		for _, r := range fileRules {
			out = append(out, r.check(f, idx)...)
		}
	}
	for _, s := range doc.Snippets {
		for _, r := range snippetRules {
			out = append(out, r.check(s, idx)...)
		}
	}
	for _, l := range doc.ExtractedLicenses {
		for _, r := range extractedRules {
			out = append(out, r.check(l, idx)...)
		}
	}
	for i, rel := range doc.Relationships {
		for _, r := range relationshipRules {
			out = append(out, r.check(rel, i, idx)...)
		}
	}
	return out
}

// Document rules.

func checkDocVersion(doc *spdx.Document, _ *Index) []Violation {
	if doc.SPDXVersion == "" {
		return []Violation{specViolation(CodeDocVersion, doc.SPDXID, "spdxVersion", "mandatory field spdxVersion is missing")}
	}
	for _, v := range SupportedVersions {
		if doc.SPDXVersion == v {
			return nil
		}
	}
	return []Violation{specViolation(CodeDocVersion, doc.SPDXID, "spdxVersion",
		fmt.Sprintf("spdxVersion %q is not supported; supported versions: %s", doc.SPDXVersion, strings.Join(SupportedVersions, ", ")))}
}

func checkDocDataLicense(doc *spdx.Document, _ *Index) []Violation {
	switch doc.DataLicense {
	case "":
		return []Violation{specViolation(CodeDocLicense, doc.SPDXID, "dataLicense", "mandatory field dataLicense is missing")}
	case "CC0-1.0":
		return nil
	default:
		return []Violation{specViolation(CodeDocLicense, doc.SPDXID, "dataLicense",
			fmt.Sprintf("dataLicense must be \"CC0-1.0\", got %q", doc.DataLicense))}
	}
}

func checkDocID(doc *spdx.Document, _ *Index) []Violation {
	if doc.SPDXID == spdx.DocumentID {
		return nil
	}
	return []Violation{specViolation(CodeDocID, doc.SPDXID, "SPDXID",
		fmt.Sprintf("document SPDXID must be %q, got %q", spdx.DocumentID, doc.SPDXID))}
}

func checkDocName(doc *spdx.Document, _ *Index) []Violation {
	if doc.Name != "" {
		return nil
	}
	return []Violation{specViolation(CodeDocName, doc.SPDXID, "name", "mandatory field name is missing")}
}

func checkDocNamespace(doc *spdx.Document, _ *Index) []Violation {
	ns := doc.DocumentNamespace
	if ns == "" {
		return []Violation{specViolation(CodeDocNamespace, doc.SPDXID, "documentNamespace", "mandatory field documentNamespace is missing")}
	}
	if !strings.Contains(ns, "://") {
		return []Violation{specViolation(CodeDocNamespace, doc.SPDXID, "documentNamespace",
			fmt.Sprintf("documentNamespace %q is not an absolute URI", ns))}
	}
	if strings.Contains(ns, "#") {
		return []Violation{specViolation(CodeDocNamespace, doc.SPDXID, "documentNamespace",
			fmt.Sprintf("documentNamespace %q must not contain a fragment", ns))}
	}
	return nil
}

func checkDocCreators(doc *spdx.Document, _ *Index) []Violation {
	if doc.CreationInfo == nil {
		return []Violation{specViolation(CodeDocCreators, doc.SPDXID, "creationInfo", "mandatory field creationInfo is missing")}
	}
	if len(doc.CreationInfo.Creators) == 0 {
		return []Violation{specViolation(CodeDocCreators, doc.SPDXID, "creationInfo.creators", "creationInfo must name at least one creator")}
	}
	var out []Violation
	for i, c := range doc.CreationInfo.Creators {
		if !hasAnyPrefix(c, spdx.CreatorPrefixes) {
			out = append(out, specViolation(CodeDocCreators, doc.SPDXID,
				fmt.Sprintf("creationInfo.creators[%d]", i),
				fmt.Sprintf("creator %q must start with one of %s", c, strings.Join(spdx.CreatorPrefixes, ", "))))
		}
	}
	return out
}

func checkDocCreated(doc *spdx.Document, _ *Index) []Violation {
	if doc.CreationInfo == nil {
		return nil // already reported by the creators rule
	}
	created := doc.CreationInfo.Created
	if created == "" {
		return []Violation{specViolation(CodeDocCreated, doc.SPDXID, "creationInfo.created", "mandatory field creationInfo.created is missing")}
	}
	if _, err := time.Parse(createdLayout, created); err != nil {
		return []Violation{specViolation(CodeDocCreated, doc.SPDXID, "creationInfo.created",
			fmt.Sprintf("created timestamp %q does not match the required form YYYY-MM-DDThh:mm:ssZ", created))}
	}
	return nil
}

// checkDocDescribes enforces the cardinality of the document-describes
// link: exactly one DESCRIBES edge from the document (or DESCRIBED_BY edge
// to it) must exist.
func checkDocDescribes(doc *spdx.Document, _ *Index) []Violation {
	docID := doc.SPDXID
	if docID == "" {
		docID = spdx.DocumentID
	}
	count := 0
	for _, rel := range doc.Relationships {
		if rel.RelationshipType == "DESCRIBES" && rel.SPDXElementID == docID {
			count++
		}
		if rel.RelationshipType == "DESCRIBED_BY" && rel.RelatedSPDXElement == docID {
			count++
		}
	}
	if count == 1 {
		return nil
	}
	return []Violation{specViolation(CodeDocDescribes, doc.SPDXID, "relationships",
		fmt.Sprintf("document must describe exactly one top-level element, found %d document-describes links", count))}
}

// Package rules.

func checkPackageID(p *spdx.Package, _ *Index) []Violation {
	return checkElementID(p.SPDXID, "package")
}

func checkPackageName(p *spdx.Package, _ *Index) []Violation {
	if p.Name != "" {
		return nil
	}
	return []Violation{specViolation(CodePkgName, p.SPDXID, "name", "mandatory field name is missing")}
}

func checkPackageDownloadLocation(p *spdx.Package, _ *Index) []Violation {
	if p.DownloadLocation != "" {
		return nil
	}
	return []Violation{specViolation(CodePkgDownloadLocation, p.SPDXID, "downloadLocation",
		"mandatory field downloadLocation is missing (use NOASSERTION if unknown)")}
}

func checkPackageActors(p *spdx.Package, _ *Index) []Violation {
	var out []Violation
	if v := checkActor(p.SPDXID, "supplier", p.Supplier); v != nil {
		out = append(out, *v)
	}
	if v := checkActor(p.SPDXID, "originator", p.Originator); v != nil {
		out = append(out, *v)
	}
	return out
}

func checkActor(spdxID, field, value string) *Violation {
	if value == "" || value == spdx.NoAssertion || hasAnyPrefix(value, spdx.ActorPrefixes) {
		return nil
	}
	v := specViolation(CodePkgActor, spdxID, field,
		fmt.Sprintf("%s %q must start with one of %s, or be NOASSERTION", field, value, strings.Join(spdx.ActorPrefixes, ", ")))
	return &v
}

// checkPackageVerification enforces clause 7.9: the verification code must
// be omitted when the package files were not analyzed.
func checkPackageVerification(p *spdx.Package, _ *Index) []Violation {
	if p.FilesWereAnalyzed() || p.VerificationCode == nil {
		return nil
	}
	return []Violation{specViolation(CodePkgVerification, p.SPDXID, "packageVerificationCode",
		"packageVerificationCode must be omitted when filesAnalyzed is false")}
}

func checkPackageChecksums(p *spdx.Package, _ *Index) []Violation {
	return checkChecksums(p.SPDXID, "checksums", p.Checksums)
}

func checkPackageLicenses(p *spdx.Package, idx *Index) []Violation {
	var out []Violation
	out = append(out, checkLicenseExpression(p.SPDXID, "licenseConcluded", p.LicenseConcluded, idx)...)
	out = append(out, checkLicenseExpression(p.SPDXID, "licenseDeclared", p.LicenseDeclared, idx)...)
	for i, l := range p.LicenseInfoFromFiles {
		out = append(out, checkLicenseExpression(p.SPDXID, fmt.Sprintf("licenseInfoFromFiles[%d]", i), l, idx)...)
	}
	return out
}

// File rules.

func checkFileID(f *spdx.File, _ *Index) []Violation {
	return checkElementID(f.SPDXID, "file")
}

func checkFileName(f *spdx.File, _ *Index) []Violation {
	if f.FileName != "" {
		return nil
	}
	return []Violation{specViolation(CodeFileName, f.SPDXID, "fileName", "mandatory field fileName is missing")}
}

func checkFileTypes(f *spdx.File, _ *Index) []Violation {
	var out []Violation
	for i, t := range f.FileTypes {
		if !spdx.FileTypes[t] {
			out = append(out, specViolation(CodeFileType, f.SPDXID,
				fmt.Sprintf("fileTypes[%d]", i),
				fmt.Sprintf("%q is not a known SPDX file type", t)))
		}
	}
	return out
}

// checkFileChecksums enforces clause 8.4: every file carries at least a
// SHA1 checksum, and all checksums are well-formed.
func checkFileChecksums(f *spdx.File, _ *Index) []Violation {
	out := checkChecksums(f.SPDXID, "checksums", f.Checksums)
	for _, c := range f.Checksums {
		if c.Algorithm == "SHA1" {
			return out
		}
	}
	return append(out, specViolation(CodeFileChecksum, f.SPDXID, "checksums", "file must provide a SHA1 checksum"))
}

func checkFileLicenses(f *spdx.File, idx *Index) []Violation {
	var out []Violation
	out = append(out, checkLicenseExpression(f.SPDXID, "licenseConcluded", f.LicenseConcluded, idx)...)
	for i, l := range f.LicenseInfoInFiles {
		out = append(out, checkLicenseExpression(f.SPDXID, fmt.Sprintf("licenseInfoInFiles[%d]", i), l, idx)...)
	}
	return out
}

// Snippet rules.

func checkSnippetID(s *spdx.Snippet, _ *Index) []Violation {
	return checkElementID(s.SPDXID, "snippet")
}

func checkSnippetFromFile(s *spdx.Snippet, idx *Index) []Violation {
	if s.SnippetFromFile == "" {
		return []Violation{specViolation(CodeSnippetFromFile, s.SPDXID, "snippetFromFile", "mandatory field snippetFromFile is missing")}
	}
	ent, ok := idx.Resolve(s.SnippetFromFile)
	if !ok {
		return []Violation{specViolation(CodeRefUnresolved, s.SPDXID, "snippetFromFile",
			fmt.Sprintf("snippetFromFile references unknown SPDXID %q", s.SnippetFromFile))}
	}
	if ent.Kind != KindFile {
		return []Violation{specViolation(CodeSnippetFromFile, s.SPDXID, "snippetFromFile",
			fmt.Sprintf("snippetFromFile must reference a file, %q is a %s", s.SnippetFromFile, ent.Kind))}
	}
	return nil
}

func checkSnippetLicenses(s *spdx.Snippet, idx *Index) []Violation {
	var out []Violation
	out = append(out, checkLicenseExpression(s.SPDXID, "licenseConcluded", s.LicenseConcluded, idx)...)
	for i, l := range s.LicenseInfoInSnippets {
		out = append(out, checkLicenseExpression(s.SPDXID, fmt.Sprintf("licenseInfoInSnippets[%d]", i), l, idx)...)
	}
	return out
}

// Extracted licensing info rules.

func checkExtractedID(l *spdx.ExtractedLicense, _ *Index) []Violation {
	if spdx.ValidLicenseRefID(l.LicenseID) {
		return nil
	}
	return []Violation{specViolation(CodeExtractedID, l.LicenseID, "licenseId",
		fmt.Sprintf("extracted licensing info identifier %q must match LicenseRef-[idstring]", l.LicenseID))}
}

func checkExtractedText(l *spdx.ExtractedLicense, _ *Index) []Violation {
	if l.ExtractedText != "" {
		return nil
	}
	return []Violation{specViolation(CodeExtractedText, l.LicenseID, "extractedText", "mandatory field extractedText is missing")}
}

// Relationship rules.

func checkRelationshipType(rel *spdx.Relationship, i int, _ *Index) []Violation {
	if rel.RelationshipType == "" {
		return []Violation{specViolation(CodeRelType, rel.SPDXElementID,
			fmt.Sprintf("relationships[%d].relationshipType", i), "mandatory field relationshipType is missing")}
	}
	if !spdx.RelationshipTypes[rel.RelationshipType] {
		return []Violation{specViolation(CodeRelType, rel.SPDXElementID,
			fmt.Sprintf("relationships[%d].relationshipType", i),
			fmt.Sprintf("%q is not a known SPDX relationship type", rel.RelationshipType))}
	}
	return nil
}

// checkRelationshipEndpoints resolves both edges of a relationship. The
// related element may also be NONE, NOASSERTION, or an external
// DocumentRef- reference, none of which need local resolution.
func checkRelationshipEndpoints(rel *spdx.Relationship, i int, idx *Index) []Violation {
	var out []Violation
	if rel.SPDXElementID == "" {
		out = append(out, specViolation(CodeRefUnresolved, "",
			fmt.Sprintf("relationships[%d].spdxElementId", i), "mandatory field spdxElementId is missing"))
	} else if !isExternalRef(rel.SPDXElementID) {
		if _, ok := idx.Resolve(rel.SPDXElementID); !ok {
			out = append(out, specViolation(CodeRefUnresolved, rel.SPDXElementID,
				fmt.Sprintf("relationships[%d].spdxElementId", i),
				fmt.Sprintf("relationship references unknown SPDXID %q", rel.SPDXElementID)))
		}
	}
	related := rel.RelatedSPDXElement
	if related == "" {
		out = append(out, specViolation(CodeRefUnresolved, rel.SPDXElementID,
			fmt.Sprintf("relationships[%d].relatedSpdxElement", i), "mandatory field relatedSpdxElement is missing"))
	} else if related != spdx.None && related != spdx.NoAssertion && !isExternalRef(related) {
		if _, ok := idx.Resolve(related); !ok {
			out = append(out, specViolation(CodeRefUnresolved, rel.SPDXElementID,
				fmt.Sprintf("relationships[%d].relatedSpdxElement", i),
				fmt.Sprintf("relationship references unknown SPDXID %q", related)))
		}
	}
	return out
}

// Shared helpers.

func checkElementID(id, kind string) []Violation {
	if id == "" {
		return []Violation{specViolation(CodeIDFormat, "", "SPDXID",
			fmt.Sprintf("mandatory field SPDXID is missing on a %s", kind))}
	}
	if !spdx.ValidElementID(id) {
		return []Violation{specViolation(CodeIDFormat, id, "SPDXID",
			fmt.Sprintf("SPDXID %q must match SPDXRef-[idstring]", id))}
	}
	return nil
}

func checkChecksums(spdxID, field string, sums []spdx.Checksum) []Violation {
	var out []Violation
	for i, c := range sums {
		path := fmt.Sprintf("%s[%d]", field, i)
		wantLen, known := spdx.ChecksumAlgorithms[c.Algorithm]
		if !known {
			out = append(out, specViolation(CodeChecksumAlgorithm, spdxID, path+".algorithm",
				fmt.Sprintf("%q is not a known checksum algorithm", c.Algorithm)))
			continue
		}
		if !isHex(c.Value) {
			msg := fmt.Sprintf("checksum value %q is not hexadecimal", c.Value)
			if isHex(strings.ToLower(c.Value)) {
				msg = fmt.Sprintf("checksum value %q must use lowercase hex digits", c.Value)
			}
			out = append(out, specViolation(CodeChecksumValue, spdxID, path+".checksumValue", msg))
			continue
		}
		if wantLen > 0 && len(c.Value) != wantLen {
			out = append(out, specViolation(CodeChecksumValue, spdxID, path+".checksumValue",
				fmt.Sprintf("%s checksum must be %d hex digits, got %d", c.Algorithm, wantLen, len(c.Value))))
		}
	}
	return out
}

// checkLicenseExpression validates the grammar of one license field and
// resolves every LicenseRef operand against the document. A parse failure
// is a violation, never an error: rules stay total over malformed input.
func checkLicenseExpression(spdxID, field, raw string, idx *Index) []Violation {
	if spdx.IsPlaceholder(raw) {
		return nil
	}
	expr, err := spdx.ParseExpression(raw)
	if err != nil {
		return []Violation{specViolation(CodeLicenseSyntax, spdxID, field,
			fmt.Sprintf("license expression %q is invalid: %v", raw, err))}
	}
	var out []Violation
	for _, ref := range expr.LicenseRefs {
		if isExternalRef(ref) {
			continue
		}
		if _, ok := idx.ResolveLicenseRef(ref); !ok {
			out = append(out, specViolation(CodeLicenseRefMissing, spdxID, field,
				fmt.Sprintf("license reference %q has no matching extracted licensing info", ref)))
		}
	}
	return out
}

func isExternalRef(id string) bool {
	return strings.HasPrefix(id, spdx.ExternalRefPrefix)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}
