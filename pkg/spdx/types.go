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

// Package spdx holds a typed in-memory model of an SPDX 2.3 JSON document
// and a lenient decoder that turns already-parsed JSON into that model.
// The model is a plain data container: it carries no validation logic
// beyond the type coercion performed at the decode boundary.
package spdx

// Placeholder values the SPDX specification allows in place of real data.
const (
	NoAssertion = "NOASSERTION"
	None        = "NONE"
)

// IDPrefix is the mandatory prefix of every SPDX identifier.
const IDPrefix = "SPDXRef-"

// LicenseRefPrefix marks a custom license identifier that must resolve to an
// ExtractedLicense in the same document.
const LicenseRefPrefix = "LicenseRef-"

// ExternalRefPrefix marks an identifier living in another SPDX document.
const ExternalRefPrefix = "DocumentRef-"

// DocumentID is the fixed SPDXID of the document itself.
const DocumentID = "SPDXRef-DOCUMENT"

// Document is the root of an SPDX 2.3 document.
//
// Fields absent from the JSON stay at their zero value; fields the decoder
// does not know about are preserved verbatim in Extra so that documents with
// forward-compatible additions round-trip without loss.
type Document struct {
	SPDXVersion       string
	DataLicense       string
	SPDXID            string
	Name              string
	DocumentNamespace string
	Comment           string
	CreationInfo      *CreationInfo
	Packages          []*Package
	Files             []*File
	Snippets          []*Snippet
	Relationships     []*Relationship
	ExtractedLicenses []*ExtractedLicense
	Extra             map[string]any
}

// CreationInfo describes how and when the document was produced.
type CreationInfo struct {
	Creators           []string
	Created            string
	LicenseListVersion string
	Comment            string
}

// Package is one distributable unit described by the document.
type Package struct {
	SPDXID               string
	Name                 string
	VersionInfo          string
	Supplier             string
	Originator           string
	DownloadLocation     string
	FilesAnalyzed        *bool
	VerificationCode     *VerificationCode
	Checksums            []Checksum
	HomePage             string
	LicenseConcluded     string
	LicenseDeclared      string
	LicenseInfoFromFiles []string
	CopyrightText        string
	Summary              string
	Description          string
	ExternalRefs         []ExternalRef
	PrimaryPurpose       string
	Extra                map[string]any
}

// FilesWereAnalyzed reports the effective filesAnalyzed value; the SPDX
// default when the field is omitted is true.
func (p *Package) FilesWereAnalyzed() bool {
	return p.FilesAnalyzed == nil || *p.FilesAnalyzed
}

// VerificationCode is the package verification code of clause 7.9.
type VerificationCode struct {
	Value         string
	ExcludedFiles []string
}

// File is a single file described by the document.
type File struct {
	SPDXID             string
	FileName           string
	FileTypes          []string
	Checksums          []Checksum
	LicenseConcluded   string
	LicenseInfoInFiles []string
	CopyrightText      string
	Comment            string
	Extra              map[string]any
}

// Snippet is a byte range within a file that carries its own licensing.
type Snippet struct {
	SPDXID                string
	Name                  string
	SnippetFromFile       string
	LicenseConcluded      string
	LicenseInfoInSnippets []string
	CopyrightText         string
	Comment               string
	Extra                 map[string]any
}

// Relationship is a directed, typed edge between two SPDX elements.
type Relationship struct {
	SPDXElementID      string
	RelationshipType   string
	RelatedSPDXElement string
	Comment            string
}

// ExtractedLicense is a license not on the SPDX license list, referenced
// from license expressions through its LicenseRef- identifier.
type ExtractedLicense struct {
	LicenseID     string
	ExtractedText string
	Name          string
	Comment       string
}

// Checksum pairs a hash algorithm with its value.
type Checksum struct {
	Algorithm string
	Value     string
}

// ExternalRef points at package metadata outside the document, e.g. a purl.
type ExternalRef struct {
	Category string
	Type     string
	Locator  string
}
