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

	"github.com/venslabs/sbomcheck/pkg/spdx"
)

// EntityKind names the kind of SPDX element an identifier resolves to.
type EntityKind string

const (
	KindDocument EntityKind = "document"
	KindPackage  EntityKind = "package"
	KindFile     EntityKind = "file"
	KindSnippet  EntityKind = "snippet"
)

// Entity is one resolvable element of a document.
type Entity struct {
	Kind   EntityKind
	SPDXID string
}

// Index resolves identifiers within a single document. It is built once per
// document, is read-only afterwards, and is shared by both rule sets.
type Index struct {
	entities map[string]Entity
	licenses map[string]*spdx.ExtractedLicense
}

// NewIndex walks the document in appearance order and indexes every SPDXID
// and every extracted LicenseRef. Duplicate identifiers are reported as
// specification violations; the first occurrence stays canonical and
// resolution keeps working, so one bad entity never aborts validation.
func NewIndex(doc *spdx.Document) (*Index, []Violation) {
	idx := &Index{
		entities: map[string]Entity{},
		licenses: map[string]*spdx.ExtractedLicense{},
	}
	var violations []Violation

	add := func(kind EntityKind, id string) {
		if id == "" {
			return
		}
		if prev, ok := idx.entities[id]; ok {
			violations = append(violations, specViolation(CodeDuplicateID, id, "SPDXID",
				fmt.Sprintf("SPDXID %q is already used by a %s; the first occurrence stays canonical", id, prev.Kind)))
			return
		}
		idx.entities[id] = Entity{Kind: kind, SPDXID: id}
	}

	add(KindDocument, doc.SPDXID)
	for _, p := range doc.Packages {
		add(KindPackage, p.SPDXID)
	}
	for _, f := range doc.Files {
		add(KindFile, f.SPDXID)
	}
	for _, s := range doc.Snippets {
		add(KindSnippet, s.SPDXID)
	}
	for _, l := range doc.ExtractedLicenses {
		if l.LicenseID == "" {
			continue
		}
		if _, ok := idx.licenses[l.LicenseID]; ok {
			violations = append(violations, specViolation(CodeDuplicateID, l.LicenseID, "licenseId",
				fmt.Sprintf("license identifier %q is declared more than once; the first occurrence stays canonical", l.LicenseID)))
			continue
		}
		idx.licenses[l.LicenseID] = l
	}

	return idx, violations
}

// Resolve returns the entity an SPDXID refers to.
func (idx *Index) Resolve(id string) (Entity, bool) {
	e, ok := idx.entities[id]
	return e, ok
}

// ResolveLicenseRef returns the extracted licensing info a LicenseRef-
// identifier refers to.
func (idx *Index) ResolveLicenseRef(id string) (*spdx.ExtractedLicense, bool) {
	l, ok := idx.licenses[id]
	return l, ok
}
