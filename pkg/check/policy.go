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
	"slices"
	"strconv"
	"strings"

	"github.com/venslabs/sbomcheck/pkg/policyconfig"
	"github.com/venslabs/sbomcheck/pkg/spdx"
)

// Policy field tables: the field paths a policy rule may name, per entity
// type, and how each resolves to the values the predicate inspects. A
// multi-valued field fails nonPlaceholder when any of its values is a
// placeholder, and oneOf when any value is outside the allowed set.
var (
	documentFields = map[string]func(*spdx.Document) []string{
		"name":              func(d *spdx.Document) []string { return one(d.Name) },
		"dataLicense":       func(d *spdx.Document) []string { return one(d.DataLicense) },
		"documentNamespace": func(d *spdx.Document) []string { return one(d.DocumentNamespace) },
		"comment":           func(d *spdx.Document) []string { return one(d.Comment) },
		"creationInfo.created": func(d *spdx.Document) []string {
			if d.CreationInfo == nil {
				return nil
			}
			return one(d.CreationInfo.Created)
		},
		"creationInfo.creators": func(d *spdx.Document) []string {
			if d.CreationInfo == nil {
				return nil
			}
			return d.CreationInfo.Creators
		},
		"creationInfo.licenseListVersion": func(d *spdx.Document) []string {
			if d.CreationInfo == nil {
				return nil
			}
			return one(d.CreationInfo.LicenseListVersion)
		},
		// Collection pseudo-fields: required means "at least one entry".
		"packages": func(d *spdx.Document) []string {
			ids := make([]string, 0, len(d.Packages))
			for _, p := range d.Packages {
				ids = append(ids, p.SPDXID)
			}
			return ids
		},
		"files": func(d *spdx.Document) []string {
			ids := make([]string, 0, len(d.Files))
			for _, f := range d.Files {
				ids = append(ids, f.SPDXID)
			}
			return ids
		},
	}
	packageFields = map[string]func(*spdx.Package) []string{
		"name":             func(p *spdx.Package) []string { return one(p.Name) },
		"versionInfo":      func(p *spdx.Package) []string { return one(p.VersionInfo) },
		"supplier":         func(p *spdx.Package) []string { return one(p.Supplier) },
		"originator":       func(p *spdx.Package) []string { return one(p.Originator) },
		"downloadLocation": func(p *spdx.Package) []string { return one(p.DownloadLocation) },
		"filesAnalyzed":    func(p *spdx.Package) []string { return one(strconv.FormatBool(p.FilesWereAnalyzed())) },
		"homepage":         func(p *spdx.Package) []string { return one(p.HomePage) },
		"licenseConcluded": func(p *spdx.Package) []string { return one(p.LicenseConcluded) },
		"licenseDeclared":  func(p *spdx.Package) []string { return one(p.LicenseDeclared) },
		"copyrightText":    func(p *spdx.Package) []string { return one(p.CopyrightText) },
		"summary":          func(p *spdx.Package) []string { return one(p.Summary) },
		"description":      func(p *spdx.Package) []string { return one(p.Description) },
	}
	fileFields = map[string]func(*spdx.File) []string{
		"fileName":           func(f *spdx.File) []string { return one(f.FileName) },
		"fileTypes":          func(f *spdx.File) []string { return f.FileTypes },
		"licenseConcluded":   func(f *spdx.File) []string { return one(f.LicenseConcluded) },
		"licenseInfoInFiles": func(f *spdx.File) []string { return f.LicenseInfoInFiles },
		"copyrightText":      func(f *spdx.File) []string { return one(f.CopyrightText) },
	}
	snippetFields = map[string]func(*spdx.Snippet) []string{
		"name":             func(s *spdx.Snippet) []string { return one(s.Name) },
		"licenseConcluded": func(s *spdx.Snippet) []string { return one(s.LicenseConcluded) },
		"copyrightText":    func(s *spdx.Snippet) []string { return one(s.CopyrightText) },
	}
)

func one(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// validatePolicyFields rejects rules naming fields the engine cannot
// resolve. Called before any document is evaluated so a bad policy aborts
// the whole run.
func validatePolicyFields(cfg *policyconfig.Config) error {
	for _, r := range cfg.Document {
		if _, ok := documentFields[r.Field]; !ok {
			return fmt.Errorf("policy: document has no field %q", r.Field)
		}
	}
	for _, r := range cfg.Package {
		if _, ok := packageFields[r.Field]; !ok {
			return fmt.Errorf("policy: package has no field %q", r.Field)
		}
	}
	for _, r := range cfg.File {
		if _, ok := fileFields[r.Field]; !ok {
			return fmt.Errorf("policy: file has no field %q", r.Field)
		}
	}
	for _, r := range cfg.Snippet {
		if _, ok := snippetFields[r.Field]; !ok {
			return fmt.Errorf("policy: snippet has no field %q", r.Field)
		}
	}
	return nil
}

// evaluatePolicy applies the configured minimum-required-value rules to
// every matching entity, in entity appearance order then rule order. It
// shares no state with the specification rule set.
func evaluatePolicy(doc *spdx.Document, cfg *policyconfig.Config) []Violation {
	var out []Violation
	for _, r := range cfg.Document {
		out = append(out, applyFieldRule("document", doc.SPDXID, r, documentFields[r.Field](doc))...)
	}
	for _, p := range doc.Packages {
		licensed := concreteLicense(p.LicenseConcluded) || concreteLicense(p.LicenseDeclared)
		for _, r := range cfg.Package {
			if r.When == policyconfig.ConditionLicensed && !licensed {
				continue
			}
			out = append(out, applyFieldRule("package", p.SPDXID, r, packageFields[r.Field](p))...)
		}
	}
	for _, f := range doc.Files {
		licensed := concreteLicense(f.LicenseConcluded)
		for _, r := range cfg.File {
			if r.When == policyconfig.ConditionLicensed && !licensed {
				continue
			}
			out = append(out, applyFieldRule("file", f.SPDXID, r, fileFields[r.Field](f))...)
		}
	}
	for _, s := range doc.Snippets {
		licensed := concreteLicense(s.LicenseConcluded)
		for _, r := range cfg.Snippet {
			if r.When == policyconfig.ConditionLicensed && !licensed {
				continue
			}
			out = append(out, applyFieldRule("snippet", s.SPDXID, r, snippetFields[r.Field](s))...)
		}
	}
	return out
}

// concreteLicense reports whether a license field names an actual
// expression rather than a placeholder or nothing at all.
func concreteLicense(s string) bool {
	return !spdx.IsPlaceholder(s)
}

func applyFieldRule(entity, spdxID string, r policyconfig.FieldRule, values []string) []Violation {
	code := fmt.Sprintf("policy.%s.%s", entity, r.Field)
	switch r.Check {
	case policyconfig.CheckRequired:
		if len(values) == 0 {
			return []Violation{policyViolation(code, spdxID, r.Field,
				fmt.Sprintf("%s must be populated", r.Field))}
		}
	case policyconfig.CheckNonPlaceholder:
		if len(values) == 0 {
			return []Violation{policyViolation(code, spdxID, r.Field,
				fmt.Sprintf("%s must be populated", r.Field))}
		}
		for _, v := range values {
			if v == spdx.NoAssertion || v == spdx.None {
				return []Violation{policyViolation(code, spdxID, r.Field,
					fmt.Sprintf("%s must carry a real value, got %q", r.Field, v))}
			}
		}
	case policyconfig.CheckOneOf:
		for _, v := range values {
			if !slices.Contains(r.Values, v) {
				return []Violation{policyViolation(code, spdxID, r.Field,
					fmt.Sprintf("%s value %q is not in the allowed set [%s]", r.Field, v, strings.Join(r.Values, ", ")))}
			}
		}
		if len(values) == 0 {
			return []Violation{policyViolation(code, spdxID, r.Field,
				fmt.Sprintf("%s must be one of [%s]", r.Field, strings.Join(r.Values, ", ")))}
		}
	}
	return nil
}
