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

package spdx

import "fmt"

// Issue is a structural defect found while coercing parsed JSON into the
// document model. Issues are data, never errors: a document with wrongly
// typed fields still decodes as far as possible.
type Issue struct {
	Field   string
	Message string
}

// Decode coerces a parsed JSON value (as produced by encoding/json into
// any) into a Document. The returned Document is nil only when the top
// level value is not a JSON object; every other defect is reported as an
// Issue while decoding continues. Fields are visited in a fixed order so
// that decoding the same value twice yields identical issue sequences.
//
// The documentDescribes shorthand of the JSON serialization is expanded
// into DESCRIBES relationships, mirroring what the reference SPDX tooling
// does on parse.
func Decode(v any) (*Document, []Issue) {
	d := &decoder{}
	root, ok := v.(map[string]any)
	if !ok {
		d.issue("", "top-level JSON value is not an object")
		return nil, d.issues
	}

	o := object{fields: root, taken: map[string]bool{}}
	doc := &Document{}
	doc.SPDXVersion = d.optStr(&o, "spdxVersion")
	doc.DataLicense = d.optStr(&o, "dataLicense")
	doc.SPDXID = d.optStr(&o, "SPDXID")
	doc.Name = d.optStr(&o, "name")
	doc.DocumentNamespace = d.optStr(&o, "documentNamespace")
	doc.Comment = d.optStr(&o, "comment")
	if v, ok := o.take("creationInfo"); ok {
		doc.CreationInfo = d.creationInfo("creationInfo", v)
	}
	if v, ok := o.take("packages"); ok {
		for i, obj := range d.objects("packages", v) {
			doc.Packages = append(doc.Packages, d.pkg(fmt.Sprintf("packages[%d]", i), obj))
		}
	}
	if v, ok := o.take("files"); ok {
		for i, obj := range d.objects("files", v) {
			doc.Files = append(doc.Files, d.file(fmt.Sprintf("files[%d]", i), obj))
		}
	}
	if v, ok := o.take("snippets"); ok {
		for i, obj := range d.objects("snippets", v) {
			doc.Snippets = append(doc.Snippets, d.snippet(fmt.Sprintf("snippets[%d]", i), obj))
		}
	}
	if v, ok := o.take("relationships"); ok {
		for i, obj := range d.objects("relationships", v) {
			doc.Relationships = append(doc.Relationships, d.relationship(fmt.Sprintf("relationships[%d]", i), obj))
		}
	}
	if v, ok := o.take("hasExtractedLicensingInfos"); ok {
		for i, obj := range d.objects("hasExtractedLicensingInfos", v) {
			doc.ExtractedLicenses = append(doc.ExtractedLicenses, d.extractedLicense(fmt.Sprintf("hasExtractedLicensingInfos[%d]", i), obj))
		}
	}
	if v, ok := o.take("documentDescribes"); ok {
		source := doc.SPDXID
		if source == "" {
			source = DocumentID
		}
		for _, target := range d.strList("documentDescribes", v) {
			doc.Relationships = append(doc.Relationships, &Relationship{
				SPDXElementID:      source,
				RelationshipType:   "DESCRIBES",
				RelatedSPDXElement: target,
			})
		}
	}
	doc.Extra = o.rest()

	return doc, d.issues
}

// object tracks which keys of a JSON object have been consumed, so the
// leftovers can be preserved as unknown extra fields.
type object struct {
	fields map[string]any
	taken  map[string]bool
}

func (o *object) take(key string) (any, bool) {
	v, ok := o.fields[key]
	if ok {
		o.taken[key] = true
	}
	return v, ok
}

func (o *object) rest() map[string]any {
	extra := map[string]any{}
	for key, v := range o.fields {
		if !o.taken[key] {
			extra[key] = v
		}
	}
	return extra
}

type decoder struct {
	issues []Issue
}

func (d *decoder) issue(field, format string, args ...any) {
	d.issues = append(d.issues, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (d *decoder) optStr(o *object, key string) string {
	v, ok := o.take(key)
	if !ok {
		return ""
	}
	return d.str(key, v)
}

func (d *decoder) str(field string, v any) string {
	s, ok := v.(string)
	if !ok {
		d.issue(field, "expected a string, got %T", v)
		return ""
	}
	return s
}

func (d *decoder) boolPtr(field string, v any) *bool {
	b, ok := v.(bool)
	if !ok {
		d.issue(field, "expected a boolean, got %T", v)
		return nil
	}
	return &b
}

func (d *decoder) strList(field string, v any) []string {
	list, ok := v.([]any)
	if !ok {
		d.issue(field, "expected a sequence, got %T", v)
		return nil
	}
	out := make([]string, 0, len(list))
	for i, item := range list {
		out = append(out, d.str(fmt.Sprintf("%s[%d]", field, i), item))
	}
	return out
}

// objects coerces v into a list of JSON objects, skipping (and reporting)
// entries of any other type so one bad element never hides its siblings.
func (d *decoder) objects(field string, v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		d.issue(field, "expected a sequence, got %T", v)
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			d.issue(fmt.Sprintf("%s[%d]", field, i), "expected an object, got %T", item)
			continue
		}
		out = append(out, obj)
	}
	return out
}

func (d *decoder) creationInfo(field string, v any) *CreationInfo {
	obj, ok := v.(map[string]any)
	if !ok {
		d.issue(field, "expected an object, got %T", v)
		return nil
	}
	o := object{fields: obj, taken: map[string]bool{}}
	ci := &CreationInfo{}
	if v, ok := o.take("creators"); ok {
		ci.Creators = d.strList(field+".creators", v)
	}
	if v, ok := o.take("created"); ok {
		ci.Created = d.str(field+".created", v)
	}
	if v, ok := o.take("licenseListVersion"); ok {
		ci.LicenseListVersion = d.str(field+".licenseListVersion", v)
	}
	if v, ok := o.take("comment"); ok {
		ci.Comment = d.str(field+".comment", v)
	}
	return ci
}

func (d *decoder) pkg(field string, obj map[string]any) *Package {
	o := object{fields: obj, taken: map[string]bool{}}
	p := &Package{}
	p.SPDXID = d.memberStr(&o, field, "SPDXID")
	p.Name = d.memberStr(&o, field, "name")
	p.VersionInfo = d.memberStr(&o, field, "versionInfo")
	p.Supplier = d.memberStr(&o, field, "supplier")
	p.Originator = d.memberStr(&o, field, "originator")
	p.DownloadLocation = d.memberStr(&o, field, "downloadLocation")
	if v, ok := o.take("filesAnalyzed"); ok {
		p.FilesAnalyzed = d.boolPtr(field+".filesAnalyzed", v)
	}
	if v, ok := o.take("packageVerificationCode"); ok {
		p.VerificationCode = d.verificationCode(field+".packageVerificationCode", v)
	}
	if v, ok := o.take("checksums"); ok {
		p.Checksums = d.checksums(field+".checksums", v)
	}
	p.HomePage = d.memberStr(&o, field, "homepage")
	p.LicenseConcluded = d.memberStr(&o, field, "licenseConcluded")
	p.LicenseDeclared = d.memberStr(&o, field, "licenseDeclared")
	if v, ok := o.take("licenseInfoFromFiles"); ok {
		p.LicenseInfoFromFiles = d.strList(field+".licenseInfoFromFiles", v)
	}
	p.CopyrightText = d.memberStr(&o, field, "copyrightText")
	p.Summary = d.memberStr(&o, field, "summary")
	p.Description = d.memberStr(&o, field, "description")
	if v, ok := o.take("externalRefs"); ok {
		for i, ref := range d.objects(field+".externalRefs", v) {
			prefix := fmt.Sprintf("%s.externalRefs[%d]", field, i)
			p.ExternalRefs = append(p.ExternalRefs, ExternalRef{
				Category: d.str(prefix+".referenceCategory", valueOr(ref, "referenceCategory")),
				Type:     d.str(prefix+".referenceType", valueOr(ref, "referenceType")),
				Locator:  d.str(prefix+".referenceLocator", valueOr(ref, "referenceLocator")),
			})
		}
	}
	p.PrimaryPurpose = d.memberStr(&o, field, "primaryPackagePurpose")
	p.Extra = o.rest()
	return p
}

func (d *decoder) file(field string, obj map[string]any) *File {
	o := object{fields: obj, taken: map[string]bool{}}
	f := &File{}
	f.SPDXID = d.memberStr(&o, field, "SPDXID")
	f.FileName = d.memberStr(&o, field, "fileName")
	if v, ok := o.take("fileTypes"); ok {
		f.FileTypes = d.strList(field+".fileTypes", v)
	}
	if v, ok := o.take("checksums"); ok {
		f.Checksums = d.checksums(field+".checksums", v)
	}
	f.LicenseConcluded = d.memberStr(&o, field, "licenseConcluded")
	if v, ok := o.take("licenseInfoInFiles"); ok {
		f.LicenseInfoInFiles = d.strList(field+".licenseInfoInFiles", v)
	}
	f.CopyrightText = d.memberStr(&o, field, "copyrightText")
	f.Comment = d.memberStr(&o, field, "comment")
	f.Extra = o.rest()
	return f
}

func (d *decoder) snippet(field string, obj map[string]any) *Snippet {
	o := object{fields: obj, taken: map[string]bool{}}
	s := &Snippet{}
	s.SPDXID = d.memberStr(&o, field, "SPDXID")
	s.Name = d.memberStr(&o, field, "name")
	s.SnippetFromFile = d.memberStr(&o, field, "snippetFromFile")
	s.LicenseConcluded = d.memberStr(&o, field, "licenseConcluded")
	if v, ok := o.take("licenseInfoInSnippets"); ok {
		s.LicenseInfoInSnippets = d.strList(field+".licenseInfoInSnippets", v)
	}
	s.CopyrightText = d.memberStr(&o, field, "copyrightText")
	s.Comment = d.memberStr(&o, field, "comment")
	s.Extra = o.rest()
	return s
}

func (d *decoder) relationship(field string, obj map[string]any) *Relationship {
	o := object{fields: obj, taken: map[string]bool{}}
	return &Relationship{
		SPDXElementID:      d.memberStr(&o, field, "spdxElementId"),
		RelationshipType:   d.memberStr(&o, field, "relationshipType"),
		RelatedSPDXElement: d.memberStr(&o, field, "relatedSpdxElement"),
		Comment:            d.memberStr(&o, field, "comment"),
	}
}

func (d *decoder) extractedLicense(field string, obj map[string]any) *ExtractedLicense {
	o := object{fields: obj, taken: map[string]bool{}}
	return &ExtractedLicense{
		LicenseID:     d.memberStr(&o, field, "licenseId"),
		ExtractedText: d.memberStr(&o, field, "extractedText"),
		Name:          d.memberStr(&o, field, "name"),
		Comment:       d.memberStr(&o, field, "comment"),
	}
}

func (d *decoder) memberStr(o *object, field, key string) string {
	v, ok := o.take(key)
	if !ok {
		return ""
	}
	return d.str(field+"."+key, v)
}

func (d *decoder) checksums(field string, v any) []Checksum {
	var out []Checksum
	for i, obj := range d.objects(field, v) {
		path := fmt.Sprintf("%s[%d]", field, i)
		out = append(out, Checksum{
			Algorithm: d.str(path+".algorithm", valueOr(obj, "algorithm")),
			Value:     d.str(path+".checksumValue", valueOr(obj, "checksumValue")),
		})
	}
	return out
}

func (d *decoder) verificationCode(field string, v any) *VerificationCode {
	obj, ok := v.(map[string]any)
	if !ok {
		d.issue(field, "expected an object, got %T", v)
		return nil
	}
	vc := &VerificationCode{}
	if raw, ok := obj["packageVerificationCodeValue"]; ok {
		vc.Value = d.str(field+".packageVerificationCodeValue", raw)
	}
	if raw, ok := obj["packageVerificationCodeExcludedFiles"]; ok {
		vc.ExcludedFiles = d.strList(field+".packageVerificationCodeExcludedFiles", raw)
	}
	return vc
}

// valueOr returns the value for key, or "" so absent members coerce to the
// empty string without a spurious type mismatch.
func valueOr(obj map[string]any, key string) any {
	if v, ok := obj[key]; ok {
		return v
	}
	return ""
}
