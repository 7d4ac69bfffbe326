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

// Package policyconfig loads the "minimum required values" policy: the
// organization-defined constraints layered on top of baseline SPDX
// conformance.
package policyconfig

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Check names the predicate a FieldRule applies.
type Check string

const (
	// CheckRequired requires the field to be present and non-empty.
	CheckRequired Check = "required"
	// CheckNonPlaceholder additionally rejects NOASSERTION and NONE.
	CheckNonPlaceholder Check = "nonPlaceholder"
	// CheckOneOf requires every value of the field to be in Values.
	CheckOneOf Check = "oneOf"
)

// Condition gates a FieldRule on the state of the entity it runs against.
type Condition string

// ConditionLicensed restricts a rule to entities that conclude or declare
// an actual license expression, not a placeholder. Not applicable to
// document rules.
const ConditionLicensed Condition = "licensed"

// FieldRule is one configured constraint on a field of an entity type.
// Rules are evaluated against every matching entity instance, in the order
// they appear in the file.
type FieldRule struct {
	Field  string    `yaml:"field"`
	Check  Check     `yaml:"check"`
	Values []string  `yaml:"values,omitempty"`
	When   Condition `yaml:"when,omitempty"`
}

// Config is the structure of a policy YAML file provided by users, keyed
// by entity type.
//
// Example YAML:
//
//	package:
//	  - field: supplier
//	    check: nonPlaceholder
//	  - field: versionInfo
//	    check: required
//	file:
//	  - field: copyrightText
//	    check: nonPlaceholder
//	    when: licensed
type Config struct {
	Document []FieldRule `yaml:"document"`
	Package  []FieldRule `yaml:"package"`
	File     []FieldRule `yaml:"file"`
	Snippet  []FieldRule `yaml:"snippet"`
}

// Load parses a policy file and validates its structure. Any defect is
// fatal: a malformed policy means the run cannot produce meaningful
// results, so no document may be evaluated against it.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("invalid policy YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the structural well-formedness of the configuration.
// Whether each field path exists on its entity type is checked by the
// validation engine, which owns the field tables.
func (c *Config) Validate() error {
	for _, group := range []struct {
		entity string
		rules  []FieldRule
	}{
		{"document", c.Document},
		{"package", c.Package},
		{"file", c.File},
		{"snippet", c.Snippet},
	} {
		entity, rules := group.entity, group.rules
		for i, r := range rules {
			if r.Field == "" {
				return fmt.Errorf("%s[%d]: field must not be empty", entity, i)
			}
			switch r.Check {
			case CheckRequired, CheckNonPlaceholder:
				if len(r.Values) > 0 {
					return fmt.Errorf("%s[%d] (%s): values is only allowed with check oneOf", entity, i, r.Field)
				}
			case CheckOneOf:
				if len(r.Values) == 0 {
					return fmt.Errorf("%s[%d] (%s): check oneOf needs at least one value", entity, i, r.Field)
				}
			default:
				return fmt.Errorf("%s[%d] (%s): unknown check %q", entity, i, r.Field, r.Check)
			}
			switch r.When {
			case "":
			case ConditionLicensed:
				if entity == "document" {
					return fmt.Errorf("%s[%d] (%s): condition %q does not apply to document rules", entity, i, r.Field, r.When)
				}
			default:
				return fmt.Errorf("%s[%d] (%s): unknown condition %q", entity, i, r.Field, r.When)
			}
		}
	}
	return nil
}

// Default returns the built-in completeness profile: the fields an SBOM
// must populate to be useful downstream, beyond what SPDX itself mandates.
func Default() *Config {
	return &Config{
		Document: []FieldRule{
			{Field: "name", Check: CheckRequired},
			{Field: "creationInfo.licenseListVersion", Check: CheckRequired},
			{Field: "packages", Check: CheckRequired},
			{Field: "files", Check: CheckRequired},
		},
		Package: []FieldRule{
			{Field: "supplier", Check: CheckNonPlaceholder},
			{Field: "versionInfo", Check: CheckRequired},
			{Field: "filesAnalyzed", Check: CheckOneOf, Values: []string{"true"}},
			{Field: "copyrightText", Check: CheckNonPlaceholder, When: ConditionLicensed},
		},
		File: []FieldRule{
			{Field: "fileName", Check: CheckRequired},
			{Field: "licenseInfoInFiles", Check: CheckRequired, When: ConditionLicensed},
			{Field: "copyrightText", Check: CheckNonPlaceholder, When: ConditionLicensed},
		},
	}
}
