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

// RelationshipTypes is the closed set of relationshipType values defined by
// SPDX 2.3 clause 11.1.
var RelationshipTypes = stringSet(
	"DESCRIBES", "DESCRIBED_BY",
	"CONTAINS", "CONTAINED_BY",
	"DEPENDS_ON", "DEPENDENCY_OF",
	"DEPENDENCY_MANIFEST_OF",
	"BUILD_DEPENDENCY_OF", "DEV_DEPENDENCY_OF", "OPTIONAL_DEPENDENCY_OF",
	"PROVIDED_DEPENDENCY_OF", "TEST_DEPENDENCY_OF", "RUNTIME_DEPENDENCY_OF",
	"EXAMPLE_OF", "GENERATES", "GENERATED_FROM",
	"ANCESTOR_OF", "DESCENDANT_OF", "VARIANT_OF",
	"DISTRIBUTION_ARTIFACT", "PATCH_FOR", "PATCH_APPLIED",
	"COPY_OF", "FILE_ADDED", "FILE_DELETED", "FILE_MODIFIED",
	"EXPANDED_FROM_ARCHIVE", "DYNAMIC_LINK", "STATIC_LINK",
	"DATA_FILE_OF", "TEST_CASE_OF", "BUILD_TOOL_OF", "DEV_TOOL_OF",
	"TEST_OF", "TEST_TOOL_OF", "DOCUMENTATION_OF", "OPTIONAL_COMPONENT_OF",
	"METAFILE_OF", "PACKAGE_OF",
	"AMENDS", "PREREQUISITE_FOR", "HAS_PREREQUISITE",
	"REQUIREMENT_DESCRIPTION_FOR", "SPECIFICATION_FOR",
	"OTHER",
)

// FileTypes is the closed set of fileType values of SPDX 2.3 clause 8.3.
var FileTypes = stringSet(
	"SOURCE", "BINARY", "ARCHIVE", "APPLICATION", "AUDIO", "IMAGE",
	"TEXT", "VIDEO", "DOCUMENTATION", "SPDX", "OTHER",
)

// ChecksumAlgorithms maps every algorithm allowed by SPDX 2.3 clause 7.10
// to the hex digest length it implies. A zero length means the algorithm
// has no fixed digest size.
var ChecksumAlgorithms = map[string]int{
	"SHA1":        40,
	"SHA224":      56,
	"SHA256":      64,
	"SHA384":      96,
	"SHA512":      128,
	"SHA3-256":    64,
	"SHA3-384":    96,
	"SHA3-512":    128,
	"MD2":         32,
	"MD4":         32,
	"MD5":         32,
	"MD6":         0,
	"ADLER32":     8,
	"BLAKE2b-256": 64,
	"BLAKE2b-384": 96,
	"BLAKE2b-512": 128,
	"BLAKE3":      0,
}

// CreatorPrefixes are the only legal prefixes of a creationInfo creator
// entry (clause 6.8).
var CreatorPrefixes = []string{"Person:", "Organization:", "Tool:"}

// ActorPrefixes are the legal prefixes of supplier and originator values
// (clauses 7.5 and 7.6); NOASSERTION is additionally allowed there.
var ActorPrefixes = []string{"Person:", "Organization:"}

func stringSet(values ...string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
