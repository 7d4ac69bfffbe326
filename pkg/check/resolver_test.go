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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venslabs/sbomcheck/pkg/spdx"
)

func TestIndex_Resolve(t *testing.T) {
	doc := conformantDocument()
	idx, dupes := NewIndex(doc)
	require.Empty(t, dupes)

	tests := []struct {
		id   string
		kind EntityKind
	}{
		{"SPDXRef-DOCUMENT", KindDocument},
		{"SPDXRef-Package-libexample", KindPackage},
		{"SPDXRef-File-main", KindFile},
		{"SPDXRef-Snippet-1", KindSnippet},
	}
	for _, tt := range tests {
		ent, ok := idx.Resolve(tt.id)
		require.True(t, ok, tt.id)
		assert.Equal(t, tt.kind, ent.Kind)
	}

	_, ok := idx.Resolve("SPDXRef-ghost")
	assert.False(t, ok)

	lic, ok := idx.ResolveLicenseRef("LicenseRef-Internal")
	require.True(t, ok)
	assert.Equal(t, "internal license text", lic.ExtractedText)
	_, ok = idx.ResolveLicenseRef("LicenseRef-ghost")
	assert.False(t, ok)
}

func TestIndex_DuplicateIDKeepsFirstOccurrence(t *testing.T) {
	doc := conformantDocument()
	// A file reusing the package's SPDXID.
	doc.Files = append(doc.Files, &spdx.File{
		SPDXID:    "SPDXRef-Package-libexample",
		FileName:  "dup.c",
		Checksums: []spdx.Checksum{{Algorithm: "SHA1", Value: sha1OK}},
	})
	idx, dupes := NewIndex(doc)

	// Exactly one duplicate violation, and resolution still answers with
	// the first occurrence for downstream relationship checks.
	require.Len(t, dupes, 1)
	assert.Equal(t, CodeDuplicateID, dupes[0].RuleCode)
	assert.Equal(t, "SPDXRef-Package-libexample", dupes[0].EntitySPDXID)

	ent, ok := idx.Resolve("SPDXRef-Package-libexample")
	require.True(t, ok)
	assert.Equal(t, KindPackage, ent.Kind)
}

func TestIndex_DuplicateLicenseRef(t *testing.T) {
	doc := conformantDocument()
	doc.ExtractedLicenses = append(doc.ExtractedLicenses, &spdx.ExtractedLicense{
		LicenseID:     "LicenseRef-Internal",
		ExtractedText: "second text",
	})
	idx, dupes := NewIndex(doc)
	require.Len(t, dupes, 1)
	assert.Equal(t, CodeDuplicateID, dupes[0].RuleCode)

	lic, ok := idx.ResolveLicenseRef("LicenseRef-Internal")
	require.True(t, ok)
	assert.Equal(t, "internal license text", lic.ExtractedText)
}

func TestIndex_EmptyIDsAreIgnored(t *testing.T) {
	doc := &spdx.Document{
		Packages: []*spdx.Package{{Name: "anonymous"}, {Name: "also-anonymous"}},
	}
	_, dupes := NewIndex(doc)
	assert.Empty(t, dupes)
}
