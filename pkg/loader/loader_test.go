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

package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.spdx.json", `{"spdxVersion": "SPDX-2.3"}`)
	writeFile(t, dir, "a.spdx.json", `{`)
	writeFile(t, dir, "readme.txt", "not an SBOM")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	inputs, err := Directory(dir)
	require.NoError(t, err)
	require.Len(t, inputs, 3)

	// Name order, directories skipped.
	assert.Equal(t, "a.spdx.json", inputs[0].ID)
	assert.Equal(t, "b.spdx.json", inputs[1].ID)
	assert.Equal(t, "readme.txt", inputs[2].ID)

	assert.Error(t, inputs[0].LoadErr)
	assert.Contains(t, inputs[0].LoadErr.Error(), "not valid JSON")

	require.NoError(t, inputs[1].LoadErr)
	assert.Contains(t, inputs[1].Value, "spdxVersion")

	assert.Error(t, inputs[2].LoadErr)
	assert.Contains(t, inputs[2].LoadErr.Error(), Extension)
}

func TestDirectory_Unreadable(t *testing.T) {
	_, err := Directory(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.spdx.json", `{"name": "example"}`)

	in := File(filepath.Join(dir, "doc.spdx.json"))
	require.NoError(t, in.LoadErr)
	assert.Equal(t, "doc.spdx.json", in.ID)
	assert.Equal(t, map[string]any{"name": "example"}, in.Value)
}

func TestFile_Missing(t *testing.T) {
	in := File(filepath.Join(t.TempDir(), "gone.spdx.json"))
	assert.Error(t, in.LoadErr)
}

func TestFile_ExtensionIsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "DOC.SPDX.JSON", `{}`)

	in := File(filepath.Join(dir, "DOC.SPDX.JSON"))
	assert.NoError(t, in.LoadErr)
}
