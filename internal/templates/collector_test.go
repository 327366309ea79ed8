package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calderanet/caldera-cli/internal/testutil"
)

func writeDescriptor(t *testing.T, dir, name, description string, extra map[string]string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0750))

	content := fmt.Sprintf("name = %q\ndescription = %q\n", name, description)
	if len(extra) > 0 {
		content += "\n[extra]\n"
		for k, v := range extra {
			content += fmt.Sprintf("%s = %q\n", k, v)
		}
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "template.toml"), []byte(content), 0600))
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	writeDescriptor(t, filepath.Join(root, "basic-project"), "basic", "d1", nil)
	writeDescriptor(t, filepath.Join(root, "templates", "nft"), "nft", "d2", map[string]string{"category": "tokens"})

	c := NewCollector(testutil.NewTestLogger(), root)
	catalog, err := c.Collect()
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.Zero(t, c.Skipped())

	basic, ok := FindByID(catalog, "basic")
	require.True(t, ok)
	assert.Equal(t, "basic", basic.Name())
	assert.Equal(t, "d1", basic.Description())
	assert.Equal(t, filepath.Join(root, "basic-project"), basic.Path())
	assert.Empty(t, basic.Extra())

	nft, ok := FindByID(catalog, "nft")
	require.True(t, ok)
	assert.Equal(t, "d2", nft.Description())
	assert.Equal(t, filepath.Join(root, "templates", "nft"), nft.Path())
	assert.Equal(t, map[string]string{"category": "tokens"}, nft.Extra())
}

func TestCollectEmptyRoot(t *testing.T) {
	c := NewCollector(testutil.NewTestLogger(), t.TempDir())
	catalog, err := c.Collect()
	require.NoError(t, err)
	assert.Empty(t, catalog)
}

func TestCollectMissingRoot(t *testing.T) {
	c := NewCollector(testutil.NewTestLogger(), filepath.Join(t.TempDir(), "no-such-folder"))
	catalog, err := c.Collect()
	require.NoError(t, err)
	assert.Empty(t, catalog)
}

func TestCollectSkipsMalformedDescriptors(t *testing.T) {
	root := t.TempDir()
	writeDescriptor(t, filepath.Join(root, "good-one"), "good_one", "valid", nil)
	writeDescriptor(t, filepath.Join(root, "zz-good-two"), "good_two", "valid", nil)

	// Interleaved invalid descriptors: empty name and broken TOML.
	badDir := filepath.Join(root, "mid-broken")
	require.NoError(t, os.MkdirAll(badDir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(badDir, "template.toml"), []byte("name = \"\"\ndescription = \"d\"\n"), 0600))

	worseDir := filepath.Join(root, "mid-worse")
	require.NoError(t, os.MkdirAll(worseDir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(worseDir, "template.toml"), []byte("???"), 0600))

	log, buf := testutil.NewBufferedLogger()
	c := NewCollector(log, root)
	catalog, err := c.Collect()
	require.NoError(t, err, "malformed descriptors must not abort the scan")

	require.Len(t, catalog, 2)
	assert.Equal(t, []string{"good_one", "good_two"}, IDs(catalog))
	assert.Equal(t, 2, c.Skipped())
	assert.Contains(t, buf.String(), "Skipping unparsable template descriptor")
}

func TestCollectOrderIsStable(t *testing.T) {
	root := t.TempDir()
	writeDescriptor(t, root, "root tpl", "at the root", nil)
	writeDescriptor(t, filepath.Join(root, "b-dir"), "beta", "d", nil)
	writeDescriptor(t, filepath.Join(root, "a-dir", "nested"), "alpha nested", "d", nil)
	writeDescriptor(t, filepath.Join(root, "a-dir"), "alpha", "d", nil)

	c := NewCollector(testutil.NewTestLogger(), root)

	first, err := c.Collect()
	require.NoError(t, err)

	// Own descriptor first, then subdirectories depth-first, lexicographic.
	assert.Equal(t, []string{"root_tpl", "alpha", "alpha_nested", "beta"}, IDs(first))

	second, err := c.Collect()
	require.NoError(t, err)
	assert.Equal(t, IDs(first), IDs(second))
}

func TestCollectDoesNotFollowSymlinkedDirectories(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	root := t.TempDir()
	writeDescriptor(t, filepath.Join(root, "real"), "real", "d", nil)

	outside := t.TempDir()
	writeDescriptor(t, outside, "outside", "d", nil)

	require.NoError(t, os.Symlink(outside, filepath.Join(root, "linked")))
	// A cycle back into the tree must not loop the walk either.
	require.NoError(t, os.Symlink(root, filepath.Join(root, "cycle")))

	c := NewCollector(testutil.NewTestLogger(), root)
	catalog, err := c.Collect()
	require.NoError(t, err)

	require.Len(t, catalog, 1)
	assert.Equal(t, "real", catalog[0].ID())
}

func TestCollectDuplicateIDsLastWins(t *testing.T) {
	root := t.TempDir()
	writeDescriptor(t, filepath.Join(root, "a-copy"), "Counter", "first copy", nil)
	writeDescriptor(t, filepath.Join(root, "b-copy"), "counter", "second copy", nil)

	c := NewCollector(testutil.NewTestLogger(), root)
	catalog, err := c.Collect()
	require.NoError(t, err)

	// Duplicates stay in the catalog; direct lookup resolves to the last one
	// discovered.
	require.Len(t, catalog, 2)
	found, ok := FindByID(catalog, "counter")
	require.True(t, ok)
	assert.Equal(t, "second copy", found.Description())
	assert.Equal(t, filepath.Join(root, "b-copy"), found.Path())
}

func TestCollectFromGitMirror(t *testing.T) {
	fixture := testutil.NewGitFixture(t, "main")
	fixture.WriteDescriptor("wasm_templates/counter", "counter", "A counter contract")
	fixture.Commit("add template")

	c := NewCollector(testutil.NewTestLogger(), filepath.Join(fixture.RemotePath, "wasm_templates"))
	catalog, err := c.Collect()
	require.NoError(t, err)

	require.Len(t, catalog, 1)
	assert.Equal(t, "counter", catalog[0].ID())
}

func TestTemplateIDNormalization(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "Basic Project", id: "basic_project"},
		{name: "nft-mint", id: "nft_mint"},
		{name: "CounterTemplate", id: "counter_template"},
		{name: "already_snake", id: "already_snake"},
	}

	for _, tt := range tests {
		tpl := NewTemplate(&Descriptor{Name: tt.name, Description: "d"}, "/tmp/x")
		assert.Equal(t, tt.id, tpl.ID(), "name %q", tt.name)
	}
}
