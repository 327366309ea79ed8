package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calderanet/caldera-cli/internal/constants"
)

func TestLoadOrInitCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caldera.config.toml")

	cfg, err := LoadOrInit(path)
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultTemplateRepoURL, cfg.ProjectTemplateRepository.URL)
	assert.Equal(t, constants.DefaultProjectTemplateFolder, cfg.ProjectTemplateRepository.Folder)
	assert.Equal(t, constants.DefaultWasmTemplateFolder, cfg.WasmTemplateRepository.Folder)

	// The file must now exist and round-trip.
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadOrInitReplacesCorruptConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caldera.config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0600))

	cfg, err := LoadOrInit(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestOverride(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Override("wasm_template_repository.branch", "dev"))
	require.NoError(t, cfg.Override("project_template_repository.url", "https://example.com/repo"))
	require.NoError(t, cfg.Override("default_account", "acct_1"))

	assert.Equal(t, "dev", cfg.WasmTemplateRepository.Branch)
	assert.Equal(t, "https://example.com/repo", cfg.ProjectTemplateRepository.URL)
	assert.Equal(t, "acct_1", cfg.DefaultAccount)

	err := cfg.Override("wasm_template_repository.unknown", "x")
	assert.Error(t, err)
}

func TestParseOverride(t *testing.T) {
	key, value, err := ParseOverride("wasm_template_repository.folder=custom")
	require.NoError(t, err)
	assert.Equal(t, "wasm_template_repository.folder", key)
	assert.Equal(t, "custom", value)

	_, _, err = ParseOverride("")
	assert.Error(t, err)

	_, _, err = ParseOverride("no-equals-sign")
	assert.Error(t, err)

	_, _, err = ParseOverride("bogus.key=1")
	assert.Error(t, err)
}

func TestSaveIsAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "caldera.config.toml")

	cfg := Default()
	require.NoError(t, cfg.Save(path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not be left behind")
	assert.Equal(t, "caldera.config.toml", entries[0].Name())
}
