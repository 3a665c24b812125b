package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	content := `
include_external: true
top: 5
dim: 2
seed: 7
format: dot
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.True(t, cfg.IncludeExternal)
	assert.Equal(t, 5, cfg.Top)
	assert.Equal(t, 2, cfg.Dim)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "dot", cfg.Format)
	assert.Equal(t, ".py", cfg.Extension)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("top: 5\n"), 0o644))
	t.Setenv("VISUALDEP_TOP", "3")
	t.Setenv("VISUALDEP_INCLUDE_EXTERNAL", "true")
	t.Setenv("VISUALDEP_SEED", "99")

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Top)
	assert.True(t, cfg.IncludeExternal)
	assert.Equal(t, int64(99), cfg.Seed)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("VISUALDEP_DIM=2\n"), 0o644))
	t.Setenv("VISUALDEP_DIM", "")
	require.NoError(t, os.Unsetenv("VISUALDEP_DIM"))

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Dim)
}

func TestLoad_InvalidEnvironmentValue(t *testing.T) {
	t.Setenv("VISUALDEP_WORKERS", "many")

	_, err := Load(t.TempDir())

	assert.ErrorContains(t, err, "VISUALDEP_WORKERS")
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("top: [oops\n"), 0o644))

	_, err := Load(dir)

	assert.ErrorContains(t, err, FileName)
}

func TestLoad_LeavesValidationToCaller(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("dim: 4\n"), 0o644))

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Dim)
	assert.ErrorContains(t, cfg.Validate(), "invalid dim 4")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Dim = 4
	assert.ErrorContains(t, cfg.Validate(), "invalid dim")

	cfg = Default()
	cfg.Top = -1
	assert.ErrorContains(t, cfg.Validate(), "invalid top")
}
