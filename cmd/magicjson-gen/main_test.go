package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MAGICJSON_FIELD_TAG", "")
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"magicjson-gen"}, args...))
	return out.String(), err
}

func TestApp_Init(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "magicjson.yaml")

	out, err := runApp(t, "init", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file created!")

	config, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)

	_, err = runApp(t, "init", "--config", configPath)
	assert.Error(t, err)

	_, err = runApp(t, "init", "--config", configPath, "--force")
	assert.NoError(t, err)
}

func TestApp_Generate(t *testing.T) {
	dir := writeSources(t, map[string]string{"models.go": modelsSource})
	configPath := filepath.Join(t.TempDir(), "absent.yaml")

	_, err := runApp(t, "generate", "--config", configPath, dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "models_magic.go"))
	assert.NoError(t, err)
}

func TestApp_GenerateWithTagOverride(t *testing.T) {
	dir := writeSources(t, map[string]string{"rows.go": "package rows\n\ntype Row struct {\n\tID int `db:\"row_id\"`\n}\n"})
	configPath := filepath.Join(t.TempDir(), "absent.yaml")

	out, err := runApp(t, "generate", "--config", configPath, "--tag", "db", "--dry-run", "-v", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Would generate: "+filepath.Join(dir, "rows_magic.go"))
	assert.Contains(t, out, `{Name: "row_id", Ref: func(r any) any { return &r.(*Row).ID }},`)
}

func TestApp_InvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "magicjson.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("generation:\n  output_suffix: \"1bad\"\n"), 0644))

	_, err := runApp(t, "validate", "--config", configPath, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestApp_Validate(t *testing.T) {
	dir := writeSources(t, map[string]string{"models.go": modelsSource})
	configPath := filepath.Join(t.TempDir(), "absent.yaml")

	out, err := runApp(t, "validate", "--config", configPath, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "All validations passed")
}

func TestApp_Version(t *testing.T) {
	out, err := runApp(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "magicjson-gen magicjson v")
}
