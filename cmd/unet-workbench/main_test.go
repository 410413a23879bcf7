package main

import (
	"os"
	"path"
	"testing"

	"github.com/DSLituiev/unet-workbench/crowdai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkspaceOverridePrecedence(t *testing.T) {
	dir := t.TempDir()
	configPath := path.Join(dir, "workbench.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(
		"python: python3\ngenerator: scripts/make_masks.py\n"), 0644))

	*flagBase = dir
	*flagConfig = configPath
	*flagPython = "python3.12"
	*flagGenerator = ""
	*flagTensorBoard = ""
	t.Cleanup(func() {
		*flagBase, *flagConfig, *flagPython = ".", "", ""
	})

	w, err := newWorkspace()
	require.NoError(t, err)
	// Flags beat the config file, the config file beats the defaults.
	assert.Equal(t, "python3.12", w.Python)
	assert.Equal(t, "scripts/make_masks.py", w.Generator)
	assert.Equal(t, "tensorboard", w.TensorBoard)
	assert.Equal(t, dir, w.BaseDir)
}

func TestMissingTools(t *testing.T) {
	w := crowdai.New(t.TempDir())
	w.Python = "sh"
	w.TensorBoard = "no-such-tensorboard-binary"

	missing := missingTools(w)
	assert.Contains(t, missing, "no-such-tensorboard-binary")
	// The generator script is reported too: it isn't in the fresh workspace yet.
	assert.Contains(t, missing, w.Generator)
	assert.NotContains(t, missing, "sh")

	// Once the script exists under the base directory it drops from the report.
	require.NoError(t, os.MkdirAll(path.Join(w.BaseDir, "utils"), 0755))
	require.NoError(t, os.WriteFile(path.Join(w.BaseDir, "utils", "data.py"), []byte("pass\n"), 0644))
	missing = missingTools(w)
	assert.NotContains(t, missing, w.Generator)
}

func TestNewWorkspaceMissingConfig(t *testing.T) {
	*flagBase = t.TempDir()
	*flagConfig = path.Join(*flagBase, "no-such.yaml")
	t.Cleanup(func() { *flagBase, *flagConfig = ".", "" })

	_, err := newWorkspace()
	require.Error(t, err)
}
