package extern

import (
	"os"
	"path"
	"testing"

	"github.com/DSLituiev/unet-workbench/crowdai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// workspaceWithScript creates a workspace whose "python" is sh and whose generator is a
// shell script with the given body, so tests exercise the real subprocess plumbing.
func workspaceWithScript(t *testing.T, body string) *crowdai.Workspace {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(path.Join(dir, "generator.sh"), []byte(body), 0755))
	w := crowdai.New(dir)
	w.Python = "sh"
	w.Generator = "generator.sh"
	return w
}

func TestGenerate(t *testing.T) {
	// The generator must run with the workspace as its working directory: the script
	// writes through a relative path and the file must land under BaseDir.
	w := workspaceWithScript(t, "echo done > generated.txt\n")
	require.NoError(t, Generate(w))
	got, err := os.ReadFile(path.Join(w.BaseDir, "generated.txt"))
	require.NoError(t, err)
	assert.Equal(t, "done\n", string(got))
}

func TestGenerateExitCode(t *testing.T) {
	w := workspaceWithScript(t, "exit 3\n")
	err := Generate(w)
	require.Error(t, err)
	assert.Equal(t, 3, ExitCode(err))
}

func TestGenerateMissingInterpreter(t *testing.T) {
	w := crowdai.New(t.TempDir())
	w.Python = "no-such-python-interpreter"
	err := Generate(w)
	require.Error(t, err)
	assert.Equal(t, -1, ExitCode(err))
}

func TestTensorBoard(t *testing.T) {
	w := crowdai.New(t.TempDir())
	w.TensorBoard = "true"
	require.NoError(t, TensorBoard(w))

	w.TensorBoard = "false"
	err := TensorBoard(w)
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
}

func TestExitCodeNilSafety(t *testing.T) {
	assert.Equal(t, -1, ExitCode(nil))
}
