// Package extern launches the workflow's external collaborators, the derived-data
// generator and TensorBoard, as subprocesses. They are opaque programs: no output is
// parsed and no preconditions are checked on their behalf, their exit codes are simply
// surfaced back to the caller.
package extern

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/DSLituiev/unet-workbench/crowdai"
	"github.com/pkg/errors"
)

// Generate runs the generator script that turns the provisioned dataset into resized
// images, masks and the resized labels CSV. It blocks until the generator exits.
//
// The subprocess runs with the workspace base directory as its working directory: the
// script addresses the dataset through relative paths.
func Generate(w *crowdai.Workspace) error {
	cmd := exec.Command(w.Python, w.Generator)
	cmd.Dir = w.BaseDir
	return run(cmd)
}

// TensorBoard launches the visualization server pointed at the training log directory.
// It blocks until the server exits, usually on the operator's interrupt.
func TensorBoard(w *crowdai.Workspace) error {
	cmd := exec.Command(w.TensorBoard, "--logdir="+w.LogDir())
	cmd.Dir = w.BaseDir
	return run(cmd)
}

// run executes cmd with the operator's stdio attached.
func run(cmd *exec.Cmd) error {
	fmt.Printf("Running %s ...\n", cmd)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "failed to run %q", cmd)
	}
	return nil
}

// ExitCode returns the exit code carried by err when it came from a subprocess that ran
// and exited non-zero, or -1 when err carries no exit code (e.g. the program could not
// be started at all).
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
