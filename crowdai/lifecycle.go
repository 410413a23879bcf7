package crowdai

import (
	"os"

	"github.com/DSLituiev/unet-workbench/pkg/support/fsutil"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Fresh removes the training state: the TensorBoard log directory and the model
// checkpoints. The trainer starts from scratch afterwards.
func (w *Workspace) Fresh() error {
	return removePaths(w.LogDir(), w.CheckpointDir())
}

// Clean removes everything the generator produced: resized images, masks and the resized
// labels CSV. The raw downloads stay, so the next generate run needs no network.
func (w *Workspace) Clean() error {
	return removePaths(w.ResizedDir(), w.MasksDir(), w.ResizedLabelsPath())
}

// CleanRaw removes the generated artifacts and then the raw data (downloads and the
// extracted images), returning the workspace to its pre-provisioning state.
func (w *Workspace) CleanRaw() error {
	if err := w.Clean(); err != nil {
		return err
	}
	return removePaths(w.DataDir(), w.ExtractedDir())
}

// removePaths removes each path recursively. Absent paths are fine: deletion is
// idempotent and may be invoked from any workspace state.
func removePaths(paths ...string) error {
	for _, p := range paths {
		klog.V(1).Infof("Removing %q", p)
		if err := os.RemoveAll(p); err != nil {
			return errors.Wrapf(err, "failed to remove %q", p)
		}
	}
	return nil
}

// ArtifactInfo describes one workspace entry for status reporting.
type ArtifactInfo struct {
	// Name is a short human-readable description of the artifact.
	Name string
	// Path of the artifact, file or directory.
	Path string
	// Present reports whether the path exists.
	Present bool
	// Bytes and Files total the artifact's contents. Zero when absent.
	Bytes int64
	Files int
}

// Scan stats every known workspace artifact, in provisioning order. It never fails on
// absent paths; those are reported with Present set to false.
func (w *Workspace) Scan() ([]ArtifactInfo, error) {
	entries := []ArtifactInfo{
		{Name: "image archive", Path: w.ArchivePath()},
		{Name: "labels", Path: w.LabelsPath()},
		{Name: "extracted images", Path: w.ExtractedDir()},
		{Name: "resized images", Path: w.ResizedDir()},
		{Name: "masks", Path: w.MasksDir()},
		{Name: "resized labels", Path: w.ResizedLabelsPath()},
		{Name: "training logs", Path: w.LogDir()},
		{Name: "checkpoints", Path: w.CheckpointDir()},
	}
	for ii := range entries {
		info := &entries[ii]
		present, err := fsutil.FileExists(info.Path)
		if err != nil {
			return nil, err
		}
		info.Present = present
		if !present {
			continue
		}
		info.Bytes, info.Files, err = fsutil.PathSize(info.Path)
		if err != nil {
			return nil, err
		}
	}
	return entries, nil
}
