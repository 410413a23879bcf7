package crowdai

import (
	"path"

	"github.com/DSLituiev/unet-workbench/downloader"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Provision ensures the dataset is ready for the generator: the archive downloaded and
// extracted, and the annotations CSV in place. Each step is guarded by the existence of
// its target path, so re-running after a failure resumes where the previous run stopped
// and a fully provisioned workspace makes this a no-op.
//
// The two branches are independent: a labels fetch happens even when the archive branch
// was already satisfied, and vice versa.
func (w *Workspace) Provision() error {
	if err := w.ProvisionImages(); err != nil {
		return err
	}
	return w.ProvisionLabels()
}

// ProvisionImages ensures the extracted image directory exists, downloading and untarring
// the archive as needed. The archive file itself is kept after extraction; CleanRaw
// removes it.
func (w *Workspace) ProvisionImages() error {
	klog.V(1).Infof("Provisioning images: %q -> %q", w.ArchiveURL, w.ExtractedDir())
	// Archive and target directory go in as paths relative to BaseDir; the downloader
	// anchors them there, so a relative BaseDir works the same as an absolute one.
	err := downloader.DownloadAndUntarIfMissing(
		w.ArchiveURL, w.BaseDir, path.Join(DataSubdir, ArchiveFile), ExtractedSubdir, w.ArchiveSha256)
	if err != nil {
		return errors.WithMessage(err, "failed to provision the image archive")
	}
	return nil
}

// ProvisionLabels ensures the annotations CSV exists, downloading it if missing.
func (w *Workspace) ProvisionLabels() error {
	klog.V(1).Infof("Provisioning labels: %q -> %q", w.LabelsURL, w.LabelsPath())
	err := downloader.DownloadIfMissing(w.LabelsURL, w.LabelsPath(), w.LabelsSha256)
	if err != nil {
		return errors.WithMessage(err, "failed to provision the labels file")
	}
	return nil
}
