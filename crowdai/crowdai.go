// Package crowdai manages a local workspace for the CrowdAI vehicle detection dataset:
// downloading the image archive and the CSV annotations, extracting the archive, checking
// the artifacts written by the external generator, and tearing any of it down on request.
package crowdai

import (
	"os"
	"path"

	"github.com/DSLituiev/unet-workbench/pkg/support/fsutil"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// ArchiveURL is the remote location of the annotated image archive.
	ArchiveURL = "https://s3.amazonaws.com/udacity-sdc/annotations/object-detection-crowdai.tar.gz"
	// LabelsURL is the remote location of the CSV annotations.
	LabelsURL = "https://raw.githubusercontent.com/udacity/self-driving-car/master/annotations/labels_crowdai.csv"
)

// Workspace entries. All of them live under the workspace base directory; the archive and
// the labels go into DataSubdir, and the archive extracts into ExtractedSubdir because its
// member paths carry that prefix.
const (
	DataSubdir        = "data"
	ArchiveFile       = "object-detection-crowdai.tar.gz"
	LabelsFile        = "labels_crowdai.csv"
	ExtractedSubdir   = "object-detection-crowdai"
	ResizedSubdir     = "data_resized"
	MasksSubdir       = "masks_resized"
	ResizedLabelsFile = "labels_resized.csv"
	LogSubdir         = "logdir"
	CheckpointSubdir  = "models"
)

// External tool defaults, overridable per Workspace.
const (
	DefaultPython      = "python"
	DefaultGenerator   = "utils/data.py"
	DefaultTensorBoard = "tensorboard"
)

// Workspace holds every path, endpoint and tool name the workflow touches, so that nothing
// depends on the process working directory. Construct it with New; the zero value is not
// usable.
type Workspace struct {
	// BaseDir anchors all workspace entries. A leading "~" is expanded by New and LoadConfig.
	BaseDir string `yaml:"baseDir"`

	// ArchiveURL and LabelsURL are the remote endpoints to fetch from.
	ArchiveURL string `yaml:"archiveUrl"`
	LabelsURL  string `yaml:"labelsUrl"`

	// ArchiveSha256 and LabelsSha256, when set, are verified after each fetch and also on
	// files found already in place. A failed check removes the offending file, so the next
	// run downloads it again. Empty disables verification.
	ArchiveSha256 string `yaml:"archiveSha256"`
	LabelsSha256  string `yaml:"labelsSha256"`

	// Python is the interpreter used to run the generator script.
	Python string `yaml:"python"`
	// Generator is the script that produces the resized images, the masks and the resized
	// labels CSV. Relative paths resolve against BaseDir at launch time.
	Generator string `yaml:"generator"`
	// TensorBoard is the binary launched by the monitoring command.
	TensorBoard string `yaml:"tensorboard"`
}

// New creates a Workspace rooted at baseDir with the default endpoints and tools.
func New(baseDir string) *Workspace {
	return &Workspace{
		BaseDir:     fsutil.MustReplaceTildeInDir(baseDir),
		ArchiveURL:  ArchiveURL,
		LabelsURL:   LabelsURL,
		Python:      DefaultPython,
		Generator:   DefaultGenerator,
		TensorBoard: DefaultTensorBoard,
	}
}

// LoadConfig overlays settings from a YAML file onto the workspace. Keys absent from the
// file keep their current values.
func (w *Workspace) LoadConfig(filePath string) error {
	buf, err := os.ReadFile(fsutil.MustReplaceTildeInDir(filePath))
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %q", filePath)
	}
	if err = yaml.Unmarshal(buf, w); err != nil {
		return errors.Wrapf(err, "failed to parse config file %q", filePath)
	}
	w.BaseDir = fsutil.MustReplaceTildeInDir(w.BaseDir)
	return w.Validate()
}

// Validate reports the first missing setting the workflow cannot run without.
func (w *Workspace) Validate() error {
	if w.BaseDir == "" {
		return errors.New("workspace base directory is empty")
	}
	if w.ArchiveURL == "" {
		return errors.New("archive URL is empty")
	}
	if w.LabelsURL == "" {
		return errors.New("labels URL is empty")
	}
	if w.Python == "" {
		return errors.New("python interpreter is empty")
	}
	if w.Generator == "" {
		return errors.New("generator script is empty")
	}
	if w.TensorBoard == "" {
		return errors.New("tensorboard binary is empty")
	}
	return nil
}

// DataDir is where the raw downloads (archive and labels) are stored.
func (w *Workspace) DataDir() string { return path.Join(w.BaseDir, DataSubdir) }

// ArchivePath is the local destination of the image archive.
func (w *Workspace) ArchivePath() string { return path.Join(w.DataDir(), ArchiveFile) }

// LabelsPath is the local destination of the CSV annotations.
func (w *Workspace) LabelsPath() string { return path.Join(w.DataDir(), LabelsFile) }

// ExtractedDir is where the archive contents appear after extraction.
func (w *Workspace) ExtractedDir() string { return path.Join(w.BaseDir, ExtractedSubdir) }

// ResizedDir is where the generator writes the resized images.
func (w *Workspace) ResizedDir() string { return path.Join(w.BaseDir, ResizedSubdir) }

// MasksDir is where the generator writes the segmentation masks.
func (w *Workspace) MasksDir() string { return path.Join(w.BaseDir, MasksSubdir) }

// ResizedLabelsPath is the annotations CSV the generator writes for the resized images.
func (w *Workspace) ResizedLabelsPath() string { return path.Join(w.BaseDir, ResizedLabelsFile) }

// LogDir is where the external trainer writes TensorBoard summaries.
func (w *Workspace) LogDir() string { return path.Join(w.BaseDir, LogSubdir) }

// CheckpointDir is where the external trainer writes model checkpoints.
func (w *Workspace) CheckpointDir() string { return path.Join(w.BaseDir, CheckpointSubdir) }
