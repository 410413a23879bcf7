package crowdai

import (
	"os"
	"path"

	"github.com/DSLituiev/unet-workbench/pkg/support/fsutil"
	"github.com/DSLituiev/unet-workbench/pkg/support/sets"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
)

// VehicleLabels are the annotation classes the generator keeps; everything else
// (pedestrians, traffic lights) is dropped from the resized labels.
var VehicleLabels = []string{"Car", "Truck"}

// labelFieldTypes pins the bounding-box columns to floats so the original and the
// generated CSVs compare cleanly even if one of them carries decimal points.
var labelFieldTypes = map[string]series.Type{
	"xmin": series.Float,
	"ymin": series.Float,
	"xmax": series.Float,
	"ymax": series.Float,
}

// boundingBoxColumns in the order they are reported on verification failures.
var boundingBoxColumns = []string{"xmin", "xmax", "ymin", "ymax"}

// LoadLabels reads a CrowdAI annotations CSV into a dataframe.
func LoadLabels(filePath string) (dataframe.DataFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(err, "failed to open labels file %q", filePath)
	}
	defer func() { _ = f.Close() }()
	df := dataframe.ReadCSV(f, dataframe.HasHeader(true), dataframe.WithTypes(labelFieldTypes))
	if df.Err != nil {
		return df, errors.Wrapf(df.Err, "failed to parse labels file %q", filePath)
	}
	return df, nil
}

// FilterVehicles keeps only the rows whose Label is one of VehicleLabels.
func FilterVehicles(df dataframe.DataFrame) dataframe.DataFrame {
	return df.Filter(dataframe.F{Colname: "Label", Comparator: series.In, Comparando: VehicleLabels})
}

// VerifyGenerated cross-checks the generator's resized labels CSV against the original
// annotations:
//
//   - the resized CSV has one row per vehicle annotation of the original (other classes
//     are dropped before comparing);
//   - it carries exactly one extra column, the mask path;
//   - no bounding-box coordinate grew: resizing can only shrink boxes;
//   - every mask file the extra column names exists in the workspace.
//
// It returns an error describing the first violated property, or nil when the generated
// data is consistent.
func (w *Workspace) VerifyGenerated() error {
	original, err := LoadLabels(w.LabelsPath())
	if err != nil {
		return err
	}
	original = FilterVehicles(original)
	if original.Err != nil {
		return errors.Wrapf(original.Err, "failed to filter vehicle annotations in %q", w.LabelsPath())
	}
	resized, err := LoadLabels(w.ResizedLabelsPath())
	if err != nil {
		return err
	}

	if original.Nrow() != resized.Nrow() {
		return errors.Errorf("row mismatch: %d vehicle annotations in %q but %d rows in %q",
			original.Nrow(), w.LabelsPath(), resized.Nrow(), w.ResizedLabelsPath())
	}
	if original.Ncol()+1 != resized.Ncol() {
		return errors.Errorf("column mismatch: %q must add exactly one column (the mask path) to the %d of %q, found %d",
			w.ResizedLabelsPath(), original.Ncol(), w.LabelsPath(), resized.Ncol())
	}
	for _, col := range boundingBoxColumns {
		origCol := original.Col(col)
		if origCol.Err != nil {
			return errors.Wrapf(origCol.Err, "column %q missing from %q", col, w.LabelsPath())
		}
		resCol := resized.Col(col)
		if resCol.Err != nil {
			return errors.Wrapf(resCol.Err, "column %q missing from %q", col, w.ResizedLabelsPath())
		}
		origValues, resValues := origCol.Float(), resCol.Float()
		grown := 0
		for ii, resValue := range resValues {
			if resValue > origValues[ii] {
				grown++
			}
		}
		if grown > 0 {
			return errors.Errorf("%d of %d rows in %q have %q greater than the original annotation",
				grown, resized.Nrow(), w.ResizedLabelsPath(), col)
		}
	}
	return w.checkMaskFiles(original, resized)
}

// checkMaskFiles finds the column the generator added, the mask path, and checks every
// file it names. Mask paths are relative to the workspace base directory.
func (w *Workspace) checkMaskFiles(original, resized dataframe.DataFrame) error {
	added := sets.MakeWith(resized.Names()...).Sub(sets.MakeWith(original.Names()...))
	if len(added) != 1 {
		return errors.Errorf("cannot identify the mask column in %q: %d columns beyond those of %q",
			w.ResizedLabelsPath(), len(added), w.LabelsPath())
	}
	var maskColumn string
	for col := range added {
		maskColumn = col
	}
	maskCol := resized.Col(maskColumn)
	if maskCol.Err != nil {
		return errors.Wrapf(maskCol.Err, "failed to read mask column %q of %q", maskColumn, w.ResizedLabelsPath())
	}
	missing := 0
	for _, maskPath := range maskCol.Records() {
		if !path.IsAbs(maskPath) {
			maskPath = path.Join(w.BaseDir, maskPath)
		}
		exists, err := fsutil.FileExists(maskPath)
		if err != nil {
			return err
		}
		if !exists {
			missing++
		}
	}
	if missing > 0 {
		return errors.Errorf("%d of %d mask files named by column %q of %q do not exist",
			missing, maskCol.Len(), maskColumn, w.ResizedLabelsPath())
	}
	return nil
}
