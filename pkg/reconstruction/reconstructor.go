package reconstruction

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"naivemip/internal/models"
	"naivemip/pkg/decoder"
)

// Params holds the ingestion parameters.
type Params struct {
	// InputDir is the directory holding the scan files of one series.
	// Every regular file in it is inspected; names and extensions are ignored.
	InputDir string

	// Decode controls how pixel payloads become intensities.
	Decode decoder.DecodeOptions
}

// Report summarizes one ingestion run.
type Report struct {
	Files    int
	Accepted int
	Skipped  int

	// RawMin and RawMax are the decoded intensity range before normalization.
	RawMin uint16
	RawMax uint16

	Dims  models.Dims
	Stats Stats
}

// Reconstructor builds the normalized volume from a directory of slices.
//
// The pipeline is synchronous and one-shot:
// 1. Enumerate regular files in the input directory
// 2. Decode each file, skipping anything that is not a primary axial image
// 3. Order and concatenate the slices (FoldSlices)
// 4. Remap intensities onto 0..255 (Normalize)
//
// Slices are local to Process and are released once the volume is built.
type Reconstructor struct {
	params *Params
	codec  decoder.Codec
	logger *slog.Logger
	report Report
}

// NewReconstructor creates a reconstructor that opens files through codec.
func NewReconstructor(params *Params, codec decoder.Codec, logger *slog.Logger) *Reconstructor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconstructor{
		params: params,
		codec:  codec,
		logger: logger,
	}
}

// Process runs the ingestion pipeline and returns the normalized volume.
func (r *Reconstructor) Process() (models.Volume, error) {
	files, err := ListFiles(r.params.InputDir)
	if err != nil {
		return models.Volume{}, err
	}
	r.report = Report{Files: len(files)}
	r.logger.Info("scanning input directory", "dir", r.params.InputDir, "files", len(files))

	accepted, err := r.loadSlices(files)
	if err != nil {
		return models.Volume{}, err
	}

	raw, err := FoldSlices(accepted)
	if err != nil {
		return models.Volume{}, err
	}
	r.report.Dims = raw.Dims

	lo, hi, _ := FoldMinMax(raw.Samples)
	r.report.RawMin, r.report.RawMax = lo, hi
	r.logger.Info("assembled volume", "dims", raw.Dims.String(), "min", lo, "max", hi)

	vol := Normalize(raw)
	if err := vol.Validate(); err != nil {
		return models.Volume{}, err
	}

	r.report.Stats = Summarize(vol)
	r.logger.Info("normalized volume",
		"samples", len(vol.Samples),
		"dimsProduct", vol.Dims.Len(),
		"min", r.report.Stats.Min,
		"max", r.report.Stats.Max,
		"mean", r.report.Stats.Mean,
		"stddev", r.report.Stats.StdDev)

	return vol, nil
}

// GetReport returns the summary of the last Process call
func (r *Reconstructor) GetReport() Report {
	return r.report
}

// loadSlices decodes every file. Any error is fatal for the run; only the
// orientation filter drops files.
func (r *Reconstructor) loadSlices(files []string) ([]models.Slice, error) {
	var accepted []models.Slice
	for _, path := range files {
		f, err := r.codec.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		slice, ok, err := decoder.Decode(f, r.params.Decode)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if !ok {
			r.report.Skipped++
			r.logger.Debug("skipping non primary axial file", "file", filepath.Base(path))
			continue
		}

		accepted = append(accepted, slice)
	}
	r.report.Accepted = len(accepted)
	r.logger.Info("decoded slices", "accepted", r.report.Accepted, "skipped", r.report.Skipped)
	return accepted, nil
}

// DirectoryUnreadableError reports a failure to enumerate the input directory.
type DirectoryUnreadableError struct {
	Dir string
	Err error
}

func (e *DirectoryUnreadableError) Error() string {
	return fmt.Sprintf("reading directory %s: %v", e.Dir, e.Err)
}

func (e *DirectoryUnreadableError) Unwrap() error { return e.Err }

// ListFiles returns the regular files directly inside dir, sorted by name.
// Subdirectories are not followed.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DirectoryUnreadableError{Dir: dir, Err: err}
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}
