package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"k8s.io/klog/v2"

	"econ-data-pipeline/internal/config"
	"econ-data-pipeline/internal/model"
	"econ-data-pipeline/pkg/utils"
)

// Sink is the durable storage for pipeline outputs. Each Write fully replaces
// the document stored under name.
type Sink interface {
	Write(name string, v any) error
}

// FileSink writes indented UTF-8 JSON documents into a data directory.
type FileSink struct {
	om *utils.OutputManager
}

// NewFileSink creates a sink rooted at dir. The directory is created on the
// first write.
func NewFileSink(dir string) *FileSink {
	return &FileSink{om: utils.NewOutputManager(dir)}
}

// Path returns the file backing name.
func (s *FileSink) Path(name string) string {
	return s.om.FilePath(name)
}

// Write encodes v into name, truncating any previous content.
func (s *FileSink) Write(name string, v any) error {
	path, err := s.om.GetOutputFilePath(name)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

// Read decodes the document stored under name into v.
func (s *FileSink) Read(name string, v any) error {
	data, err := os.ReadFile(s.om.FilePath(name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// ExportManager performs the three named writes of a run
type ExportManager struct {
	sink  Sink
	files config.OutputConfig
}

// NewExportManager creates an export manager writing the configured file names.
func NewExportManager(sink Sink, files config.OutputConfig) *ExportManager {
	return &ExportManager{sink: sink, files: files}
}

// Export writes the raw list, the organized dataset and its "latest" alias,
// in that order, and stops at the first failure. Documents written before a
// failure are left in place.
func (em *ExportManager) Export(ctx context.Context, records []model.Observation, organized *model.OrganizedDataset) ([]model.ExportResult, error) {
	log := klog.FromContext(ctx)

	writes := []struct {
		name string
		v    any
	}{
		{em.files.RawFile, records},
		{em.files.OrganizedFile, organized},
		{em.files.LatestFile, organized},
	}

	results := make([]model.ExportResult, 0, len(writes))
	for _, w := range writes {
		result := model.ExportResult{
			Name:        w.name,
			Path:        em.path(w.name),
			RecordCount: len(records),
			Timestamp:   time.Now(),
		}

		if err := em.sink.Write(w.name, w.v); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			log.Error(err, "Failed to save output", "name", w.name)
			return results, fmt.Errorf("%w: %s: %v", ErrPersist, w.name, err)
		}

		result.Success = true
		result.Size = em.size(result.Path)
		results = append(results, result)
		log.Info("Saved output", "name", w.name, "path", result.Path, "bytes", result.Size)
	}

	return results, nil
}

func (em *ExportManager) path(name string) string {
	if p, ok := em.sink.(interface{ Path(string) string }); ok {
		return p.Path(name)
	}
	return name
}

func (em *ExportManager) size(path string) int64 {
	fs, ok := em.sink.(*FileSink)
	if !ok {
		return 0
	}
	n, _ := fs.om.GetFileSize(path)
	return n
}
