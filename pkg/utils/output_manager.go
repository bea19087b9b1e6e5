package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputManager handles output file placement inside a single data directory
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// EnsureOutputDirExists ensures the base output directory exists
func (om *OutputManager) EnsureOutputDirExists() error {
	if err := os.MkdirAll(om.BaseOutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// GetOutputFilePath generates a full path for an output file, creating the
// data directory if needed. Path separators in fileName are discarded.
func (om *OutputManager) GetOutputFilePath(fileName string) (string, error) {
	if err := om.EnsureOutputDirExists(); err != nil {
		return "", err
	}
	return om.FilePath(fileName), nil
}

// FilePath returns the path of fileName without touching the filesystem.
func (om *OutputManager) FilePath(fileName string) string {
	return filepath.Join(om.BaseOutputDir, filepath.Base(fileName))
}

// GetFileSize returns the size of a file in bytes
func (om *OutputManager) GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}
