package tts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
)

// WithTempFile creates an exclusively owned temporary file in dir
// (os.TempDir when dir is empty), closes it and passes its path to fn.
// The file is removed when fn returns, on success, on error and on panic.
//
// A removal failure is logged and never replaces fn's result.
func WithTempFile(dir, pattern string, fn func(path string) error) error {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer RemoveTemp(path)

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	return fn(path)
}

// RemoveTemp deletes path. A file that is already gone is not an error;
// anything else is logged.
func RemoveTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Failed to remove temp file", "path", path, "error", err)
		return
	}
	log.Debug("Removed temp file", "path", path)
}

// ReadOutputFile reads audio a backend wrote to path. A missing or zero
// sized file means the backend produced nothing.
func ReadOutputFile(engine EngineID, path string) ([]byte, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.Size() == 0) {
		return nil, OutputEmpty(engine).WithContext("path", path)
	}
	if err != nil {
		return nil, GenerationFailed(engine, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, GenerationFailed(engine, fmt.Errorf("failed to read output: %w", err))
	}
	return data, nil
}
