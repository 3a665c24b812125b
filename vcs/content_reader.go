package vcs

import (
	"fmt"
	"os"
	"sync/atomic"
)

// ContentReader is a function that reads file content given a file path.
// This allows the caller to control how files are read (filesystem, in-memory fixtures, etc.)
type ContentReader func(filePath string) ([]byte, error)

// FilesystemContentReader returns a ContentReader that reads files from disk.
func FilesystemContentReader() ContentReader {
	return func(filePath string) ([]byte, error) {
		content, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
		}
		return content, nil
	}
}

// MapContentReader returns a ContentReader backed by an in-memory map keyed by path.
func MapContentReader(files map[string]string) ContentReader {
	return func(filePath string) ([]byte, error) {
		content, ok := files[filePath]
		if !ok {
			return nil, fmt.Errorf("failed to read %s: %w", filePath, os.ErrNotExist)
		}
		return []byte(content), nil
	}
}

// CountingContentReader wraps reader and counts how many reads it served.
func CountingContentReader(reader ContentReader, reads *atomic.Int64) ContentReader {
	return func(filePath string) ([]byte, error) {
		reads.Add(1)
		return reader(filePath)
	}
}
