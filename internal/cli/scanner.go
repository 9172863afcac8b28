package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/toyz/vtable/internal/errors"
	"github.com/toyz/vtable/internal/utils"
)

// recursiveSuffix marks a Go-style tree pattern such as ./...
const recursiveSuffix = "/..."

// DirectoryScanner finds the package directories named by command line
// patterns
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return NewDirectoryScannerWithProcessor(utils.NewFileProcessor())
}

// NewDirectoryScannerWithProcessor creates a scanner sharing fp's caches
func NewDirectoryScannerWithProcessor(fp *utils.FileProcessor) *DirectoryScanner {
	return &DirectoryScanner{fileProcessor: fp}
}

// ScanDirectories returns the absolute directories holding Go files. A
// pattern ending in /... includes every package below it; any other pattern
// names one directory, which must hold Go files. Each directory is returned
// once, in the order first seen.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)

	add := func(found ...string) {
		for _, dir := range found {
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}

	for _, pattern := range patterns {
		base, recursive := splitPattern(pattern)

		abs, err := filepath.Abs(base)
		if err != nil {
			return nil, errors.WrapWithOperation("process", fmt.Sprintf("path resolution %s", base), err)
		}

		if recursive {
			found, err := s.fileProcessor.ScanDirectoriesWithGoFiles([]string{abs})
			if err != nil {
				return nil, err
			}
			add(found...)
			continue
		}

		ok, err := s.fileProcessor.HasGoFiles(abs)
		if err != nil {
			return nil, errors.WrapFileSystemError("scan", abs, err)
		}
		if !ok {
			return nil, fmt.Errorf("no Go files found in directory %s", abs)
		}
		add(abs)
	}

	return dirs, nil
}

// splitPattern strips a trailing /... from pattern
func splitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}
	if !strings.HasSuffix(pattern, recursiveSuffix) {
		return pattern, false
	}
	base := strings.TrimSuffix(pattern, recursiveSuffix)
	if base == "" {
		base = "."
	}
	return base, true
}
