package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toyz/vtable/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// CleanGeneratedFiles removes the generated file called fileName from the
// directories named by patterns and returns the removed paths
func (c *Cleaner) CleanGeneratedFiles(patterns []string, fileName string) ([]string, error) {
	var removed []string

	for _, pattern := range patterns {
		base, recursive := splitPattern(pattern)

		if recursive {
			files, err := c.fileProcessor.CleanDirectories([]string{base}, fileName)
			removed = append(removed, files...)
			if err != nil {
				return removed, fmt.Errorf("failed to clean directory %s: %w", base, err)
			}
			continue
		}

		target := filepath.Join(base, fileName)
		if err := os.Remove(target); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("failed to remove file %s: %w", target, err)
		}
		removed = append(removed, target)
	}

	return removed, nil
}
