package utils

import (
	"fmt"
	"go/ast"
	"os"
	"path/filepath"
	"strings"
)

// GeneratedFilePrefix marks files written by the generator
const GeneratedFilePrefix = "autogen_"

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{
		fileReader: NewFileReader(),
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// SourceFile is a parsed Go file and its path
type SourceFile struct {
	Path string
	File *ast.File
}

// DefaultGoFileFilter filters for .go files, excluding tests and autogen files
func DefaultGoFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			!strings.HasPrefix(name, GeneratedFilePrefix)
	}
}

// DefaultDirectoryFilter skips common directories that shouldn't contain source code
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()

		// hidden and underscore directories are ignored by the go tool too
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return false
		}

		return !skipDirs[name]
	}
}

// ScanDirectoriesWithGoFiles scans directories and returns those containing Go files
func (fp *FileProcessor) ScanDirectoriesWithGoFiles(rootDirs []string) ([]string, error) {
	var packageDirs []string
	visited := make(map[string]bool)

	for _, rootDir := range rootDirs {
		dirs, err := fp.scanDirectoryRecursive(rootDir, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, dirs...)
	}

	return packageDirs, nil
}

func (fp *FileProcessor) scanDirectoryRecursive(dir string, visited map[string]bool) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("path resolution %s", dir), err)
	}

	if visited[absDir] {
		return nil, nil
	}
	visited[absDir] = true

	var packageDirs []string

	hasGoFiles, err := fp.HasGoFiles(dir)
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("Go file check in %s", dir), err)
	}

	if hasGoFiles {
		packageDirs = append(packageDirs, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("directory read %s", dir), err)
	}

	directoryFilter := DefaultDirectoryFilter()

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		entryPath := filepath.Join(dir, entry.Name())
		if !directoryFilter(entryPath, entry) {
			continue
		}

		subDirs, err := fp.scanDirectoryRecursive(entryPath, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, subDirs...)
	}

	return packageDirs, nil
}

// HasGoFiles checks if a directory contains any .go files (excluding test files and autogen files)
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}

	fileFilter := DefaultGoFileFilter()

	for _, entry := range entries {
		if fileFilter(filepath.Join(dir, entry.Name()), entry) {
			return true, nil
		}
	}

	return false, nil
}

// ParseDirectoryFiles parses all Go files in a directory, in file name order
func (fp *FileProcessor) ParseDirectoryFiles(dirPath string) ([]SourceFile, string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, "", WrapProcessError(fmt.Sprintf("directory read %s", dirPath), err)
	}

	var files []SourceFile
	var packageName string
	fileFilter := DefaultGoFileFilter()

	for _, entry := range entries {
		filePath := filepath.Join(dirPath, entry.Name())
		if !fileFilter(filePath, entry) {
			continue
		}

		file, err := fp.fileReader.ParseGoFile(filePath)
		if err != nil {
			return nil, "", WrapProcessError(fmt.Sprintf("file parse %s", entry.Name()), err)
		}

		if packageName == "" {
			packageName = file.Name.Name
		} else if file.Name.Name != packageName {
			return nil, "", fmt.Errorf("multiple packages found in directory: %s and %s", packageName, file.Name.Name)
		}

		files = append(files, SourceFile{Path: filePath, File: file})
	}

	if len(files) == 0 {
		return nil, "", fmt.Errorf("no Go files found in directory %s", dirPath)
	}

	return files, packageName, nil
}

// CleanDirectories removes generated files called fileName from the
// directory trees rooted at baseDirs
func (fp *FileProcessor) CleanDirectories(baseDirs []string, fileName string) ([]string, error) {
	var removedFiles []string

	for _, baseDir := range baseDirs {
		if err := fp.cleanDirectory(baseDir, fileName, &removedFiles); err != nil {
			return removedFiles, WrapProcessError(fmt.Sprintf("directory clean %s", baseDir), err)
		}
	}

	return removedFiles, nil
}

func (fp *FileProcessor) cleanDirectory(baseDir, fileName string, removedFiles *[]string) error {
	startDir := "."
	if baseDir != "" {
		startDir = baseDir
	}

	directoryFilter := DefaultDirectoryFilter()
	return filepath.WalkDir(startDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			// unreadable directories are skipped
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if path != startDir && !directoryFilter(path, entry) {
			return filepath.SkipDir
		}
		return fp.cleanSingleDirectory(path, fileName, removedFiles)
	})
}

func (fp *FileProcessor) cleanSingleDirectory(dir, fileName string, removedFiles *[]string) error {
	target := filepath.Join(dir, fileName)

	if _, err := os.Stat(target); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return WrapProcessError(fmt.Sprintf("file check %s", target), err)
	}

	if err := os.Remove(target); err != nil {
		return WrapProcessError(fmt.Sprintf("file removal %s", target), err)
	}

	fp.fileReader.InvalidateFile(target)
	*removedFiles = append(*removedFiles, target)
	return nil
}

// GetFileReader returns the underlying FileReader for advanced operations
func (fp *FileProcessor) GetFileReader() *FileReader {
	return fp.fileReader
}
