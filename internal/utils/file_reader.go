package utils

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
)

// FileReader provides common file reading functionality with caching
type FileReader struct {
	fileSet      *token.FileSet
	astCache     *FileCache[*ast.File]
	contentCache *FileCache[string]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		fileSet:      token.NewFileSet(),
		astCache:     NewFileCache[*ast.File](),
		contentCache: NewFileCache[string](),
	}
}

// ParseGoFile parses a Go source file and returns the AST with caching
func (fr *FileReader) ParseGoFile(filePath string) (*ast.File, error) {
	cleanPath, err := fr.cleanPath(filePath)
	if err != nil {
		return nil, err
	}

	if cached, ok := fr.astCache.Get(cleanPath); ok {
		return cached, nil
	}

	file, err := parser.ParseFile(fr.fileSet, cleanPath, nil, parser.ParseComments)
	if err != nil {
		return nil, WrapParseError("Go file "+filepath.Base(cleanPath), err)
	}

	_ = fr.astCache.Set(cleanPath, file)
	return file, nil
}

// ParseGoSource parses Go source code from a string
func (fr *FileReader) ParseGoSource(filename, source string) (*ast.File, error) {
	file, err := parser.ParseFile(fr.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, WrapParseError("Go source", err)
	}
	return file, nil
}

// ReadFile reads a file and returns its contents as a string with caching
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath, err := fr.cleanPath(filePath)
	if err != nil {
		return "", err
	}

	if cached, ok := fr.contentCache.Get(cleanPath); ok {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
	}

	_ = fr.contentCache.Set(cleanPath, string(content))
	return string(content), nil
}

// GetFileSet returns the token.FileSet used by this reader
func (fr *FileReader) GetFileSet() *token.FileSet {
	return fr.fileSet
}

// InvalidateFile removes a specific file from the cache
func (fr *FileReader) InvalidateFile(filePath string) {
	cleanPath := filepath.Clean(filePath)
	fr.astCache.Delete(cleanPath)
	fr.contentCache.Delete(cleanPath)
}

// GetCacheStats returns statistics about the cache
func (fr *FileReader) GetCacheStats() (astFiles, contentFiles int) {
	return fr.astCache.Len(), fr.contentCache.Len()
}

func (fr *FileReader) cleanPath(filePath string) (string, error) {
	if err := NotEmpty("filePath")(filePath); err != nil {
		return "", fmt.Errorf("file path %w", err)
	}

	cleanPath := filepath.Clean(filePath)
	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", cleanPath)
	}

	return cleanPath, nil
}
