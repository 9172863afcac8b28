package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/toyz/vtable/internal/delegates"
	"github.com/toyz/vtable/internal/errors"
	"github.com/toyz/vtable/internal/generator"
	"github.com/toyz/vtable/internal/models"
	"github.com/toyz/vtable/internal/parser"
	"github.com/toyz/vtable/internal/registry"
	"github.com/toyz/vtable/internal/utils"
)

// Generator coordinates the CLI generation process
type Generator struct {
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	parser         *parser.Parser
	registry       *registry.Registry
	delegates      *delegates.Registry
	diagnostics    *utils.DiagnosticSystem
	out            io.Writer
	workDir        string
	summary        GenerationSummary
}

// NewGenerator creates a new CLI generator reporting through diagnostics
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	fp := utils.NewFileProcessor()
	return &Generator{
		scanner:        NewDirectoryScannerWithProcessor(fp),
		moduleResolver: NewModuleResolverWithReader(fp.GetFileReader()),
		parser:         parser.NewParserWithProcessor(fp),
		registry:       registry.NewRegistry(),
		delegates:      delegates.NewRegistry(),
		diagnostics:    diagnostics,
		out:            os.Stdout,
	}
}

// WithOutput sets where --list output goes
func (g *Generator) WithOutput(w io.Writer) *Generator {
	g.out = w
	return g
}

// WithWorkDir sets the directory go.mod and the configuration file are
// searched from
func (g *Generator) WithWorkDir(dir string) *Generator {
	g.workDir = dir
	g.moduleResolver.WithWorkDir(dir)
	return g
}

// GetSummary returns the generation summary
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run executes the complete generation process. Declarations of every
// package are registered before any package is validated, so bases may live
// in any scanned package or in any package of the module they import. No
// file is written unless every package succeeds.
func (g *Generator) Run(ctx context.Context, config Config) error {
	startTime := time.Now()
	g.summary = GenerationSummary{GeneratedFiles: make([]string, 0)}
	g.registry = registry.NewRegistry()
	g.delegates = delegates.NewRegistry()

	g.diagnostics.Verbose("Starting code generation at %s", startTime.Format("15:04:05"))
	g.diagnostics.Debug("Scanning directories: %v", config.Directories)

	if err := config.Load(g.workDir); err != nil {
		return err
	}
	if err := g.configure(config); err != nil {
		return err
	}

	moduleName, err := g.moduleResolver.ResolveModuleName(config.ModuleName)
	if err != nil {
		return errors.Wrap(errors.ConfigurationErrorCode, err.Error(), err).
			WithContext("provided_module", config.ModuleName).
			WithSuggestion("Run from inside a module or pass --module")
	}
	g.diagnostics.Debug("Resolved module name: %s (root %s)", moduleName, g.moduleResolver.Root())

	packageDirs, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		return errors.Wrap(errors.FileSystemErrorCode, fmt.Sprintf("failed to scan directories: %v", err), err).
			WithContext("directories", config.Directories).
			WithSuggestion("Check that the specified directories exist")
	}
	if len(packageDirs) == 0 {
		return errors.New(errors.ValidationErrorCode, "no Go packages found in specified directories").
			WithContext("directories", config.Directories).
			WithSuggestion("Ensure the directories contain Go files or use the ./... pattern")
	}

	g.diagnostics.PhaseHeader("Discovering declarations")
	packages, err := g.discover(packageDirs)
	if err != nil {
		return err
	}
	g.summary.PackagesProcessed = len(packageDirs)

	if config.List {
		return g.list(packages)
	}

	g.diagnostics.PhaseHeader("Generating descriptors")
	files, err := g.generate(packages, config.OutputName())
	if err != nil {
		return err
	}

	for _, file := range files {
		if err := os.WriteFile(file.FilePath, []byte(file.Content), 0o644); err != nil {
			return errors.WrapFileSystemError("write", file.FilePath, err)
		}
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, file.FilePath)
		g.diagnostics.PhaseItem(fmt.Sprintf("%s (%d descriptors, %d slots, %d reflected)",
			relativeTo(g.moduleResolver.Root(), file.FilePath), file.Descriptors, file.Slots, file.Reflectors))
	}

	if config.Verify && len(files) > 0 {
		g.diagnostics.PhaseHeader("Verifying generated packages")
		var importPaths []string
		for _, pkg := range packages {
			if !pkg.IsEmpty() {
				importPaths = append(importPaths, pkg.PackagePath)
			}
		}
		if err := generator.NewVerifier(g.moduleResolver.Root()).Verify(ctx, importPaths...); err != nil {
			return errors.VerificationFailed(err)
		}
		g.diagnostics.PhaseItem(fmt.Sprintf("%d packages type-check", len(importPaths)))
	}

	g.diagnostics.Verbose("Finished in %s", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// configure applies the configuration to the parser and delegate registry
func (g *Generator) configure(config Config) error {
	if err := g.delegates.RegisterTemplates(config.Templates); err != nil {
		return errors.ConfigurationError("templates", err.Error())
	}
	for _, name := range config.Delegates {
		if _, err := g.delegates.Get(name); err != nil {
			return errors.ConfigurationError("delegates", err.Error())
		}
	}
	g.parser.SetDefaultDelegates(config.Delegates)
	return nil
}

// discover parses every package and registers its declarations. Parse and
// registration errors of all packages are reported together.
func (g *Generator) discover(packageDirs []string) ([]*models.PackageMetadata, error) {
	var packages []*models.PackageMetadata
	multi := errors.NewMultipleErrors()

	for i, dir := range packageDirs {
		importPath, err := g.moduleResolver.BuildPackagePath(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ConfigurationErrorCode, err.Error(), err).
				WithContext("package_directory", dir)
		}
		g.diagnostics.Debug("Parsing package %d/%d: %s", i+1, len(packageDirs), importPath)

		metadata, err := g.parser.ParsePackage(dir, importPath)
		if err != nil {
			multi.AddError(err)
		}
		if metadata == nil {
			continue
		}
		if err := g.registry.RegisterPackage(metadata); err != nil {
			multi.AddError(err)
		}

		g.summary.InterfacesFound += len(metadata.Interfaces)
		g.summary.StructsFound += len(metadata.Structs)
		if !metadata.IsEmpty() {
			g.diagnostics.PhaseItem(fmt.Sprintf("%s: %d interfaces, %d reflected structs",
				importPath, len(metadata.Interfaces), len(metadata.Structs)))
		}
		packages = append(packages, metadata)
	}

	if err := multi.ErrorOrNil(); err != nil {
		return nil, err
	}
	if err := g.discoverBases(packages); err != nil {
		return nil, err
	}
	return packages, nil
}

// discoverBases registers the declarations of module packages that scanned
// packages reference but that were not scanned themselves, following their
// references in turn. Nothing is generated for them.
func (g *Generator) discoverBases(packages []*models.PackageMetadata) error {
	loaded := make(map[string]bool)
	for _, pkg := range packages {
		loaded[pkg.PackagePath] = true
	}

	multi := errors.NewMultipleErrors()
	queue := append([]*models.PackageMetadata(nil), packages...)
	for len(queue) > 0 {
		metadata := queue[0]
		queue = queue[1:]

		for _, importPath := range referencedPackages(metadata) {
			if loaded[importPath] {
				continue
			}
			loaded[importPath] = true

			// packages of other modules stay undeclared and are reported
			// by validation
			dir, ok := g.moduleResolver.PackageDir(importPath)
			if !ok {
				continue
			}
			if hasGo, err := g.scanner.fileProcessor.HasGoFiles(dir); err != nil || !hasGo {
				continue
			}

			g.diagnostics.Debug("Loading declarations of %s", importPath)
			base, err := g.parser.ParsePackage(dir, importPath)
			if err != nil {
				multi.AddError(err)
			}
			if base == nil {
				continue
			}
			if err := g.registry.RegisterPackage(base); err != nil {
				multi.AddError(err)
			}
			queue = append(queue, base)
		}
	}
	return multi.ErrorOrNil()
}

// referencedPackages returns the other packages holding bases or embedded
// structs of metadata's declarations, in first-seen order
func referencedPackages(metadata *models.PackageMetadata) []string {
	var paths []string
	seen := map[string]bool{metadata.PackagePath: true}
	add := func(ref models.BaseRef) {
		if !seen[ref.PackagePath] {
			seen[ref.PackagePath] = true
			paths = append(paths, ref.PackagePath)
		}
	}
	for _, decl := range metadata.Interfaces {
		for _, base := range decl.Bases {
			add(base)
		}
	}
	for _, decl := range metadata.Structs {
		for _, embed := range decl.Embeds {
			add(embed.Ref)
		}
	}
	return paths
}

// generate renders the file of every package holding declarations
func (g *Generator) generate(packages []*models.PackageMetadata, fileName string) ([]*models.GeneratedFile, error) {
	codeGenerator := generator.NewGenerator(g.registry, g.delegates).WithFileName(fileName)

	var files []*models.GeneratedFile
	multi := errors.NewMultipleErrors()
	for _, metadata := range packages {
		file, err := codeGenerator.GeneratePackage(metadata)
		if err != nil {
			multi.AddError(err)
			continue
		}
		if file == nil {
			continue
		}
		g.summary.Descriptors += file.Descriptors
		g.summary.Slots += file.Slots
		g.summary.Reflectors += file.Reflectors
		files = append(files, file)
	}

	if err := multi.ErrorOrNil(); err != nil {
		return nil, err
	}
	return files, nil
}

// list prints every interface of the scanned packages with its slots in
// visit order
func (g *Generator) list(packages []*models.PackageMetadata) error {
	scanned := make(map[string]bool)
	for _, pkg := range packages {
		scanned[pkg.PackagePath] = true
	}

	multi := errors.NewMultipleErrors()
	for _, decl := range g.registry.Interfaces() {
		if !scanned[decl.PackagePath] {
			continue
		}
		if err := g.registry.ValidateInterface(decl.Identity()); err != nil {
			multi.AddError(err)
			continue
		}
		members, err := g.registry.Linearize(decl.Identity())
		if err != nil {
			multi.AddError(err)
			continue
		}

		fmt.Fprintf(g.out, "%s [%s]\n", decl.QualifiedName(), strings.Join(decl.Delegates, ", "))
		for _, m := range members {
			if m.Owner == decl {
				fmt.Fprintf(g.out, "  %s\n", m.Member.Name)
			} else {
				fmt.Fprintf(g.out, "  %s (%s)\n", m.Member.Name, m.Owner.QualifiedName())
			}
		}
	}
	return multi.ErrorOrNil()
}

// Clean removes generated files from the directories named by patterns
func (g *Generator) Clean(config Config) ([]string, error) {
	if err := config.Load(g.workDir); err != nil {
		return nil, err
	}
	removed, err := NewCleaner().CleanGeneratedFiles(config.Directories, config.OutputName())
	for _, file := range removed {
		g.diagnostics.PhaseItem("removed " + file)
	}
	return removed, err
}

func relativeTo(root, path string) string {
	if root == "" {
		return path
	}
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
