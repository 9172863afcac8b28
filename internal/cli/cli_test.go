package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/vtable/internal/utils"
)

const shapesFile = `package shapes

//vtable::interface -Delegates=Mirror,Erased
type Shape interface {
	Area() float64
	Perimeter() float64
}

//vtable::interface -Delegates=Mirror,Erased
type Circle interface {
	Shape
	Radius() float64
}

//vtable::reflect
type Point struct {
	X, Y float64
}
`

const solidsFile = `package solids

import "example.com/demo/shapes"

//vtable::interface
type Solid interface {
	shapes.Shape
	Volume() float64
}
`

// writeModule creates a module called example.com/demo holding files, keyed
// by slash separated path
func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	files["go.mod"] = "module example.com/demo\n\ngo 1.22\n"
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func newTestGenerator(root string) *Generator {
	diagnostics := utils.NewDiagnosticSystemWithWriters(utils.DiagnosticSilent, io.Discard, io.Discard)
	return NewGenerator(diagnostics).WithWorkDir(root)
}

func TestGeneratorRun(t *testing.T) {
	root := writeModule(t, map[string]string{
		"shapes/shapes.go": shapesFile,
		"solids/solids.go": solidsFile,
		"plain/plain.go":   "package plain\n\nfunc F() {}\n",
	})

	gen := newTestGenerator(root)
	err := gen.Run(context.Background(), Config{Directories: []string{root + "/..."}})
	require.NoError(t, err)

	summary := gen.GetSummary()
	assert.Equal(t, 3, summary.PackagesProcessed)
	assert.Equal(t, 3, summary.InterfacesFound)
	assert.Equal(t, 1, summary.StructsFound)
	assert.Equal(t, 5, summary.Descriptors)
	assert.Equal(t, 7, summary.Slots)
	assert.Equal(t, 1, summary.Reflectors)
	assert.Len(t, summary.GeneratedFiles, 2)

	shapes, err := os.ReadFile(filepath.Join(root, "shapes", "autogen_vtable.go"))
	require.NoError(t, err)
	assert.Contains(t, string(shapes), "type CircleErasedVTable struct {")
	assert.Contains(t, string(shapes), "func (r *Point) VisitFields(v vtable.FieldVisitor) {")

	solids, err := os.ReadFile(filepath.Join(root, "solids", "autogen_vtable.go"))
	require.NoError(t, err)
	assert.Contains(t, string(solids), `"example.com/demo/shapes"`)
	assert.Contains(t, string(solids), "\tshapes.ShapeMirrorVTable\n")
	assert.NotContains(t, string(solids), "SolidErasedVTable")

	assert.NoFileExists(t, filepath.Join(root, "plain", "autogen_vtable.go"))
}

func TestGeneratorRunWritesNothingOnError(t *testing.T) {
	root := writeModule(t, map[string]string{
		"shapes/shapes.go": shapesFile,
		"broken/broken.go": `package broken

//vtable::interface
type Broken interface {
	Missing
}

type Missing interface{}
`,
	})

	gen := newTestGenerator(root)
	err := gen.Run(context.Background(), Config{Directories: []string{root + "/..."}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base 'Missing' of 'broken.Broken' is not declared")

	assert.NoFileExists(t, filepath.Join(root, "shapes", "autogen_vtable.go"))
	assert.NoFileExists(t, filepath.Join(root, "broken", "autogen_vtable.go"))
}

func TestGeneratorRunCollectsParseErrors(t *testing.T) {
	root := writeModule(t, map[string]string{
		"a/a.go": "package a\n\n//vtable::interface -Virtual\ntype A interface{}\n",
		"b/b.go": "package b\n\n//vtable::interface\ntype B struct{}\n",
	})

	err := newTestGenerator(root).Run(context.Background(), Config{Directories: []string{root + "/..."}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parameter 'Virtual'")
	assert.Contains(t, err.Error(), "'b.B' is a struct")
}

func TestGeneratorRunList(t *testing.T) {
	root := writeModule(t, map[string]string{
		"shapes/shapes.go": shapesFile,
		"solids/solids.go": solidsFile,
	})

	var out bytes.Buffer
	gen := newTestGenerator(root).WithOutput(&out)
	err := gen.Run(context.Background(), Config{Directories: []string{root + "/..."}, List: true})
	require.NoError(t, err)

	assert.Equal(t, "shapes.Shape [Mirror, Erased]\n"+
		"  Area\n"+
		"  Perimeter\n"+
		"shapes.Circle [Mirror, Erased]\n"+
		"  Area (shapes.Shape)\n"+
		"  Perimeter (shapes.Shape)\n"+
		"  Radius\n"+
		"solids.Solid [Mirror]\n"+
		"  Area (shapes.Shape)\n"+
		"  Perimeter (shapes.Shape)\n"+
		"  Volume\n", out.String())
	assert.NoFileExists(t, filepath.Join(root, "shapes", "autogen_vtable.go"))
}

func TestGeneratorRunLoadsBasesFromUnscannedPackages(t *testing.T) {
	root := writeModule(t, map[string]string{
		"shapes/shapes.go": shapesFile,
		"solids/solids.go": solidsFile,
	})

	gen := newTestGenerator(root)
	err := gen.Run(context.Background(), Config{Directories: []string{root + "/solids"}})
	require.NoError(t, err)

	summary := gen.GetSummary()
	assert.Equal(t, 1, summary.PackagesProcessed)
	assert.Equal(t, 1, summary.Descriptors)
	assert.Equal(t, []string{filepath.Join(root, "solids", "autogen_vtable.go")}, summary.GeneratedFiles)

	solids, err := os.ReadFile(filepath.Join(root, "solids", "autogen_vtable.go"))
	require.NoError(t, err)
	assert.Contains(t, string(solids), "\tshapes.ShapeMirrorVTable\n")
	assert.NoFileExists(t, filepath.Join(root, "shapes", "autogen_vtable.go"))

	var out bytes.Buffer
	err = newTestGenerator(root).WithOutput(&out).
		Run(context.Background(), Config{Directories: []string{root + "/solids"}, List: true})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "solids.Solid [Mirror]\n"), out.String())
	assert.NotContains(t, out.String(), "shapes.Circle")
}

func TestGeneratorRunReportsBasesOutsideModule(t *testing.T) {
	root := writeModule(t, map[string]string{
		"solids/solids.go": `package solids

import "example.org/elsewhere/shapes"

//vtable::interface
type Solid interface {
	shapes.Shape
	Volume() float64
}
`,
	})

	err := newTestGenerator(root).Run(context.Background(), Config{Directories: []string{root + "/solids"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base 'shapes.Shape' of 'solids.Solid' is not declared")
}

func TestGeneratorRunRejectsSharedDescriptorPrefix(t *testing.T) {
	root := writeModule(t, map[string]string{
		"geo/geo.go": `package geo

//vtable::interface -Name=Geo
type Line interface {
	Length() float64
}

//vtable::interface -Name=Geo
type Area interface {
	Size() float64
}
`,
	})

	err := newTestGenerator(root).Run(context.Background(), Config{Directories: []string{root + "/geo"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'geo.Area' generates type 'GeoMirrorVTable', which is already generated for 'geo.Line'")
	assert.NoFileExists(t, filepath.Join(root, "geo", "autogen_vtable.go"))
}

func TestGeneratorRunConfigFile(t *testing.T) {
	root := writeModule(t, map[string]string{
		"shapes/shapes.go": `package shapes

//vtable::interface
type Shape interface {
	Area() float64
}

//vtable::interface -Delegates=Traced
type Traced interface {
	Area() float64
}
`,
		ConfigFileName: `output: autogen_descriptors.go
delegates: [Erased]
templates:
  - name: Traced
    slot: "vtable.Func[{{.Func}}]"
    callable: true
`,
	})

	gen := newTestGenerator(root)
	require.NoError(t, gen.Run(context.Background(), Config{Directories: []string{filepath.Join(root, "shapes")}}))

	content, err := os.ReadFile(filepath.Join(root, "shapes", "autogen_descriptors.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "type ShapeErasedVTable struct {")
	assert.NotContains(t, string(content), "ShapeMirrorVTable")
	assert.Contains(t, string(content), "type TracedTracedVTable_Area struct {")
	assert.Contains(t, string(content), "func (s *TracedTracedVTable_Area) Call() float64 {")
}

func TestGeneratorRunFlagsOverrideConfigFile(t *testing.T) {
	root := writeModule(t, map[string]string{
		"shapes/shapes.go": "package shapes\n\n//vtable::interface\ntype Shape interface {\n\tArea() float64\n}\n",
		ConfigFileName:     "delegates: [Erased]\n",
	})

	gen := newTestGenerator(root)
	require.NoError(t, gen.Run(context.Background(), Config{
		Directories: []string{filepath.Join(root, "shapes")},
		Delegates:   []string{"Mirror"},
	}))

	content, err := os.ReadFile(filepath.Join(root, "shapes", "autogen_vtable.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "ShapeMirrorVTable")
	assert.NotContains(t, string(content), "ShapeErasedVTable")
}

func TestGeneratorRunConfigurationErrors(t *testing.T) {
	root := writeModule(t, map[string]string{
		"shapes/shapes.go": shapesFile,
	})
	dirs := []string{root + "/..."}

	err := newTestGenerator(root).Run(context.Background(), Config{Directories: dirs, Delegates: []string{"Virtual"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown delegate 'Virtual'")

	err = newTestGenerator(root).Run(context.Background(), Config{Directories: dirs, ModuleName: "not a module"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid module path")

	err = newTestGenerator(root).Run(context.Background(), Config{Directories: dirs, ConfigFile: filepath.Join(root, "missing.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")

	err = newTestGenerator(root).Run(context.Background(), Config{Directories: []string{filepath.Join(root, "nothing")}})
	require.Error(t, err)
}

func TestGeneratorRunIsRepeatable(t *testing.T) {
	root := writeModule(t, map[string]string{
		"shapes/shapes.go": shapesFile,
	})

	gen := newTestGenerator(root)
	config := Config{Directories: []string{root + "/..."}}
	require.NoError(t, gen.Run(context.Background(), config))
	first, err := os.ReadFile(filepath.Join(root, "shapes", "autogen_vtable.go"))
	require.NoError(t, err)

	require.NoError(t, gen.Run(context.Background(), config))
	second, err := os.ReadFile(filepath.Join(root, "shapes", "autogen_vtable.go"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestGeneratorClean(t *testing.T) {
	root := writeModule(t, map[string]string{
		"shapes/shapes.go": shapesFile,
		"solids/solids.go": solidsFile,
	})

	gen := newTestGenerator(root)
	require.NoError(t, gen.Run(context.Background(), Config{Directories: []string{root + "/..."}}))

	removed, err := gen.Clean(Config{Directories: []string{root + "/..."}})
	require.NoError(t, err)
	assert.Len(t, removed, 2)
	assert.NoFileExists(t, filepath.Join(root, "shapes", "autogen_vtable.go"))
	assert.FileExists(t, filepath.Join(root, "shapes", "shapes.go"))
}

func TestScanDirectories(t *testing.T) {
	root := writeModule(t, map[string]string{
		"a/a.go":                "package a\n",
		"a/b/b.go":              "package b\n",
		"a/testdata/t.go":       "package t\n",
		"a/_skip/s.go":          "package s\n",
		"a/.hidden/h.go":        "package h\n",
		"a/onlytests/x_test.go": "package onlytests\n",
		"empty/readme.txt":      "nothing\n",
	})
	scanner := NewDirectoryScanner()

	dirs, err := scanner.ScanDirectories([]string{root + "/...", filepath.Join(root, "a")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a"), filepath.Join(root, "a", "b")}, dirs)

	dirs, err = scanner.ScanDirectories([]string{filepath.Join(root, "a")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a")}, dirs)

	_, err = scanner.ScanDirectories([]string{filepath.Join(root, "empty")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Go files found")
}

func TestSplitPattern(t *testing.T) {
	tests := []struct {
		pattern   string
		base      string
		recursive bool
	}{
		{"./...", ".", true},
		{"...", ".", true},
		{"./internal/...", "./internal", true},
		{"./internal", "./internal", false},
		{"pkg/x", "pkg/x", false},
	}
	for _, tt := range tests {
		base, recursive := splitPattern(tt.pattern)
		assert.Equal(t, tt.base, base, tt.pattern)
		assert.Equal(t, tt.recursive, recursive, tt.pattern)
	}
}

func TestCleanerSingleDirectory(t *testing.T) {
	root := writeModule(t, map[string]string{
		"a/autogen_vtable.go":   "package a\n",
		"a/b/autogen_vtable.go": "package b\n",
	})

	removed, err := NewCleaner().CleanGeneratedFiles([]string{filepath.Join(root, "a")}, "autogen_vtable.go")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a", "autogen_vtable.go")}, removed)
	assert.FileExists(t, filepath.Join(root, "a", "b", "autogen_vtable.go"))

	removed, err = NewCleaner().CleanGeneratedFiles([]string{filepath.Join(root, "a")}, "autogen_vtable.go")
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestModuleResolver(t *testing.T) {
	root := writeModule(t, map[string]string{"pkg/inner/x.go": "package inner\n"})

	resolver := NewModuleResolver().WithWorkDir(filepath.Join(root, "pkg"))
	name, err := resolver.ResolveModuleName("")
	require.NoError(t, err)
	assert.Equal(t, "example.com/demo", name)
	assert.Equal(t, root, resolver.Root())

	path, err := resolver.BuildPackagePath(filepath.Join(root, "pkg", "inner"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/demo/pkg/inner", path)

	path, err = resolver.BuildPackagePath(root)
	require.NoError(t, err)
	assert.Equal(t, "example.com/demo", path)

	_, err = resolver.BuildPackagePath(filepath.Dir(root))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside module")

	dir, ok := resolver.PackageDir("example.com/demo/pkg/inner")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(root, "pkg", "inner"), dir)

	dir, ok = resolver.PackageDir("example.com/demo")
	assert.True(t, ok)
	assert.Equal(t, root, dir)

	_, ok = resolver.PackageDir("example.com/demolition/x")
	assert.False(t, ok)
}

func TestModuleResolverCustomModule(t *testing.T) {
	root := writeModule(t, map[string]string{"x/x.go": "package x\n"})

	resolver := NewModuleResolver().WithWorkDir(root)
	name, err := resolver.ResolveModuleName("github.com/other/name")
	require.NoError(t, err)
	assert.Equal(t, "github.com/other/name", name)

	path, err := resolver.BuildPackagePath(filepath.Join(root, "x"))
	require.NoError(t, err)
	assert.Equal(t, "github.com/other/name/x", path)

	_, err = NewModuleResolver().WithWorkDir(root).ResolveModuleName("Bad Path")
	assert.Error(t, err)
}

func TestModuleResolverWithoutGoMod(t *testing.T) {
	dir := t.TempDir()

	_, err := NewModuleResolver().WithWorkDir(dir).ResolveModuleName("")
	if err == nil {
		t.Skip("a go.mod exists above the temporary directory")
	}
	assert.Contains(t, err.Error(), "--module")

	_, err = NewModuleResolver().BuildPackagePath(dir)
	assert.Error(t, err)
}

func TestRelativeTo(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "work")
	assert.Equal(t, filepath.Join("a", "b.go"), relativeTo(root, filepath.Join(root, "a", "b.go")))
	assert.Equal(t, "/elsewhere/b.go", relativeTo(root, "/elsewhere/b.go"))
	assert.Equal(t, "x.go", relativeTo("", "x.go"))
	assert.False(t, strings.HasPrefix(relativeTo(root, filepath.Join(root, "c.go")), ".."))
}
