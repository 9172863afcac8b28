package internal

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/vtable/internal/cli"
	"github.com/toyz/vtable/internal/utils"
)

const shapesSource = `package shapes

import "math"

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

//vtable::interface -Delegates=Mirror
type Scaler interface {
	Scale(factor float64, anchors ...string) (Circle, error)
}

//vtable::reflect
type Point struct {
	X, Y float64
}

type round struct{ r float64 }

func (c round) Area() float64      { return math.Pi * c.r * c.r }
func (c round) Perimeter() float64 { return 2 * math.Pi * c.r }
func (c round) Radius() float64    { return c.r }

func (c round) Scale(factor float64, _ ...string) (Circle, error) {
	return round{r: c.r * factor}, nil
}
`

const usageSource = `package shapes

import "github.com/toyz/vtable/pkg/vtable"

func mirrorArea(r float64) (float64, error) {
	var vt CircleMirrorVTable
	if err := vtable.Bind(&vt, round{r: r}); err != nil {
		return 0, err
	}
	return vt.Area.Call() + vt.Radius.Call(), nil
}

func erasedArea(r float64) ([]any, error) {
	var vt CircleErasedVTable
	if err := vtable.Bind(&vt, round{r: r}); err != nil {
		return nil, err
	}
	return vt.Area.Call()
}

func scale(r float64) (Circle, error) {
	var vt ScalerMirrorVTable
	vt.Scale.Set(round{r: r}.Scale)
	return vt.Scale.Call(2, "origin")
}

func fields(p *Point) []string {
	return vtable.FieldNames(p)
}
`

const solidsSource = `package solids

import "%s/shapes"

//vtable::interface -Delegates=Mirror
type Solid interface {
	shapes.Shape
	Volume() float64
}
`

// TestGenerateAndVerify generates descriptors for two packages inside this
// module and type-checks the result together with code that uses it
func TestGenerateAndVerify(t *testing.T) {
	if testing.Short() {
		t.Skip("type-checking generated packages runs the go command")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}

	dir, err := os.MkdirTemp(".", "e2e")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	base := "github.com/toyz/vtable/internal/" + filepath.Base(dir)
	files := map[string]string{
		"shapes/shapes.go": shapesSource,
		"shapes/usage.go":  usageSource,
		"solids/solids.go": fmt.Sprintf(solidsSource, base),
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	diagnostics := utils.NewDiagnosticSystemWithWriters(utils.DiagnosticSilent, os.Stdout, os.Stderr)
	gen := cli.NewGenerator(diagnostics)
	err = gen.Run(context.Background(), cli.Config{
		Directories: []string{dir + "/..."},
		Verify:      true,
	})
	require.NoError(t, err)

	summary := gen.GetSummary()
	assert.Len(t, summary.GeneratedFiles, 2)
	assert.Equal(t, 6, summary.Descriptors)
	assert.Equal(t, 1, summary.Reflectors)

	solids, err := os.ReadFile(filepath.Join(dir, "solids", "autogen_vtable.go"))
	require.NoError(t, err)
	assert.Contains(t, string(solids), `"`+base+`/shapes"`)
	assert.Contains(t, string(solids), "shapes.ShapeMirrorVTable")
}
