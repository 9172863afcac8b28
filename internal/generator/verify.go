package generator

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Verifier type-checks packages after their files are written
type Verifier struct {
	dir string
	env []string
}

// NewVerifier creates a verifier loading packages relative to dir
func NewVerifier(dir string) *Verifier {
	return &Verifier{dir: dir}
}

// WithEnv adds environment entries for the go command
func (v *Verifier) WithEnv(env ...string) *Verifier {
	v.env = append(v.env, env...)
	return v
}

// Verify loads patterns with full type information and reports every
// package error
func (v *Verifier) Verify(ctx context.Context, patterns ...string) error {
	if len(patterns) == 0 {
		return nil
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
		Dir: v.dir,
	}
	if len(v.env) > 0 {
		cfg.Env = append(os.Environ(), v.env...)
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return fmt.Errorf("load packages: %w", err)
	}

	var errs []string
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errs = append(errs, e.Error())
		}
	})
	if len(errs) > 0 {
		return fmt.Errorf("verification failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
