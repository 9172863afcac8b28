package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/vtable/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
	errOut  io.Writer
}

// NewDiagnosticReporter creates a reporter writing to stdout and stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return NewDiagnosticReporterWithWriters(verbose, os.Stdout, os.Stderr)
}

// NewDiagnosticReporterWithWriters creates a reporter on the given writers
func NewDiagnosticReporterWithWriters(verbose bool, out, errOut io.Writer) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     out,
		errOut:  errOut,
	}
}

// ReportWarning prints a one-line warning
func (r *DiagnosticReporter) ReportWarning(message string) {
	color.New(color.FgYellow, color.Bold).Fprint(r.errOut, "! ")
	fmt.Fprintf(r.errOut, "%s\n", message)
}

// ReportError prints err and every generator error it carries
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.errOut, "\nERROR: Code Generation Failed\n")
	fmt.Fprintf(r.errOut, "=============================\n\n")

	errs := flatten(err)
	if len(errs) == 0 {
		r.reportBasicError(err)
		return
	}
	if len(errs) > 1 {
		fmt.Fprintf(r.errOut, "%d errors\n\n", len(errs))
	}
	for i, e := range errs {
		if len(errs) > 1 {
			fmt.Fprintf(r.errOut, "[%d/%d] ", i+1, len(errs))
		}
		r.reportVTableError(e)
	}
}

// flatten returns the generator errors carried by err, expanding collections
func flatten(err error) []errors.VTableError {
	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) {
		var out []errors.VTableError
		for _, e := range multi.Errors {
			out = append(out, flatten(e)...)
		}
		return out
	}

	var vtErr errors.VTableError
	if stderrors.As(err, &vtErr) {
		return []errors.VTableError{vtErr}
	}
	return nil
}

func (r *DiagnosticReporter) reportVTableError(err errors.VTableError) {
	title := errorTitle(err.ErrorCode())
	fmt.Fprintf(r.errOut, "Type: %s\n", title)
	fmt.Fprintf(r.errOut, "%s\n", strings.Repeat("-", len(title)+6))

	if loc := err.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.errOut, "Location: %s\n", loc)
	}
	msg := message(err)
	fmt.Fprintf(r.errOut, "Message: %s\n", msg)

	cause := err.Unwrap()
	switch {
	case r.verbose && cause != nil:
		fmt.Fprintf(r.errOut, "Underlying cause: %s\n", cause.Error())
	case cause != nil && causeIsMessage(err.ErrorCode()) && !strings.Contains(msg, cause.Error()):
		// generation messages only name the item; the cause says what failed
		fmt.Fprintf(r.errOut, "Cause: %s\n", cause.Error())
	}
	if r.verbose {
		if ctx := err.Context(); len(ctx) > 0 {
			r.printContext(ctx)
		}
	}

	if hints := err.Suggestions(); len(hints) > 0 {
		r.printSuggestions(hints)
	}
	fmt.Fprintf(r.errOut, "\n")
}

func causeIsMessage(code errors.ErrorCode) bool {
	return code == errors.GenerationErrorCode || code == errors.TemplateErrorCode
}

// message returns the error text without the location prefix
func message(err errors.VTableError) string {
	msg := err.Error()
	if loc := err.Location(); !loc.IsEmpty() {
		msg = strings.TrimPrefix(msg, loc.String()+": ")
	}
	return msg
}

// reportBasicError reports an error without location or suggestions
func (r *DiagnosticReporter) reportBasicError(err error) {
	fmt.Fprintf(r.errOut, "Message: %s\n\n", err.Error())

	if strings.Contains(strings.ToLower(err.Error()), "module") {
		fmt.Fprintf(r.errOut, "This appears to be a module-related issue.\n")
		fmt.Fprintf(r.errOut, "Common solutions:\n")
		fmt.Fprintf(r.errOut, "  - Check your go.mod file\n")
		fmt.Fprintf(r.errOut, "  - Run from inside the module or pass --module\n\n")
	}
}

func errorTitle(code errors.ErrorCode) string {
	switch code {
	case errors.SyntaxErrorCode:
		return "Annotation Syntax Error"
	case errors.ValidationErrorCode:
		return "Validation Error"
	case errors.RegistrationErrorCode:
		return "Registration Error"
	case errors.SchemaErrorCode:
		return "Schema Error"
	case errors.GenerationErrorCode, errors.TemplateErrorCode:
		return "Code Generation Error"
	case errors.FileSystemErrorCode:
		return "File System Error"
	case errors.ConfigurationErrorCode:
		return "Configuration Error"
	default:
		return "Unknown Error"
	}
}

// printContext prints context information in key order
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(r.errOut, "Context:\n")
	for _, key := range keys {
		fmt.Fprintf(r.errOut, "   %s: %v\n", formatContextKey(key), context[key])
	}
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.errOut, "Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(r.errOut, "   %d. %s\n", i+1, suggestion)
	}
}

// ReportSuccess reports successful generation with summary information
func (r *DiagnosticReporter) ReportSuccess(summary GenerationSummary) {
	fmt.Fprintf(r.out, "\nCode Generation Completed Successfully!\n")
	fmt.Fprintf(r.out, "=======================================\n\n")

	fmt.Fprintf(r.out, "Processed %d packages\n", summary.PackagesProcessed)
	if summary.InterfacesFound > 0 {
		fmt.Fprintf(r.out, "Found %d interfaces\n", summary.InterfacesFound)
	}
	if summary.StructsFound > 0 {
		fmt.Fprintf(r.out, "Found %d reflected structs\n", summary.StructsFound)
	}
	if summary.Descriptors > 0 {
		fmt.Fprintf(r.out, "Generated %d descriptors with %d slots\n", summary.Descriptors, summary.Slots)
	}

	if len(summary.GeneratedFiles) > 0 {
		fmt.Fprintf(r.out, "\nGenerated files:\n")
		for _, file := range summary.GeneratedFiles {
			fmt.Fprintf(r.out, "  - %s\n", file)
		}
	}
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	PackagesProcessed int
	InterfacesFound   int
	StructsFound      int
	Descriptors       int
	Slots             int
	Reflectors        int
	GeneratedFiles    []string
}
