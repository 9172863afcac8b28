package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"

	"github.com/spf13/pflag"

	"github.com/toyz/vtable/internal/cli"
	"github.com/toyz/vtable/internal/utils"
)

// version is set with -ldflags "-X main.version=..."
var version = ""

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit status
func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("vtable", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		moduleFlag    = flags.String("module", "", "Custom module name for imports (defaults to go.mod module)")
		configFlag    = flags.StringP("config", "c", "", "Configuration file (defaults to "+cli.ConfigFileName+" when present)")
		outputFlag    = flags.StringP("output", "o", "", "Generated file name (defaults to autogen_vtable.go)")
		delegatesFlag = flags.StringSlice("delegates", nil, "Delegates used by annotations without -Delegates")
		listFlag      = flags.Bool("list", false, "Print the visit order of every interface instead of generating")
		verifyFlag    = flags.Bool("verify", false, "Type-check the packages after generating")
		verboseFlag   = flags.BoolP("verbose", "v", false, "Enable verbose output and detailed error reporting")
		quietFlag     = flags.BoolP("quiet", "q", false, "Only show errors and final results")
		cleanFlag     = flags.Bool("clean", false, "Delete generated files from the specified directories")
		versionFlag   = flags.Bool("version", false, "Print the version and exit")
		helpFlag      = flags.BoolP("help", "h", false, "Show help information")
	)
	flags.Usage = func() { usage(stderr, flags) }

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if *helpFlag {
		usage(stdout, flags)
		return 0
	}
	if *versionFlag {
		fmt.Fprintf(stdout, "vtable %s\n", buildVersion())
		return 0
	}

	dirs := flags.Args()
	if len(dirs) == 0 {
		fmt.Fprintf(stderr, "Error: At least one directory path is required\n\n")
		usage(stderr, flags)
		return 1
	}
	if *quietFlag && *verboseFlag {
		fmt.Fprintf(stderr, "Error: --quiet and --verbose cannot be used together\n")
		return 1
	}

	level := utils.DiagnosticInfo
	switch {
	case *quietFlag:
		level = utils.DiagnosticError
	case *verboseFlag:
		level = utils.DiagnosticVerbose
	}
	diagnostics := utils.NewDiagnosticSystemWithWriters(level, stdout, stderr)
	reporter := cli.NewDiagnosticReporterWithWriters(*verboseFlag, stdout, stderr)

	config := cli.Config{
		Directories: dirs,
		ModuleName:  *moduleFlag,
		ConfigFile:  *configFlag,
		Delegates:   *delegatesFlag,
		Output:      *outputFlag,
		List:        *listFlag,
		Verify:      *verifyFlag,
		Verbose:     *verboseFlag,
	}

	generator := cli.NewGenerator(diagnostics).WithOutput(stdout)

	if *cleanFlag {
		diagnostics.Header("Cleaning generated files")
		removed, err := generator.Clean(config)
		if err != nil {
			reporter.ReportError(err)
			return 1
		}
		diagnostics.Success("Removed %d generated files", len(removed))
		return 0
	}

	if *verboseFlag {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Target directories: %s", strings.Join(dirs, ", "))
		if *moduleFlag != "" {
			diagnostics.List("Custom module: %s", *moduleFlag)
		}
		if len(*delegatesFlag) > 0 {
			diagnostics.List("Default delegates: %s", strings.Join(*delegatesFlag, ", "))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !*listFlag {
		diagnostics.Header("Generating vtables")
	}
	if err := generator.Run(ctx, config); err != nil {
		reporter.ReportError(err)
		return 1
	}
	if *listFlag {
		return 0
	}

	summary := generator.GetSummary()
	if *verboseFlag {
		reporter.ReportSuccess(summary)
	} else {
		diagnostics.Summary("Generation Complete!", map[string]interface{}{
			"Packages processed": summary.PackagesProcessed,
			"Files generated":    len(summary.GeneratedFiles),
			"Descriptors":        summary.Descriptors,
			"Slots":              summary.Slots,
			"Reflected structs":  summary.Reflectors,
		})
	}
	diagnostics.GenerationComplete()
	return 0
}

func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

func usage(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage: vtable [options] <directory-paths...>\n\n")
	fmt.Fprintf(w, "VTable Code Generator\n")
	fmt.Fprintf(w, "Scans Go files for vtable:: annotations and generates descriptors, slots and field visitors.\n\n")
	fmt.Fprintf(w, "Options:\n")
	fmt.Fprint(w, flags.FlagUsages())
	fmt.Fprintf(w, "\nArguments:\n")
	fmt.Fprintf(w, "  directory-paths    One or more directories to scan for annotated Go files\n")
	fmt.Fprintf(w, "                     Supports Go-style patterns like './...' for recursive scanning\n")
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  vtable ./...                                  # Generate for the whole module\n")
	fmt.Fprintf(w, "  vtable --delegates Mirror,Erased ./shapes     # Default delegates for bare annotations\n")
	fmt.Fprintf(w, "  vtable --list ./...                           # Show the visit order of every interface\n")
	fmt.Fprintf(w, "  vtable --verify ./...                         # Type-check after generating\n")
	fmt.Fprintf(w, "  vtable --clean ./...                          # Delete generated files\n")
}
