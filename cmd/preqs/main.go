// Command preqs generates and validates minimal requirements.txt files for
// Python projects from their import statements.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jward/preqs"
	"github.com/jward/preqs/internal/requirements"
	"github.com/jward/preqs/internal/scan"
)

const version = "0.1.0"

// Exit codes, stable for scripting.
const (
	exitOK             = 0
	exitManifestExists = 10
	exitNoSourceFiles  = 20
	exitNoImports      = 30
	exitWriteFailed    = 60
	exitInvalidPath    = 100
	exitCheckNotFound  = 201
	exitCheckNotManif  = 202
	exitInternal       = 255
)

// exitError carries a process exit code alongside the message.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func exitf(code int, format string, args ...any) *exitError {
	return &exitError{code: code, msg: fmt.Sprintf(format, args...)}
}

var (
	flagDebug      bool
	flagIgnoreDirs []string
	flagPrint      bool
	flagReplace    bool
	flagCheck      bool
)

var rootCmd = &cobra.Command{
	Use:   "preqs [PATH]",
	Short: "A simple (and fast) requirements.txt file generator",
	Long: `preqs discovers the third-party packages a Python project actually imports,
resolves each to its installed distribution and version, and writes a minimal
requirements.txt — without the bloat of a full environment freeze.

PATH is the project root to scan (default: the current directory). With
--check, PATH names the requirements file to validate instead.`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          run,
}

func init() {
	rootCmd.Long += fmt.Sprintf("\n\nDirectories ignored by default: %s.",
		strings.Join(scan.DefaultIgnoreDirs, ", "))
	flags := rootCmd.Flags()
	flags.BoolVarP(&flagDebug, "debug", "d", false, "print verbose debugging output while processing")
	flags.StringSliceVarP(&flagIgnoreDirs, "ignore-dirs", "i", nil, "directories to ignore when collecting source files")
	flags.BoolVarP(&flagPrint, "print", "p", false, "print the detected requirements instead of writing a file")
	flags.BoolVarP(&flagReplace, "replace", "r", false, "replace an existing requirements.txt file")
	flags.BoolVarP(&flagCheck, "check", "c", false, "check an existing requirements file against installed versions")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var xerr *exitError
		if errors.As(err, &xerr) {
			if xerr.msg != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", xerr.msg)
			}
			os.Exit(xerr.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(exitInternal)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return exitf(exitInvalidPath, "invalid path %s: %s", path, err)
	}

	logger := newLogger(os.Stderr, flagDebug)
	eng := preqs.New(
		preqs.WithIgnoreDirs(flagIgnoreDirs...),
		preqs.WithLogger(logger),
	)

	if flagCheck {
		return runCheck(cmd, eng, abs)
	}
	return runGenerate(cmd, eng, abs, logger)
}

// newLogger builds the CLI logger: debug level with timestamps when --debug
// is set, info level otherwise.
func newLogger(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: debug,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// runGenerate discovers the project's requirements and writes or prints the
// manifest.
func runGenerate(cmd *cobra.Command, eng *preqs.Engine, root string, logger *log.Logger) error {
	manifestPath := filepath.Join(root, requirements.FileName)

	// Refuse up front, before any scanning work, so an accidental run never
	// clobbers a hand-maintained file.
	if !flagPrint && !flagReplace {
		if _, err := os.Stat(manifestPath); err == nil {
			return exitf(exitManifestExists,
				"%s already exists; pass --replace to overwrite it, or --print to display instead",
				manifestPath)
		}
	}

	d, err := eng.Discover(cmd.Context(), root)
	if err != nil {
		var perr *preqs.PathError
		switch {
		case errors.As(err, &perr):
			return exitf(exitInvalidPath, "%s", perr)
		case errors.Is(err, preqs.ErrNoSourceFiles):
			return exitf(exitNoSourceFiles, "no Python modules found under %s", root)
		default:
			return exitf(exitInternal, "%s", err)
		}
	}
	if len(d.Imports) == 0 {
		return exitf(exitNoImports, "no third-party imports found under %s", root)
	}

	content := d.Requirements.Serialize()
	if flagPrint {
		printRequirements(cmd.OutOrStdout(), d)
		return nil
	}

	if err := preqs.WriteManifest(manifestPath, content, flagReplace); err != nil {
		if errors.Is(err, preqs.ErrManifestExists) {
			return exitf(exitManifestExists, "%s", err)
		}
		return exitf(exitWriteFailed, "%s", err)
	}
	for _, name := range d.Unknown {
		logger.Warn("no installed distribution found; not written to manifest", "import", name)
	}
	logger.Info("requirements file written", "path", manifestPath, "entries", d.Requirements.Len())
	return nil
}

// runCheck validates a requirements file and renders the report table.
func runCheck(cmd *cobra.Command, eng *preqs.Engine, path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, requirements.FileName)
	}
	if _, err := os.Stat(path); err != nil {
		return exitf(exitCheckNotFound, "file not found: %s", path)
	}
	if filepath.Base(path) != requirements.FileName {
		return exitf(exitCheckNotManif, "file must be a %s file: %s", requirements.FileName, path)
	}

	results, err := eng.Check(cmd.Context(), path)
	if err != nil {
		return exitf(exitInternal, "%s", err)
	}
	renderCheckReport(cmd.OutOrStdout(), results)
	return nil
}
