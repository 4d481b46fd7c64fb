package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/crysjs/crysjs/crys"
)

const version = "crysjs 0.1.0"

const requirePathEnv = "CRYSJS_REQUIRE_PATH"

const usage = `crysjs

Usage:
  crysjs compile [-v] [--require-path=PATH] [--config=FILE] [-o FILE] [SOURCE]
  crysjs run [-v] [--config=FILE] [SOURCE]
  crysjs fmt [-w | --check] PATH...
  crysjs repl [-v] [--plain] [--config=FILE]
  crysjs -h | --help
  crysjs --version

Arguments:
  SOURCE  Script to read. Reads stdin when omitted or "-".
  PATH    File or directory of .rb and .crys scripts.

Options:
  -v, --verbose          Log debug events to stderr.
  --require-path=PATH    Module compiled code requires the runtime from.
  --config=FILE          Project file. Defaults to crysjs.yml next to SOURCE.
  -o FILE                Write JavaScript to FILE instead of stdout.
  -w                     Write formatted files in place.
  --check                Fail if any file needs formatting.
  --plain                Use the line-based REPL.
  -h, --help             Display this help.
  --version              Print the crysjs version.

The runtime require path is taken from --require-path, then $CRYSJS_REQUIRE_PATH
(also read from .env), then the project file, then "crysjs".
`

var errorPrefix = color.New(color.FgRed, color.Bold).SprintFunc()

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, errorPrefix("error:"), err)
		os.Exit(1)
	}
}

// options is the parsed command line.
type options struct {
	command     string
	verbose     bool
	requirePath string
	config      string
	output      string
	source      string
	paths       []string
	write       bool
	check       bool
	plain       bool
}

func runCLI(args []string) error {
	opts, help, err := parseOptions(args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, help)
		return errors.New("invalid command")
	}
	if opts == nil {
		fmt.Println(help)
		return nil
	}

	if err := loadEnv(".env"); err != nil {
		return err
	}
	logger := newLogger(os.Stderr, opts.verbose)

	switch opts.command {
	case "compile":
		return compileCommand(opts, logger)
	case "run":
		return runCommand(opts, logger)
	case "fmt":
		return fmtCommand(opts)
	case "repl":
		return replCommand(opts, logger)
	default:
		return errors.New("invalid command")
	}
}

// parseOptions returns nil options when help or the version was requested;
// the second result is then the text to print.
func parseOptions(argv []string) (*options, string, error) {
	var output string
	parser := &docopt.Parser{
		HelpHandler: func(_ error, text string) { output = text },
	}
	parsed, err := parser.ParseArgs(usage, argv, version)
	if err != nil {
		return nil, output, err
	}
	if parsed == nil || output != "" {
		return nil, output, nil
	}

	opts := &options{}
	for _, name := range []string{"compile", "run", "fmt", "repl"} {
		if on, _ := parsed.Bool(name); on {
			opts.command = name
		}
	}
	opts.verbose, _ = parsed.Bool("--verbose")
	opts.requirePath, _ = parsed.String("--require-path")
	opts.config, _ = parsed.String("--config")
	opts.output, _ = parsed.String("-o")
	opts.source, _ = parsed.String("SOURCE")
	opts.write, _ = parsed.Bool("-w")
	opts.check, _ = parsed.Bool("--check")
	opts.plain, _ = parsed.Bool("--plain")
	opts.paths, _ = parsed["PATH"].([]string)
	return opts, "", nil
}

// loadEnv reads a dotenv file when one exists. Variables already set in the
// environment win.
func loadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func compileCommand(opts *options, logger *slog.Logger) error {
	source, name, err := readSource(opts.source)
	if err != nil {
		return err
	}
	project, err := loadProject(opts.config, name)
	if err != nil {
		return err
	}

	js, err := crys.Compile(source, crys.CompileOptions{
		RequirePath: resolveRequirePath(opts.requirePath, project),
		Library:     project.Library(crys.DefaultLibrary()),
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("compile %s: %w", name, err)
	}

	if opts.output == "" {
		fmt.Println(js)
		return nil
	}
	if err := os.WriteFile(opts.output, []byte(js+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	logger.Info("compiled", "source", name, "output", opts.output)
	return nil
}

func runCommand(opts *options, logger *slog.Logger) error {
	source, name, err := readSource(opts.source)
	if err != nil {
		return err
	}
	project, err := loadProject(opts.config, name)
	if err != nil {
		return err
	}

	in := crys.NewInterpreter(crys.Config{
		Library: project.Library(crys.DefaultLibrary()),
		Out:     os.Stdout,
		Logger:  logger,
	})
	ctx := context.Background()
	if err := runPrelude(ctx, in, project, logger); err != nil {
		return err
	}

	result, err := in.Run(ctx, source)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	if !result.IsNil() && !result.IsUndefined() {
		fmt.Println(result.Inspect())
	}
	return nil
}

func runPrelude(ctx context.Context, in *crys.Interpreter, project *crys.Project, logger *slog.Logger) error {
	if project == nil {
		return nil
	}
	for _, path := range project.Prelude {
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read prelude: %w", err)
		}
		if _, err := in.Run(ctx, string(source)); err != nil {
			return fmt.Errorf("prelude %s: %w", path, err)
		}
		logger.Debug("prelude loaded", "path", path)
	}
	return nil
}

// readSource reads the named script, or stdin for "" and "-". Reading from
// an interactive terminal is refused so a forgotten argument does not hang.
func readSource(path string) (string, string, error) {
	if path == "" || path == "-" {
		if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			return "", "", errors.New("source path required when stdin is a terminal")
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("resolve script path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", "", fmt.Errorf("read script: %w", err)
	}
	return string(data), abs, nil
}

// loadProject loads the explicit project file, or crysjs.yml next to the
// source when present. A missing implicit project is not an error.
func loadProject(explicit, sourcePath string) (*crys.Project, error) {
	if explicit != "" {
		return crys.LoadProject(explicit)
	}
	dir := "."
	if sourcePath != "" && !strings.HasPrefix(sourcePath, "<") {
		dir = filepath.Dir(sourcePath)
	}
	candidate := filepath.Join(dir, crys.ProjectFileName)
	if _, err := os.Stat(candidate); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", candidate, err)
	}
	return crys.LoadProject(candidate)
}

func resolveRequirePath(flagValue string, project *crys.Project) string {
	if flagValue != "" {
		return flagValue
	}
	if env := strings.TrimSpace(os.Getenv(requirePathEnv)); env != "" {
		return env
	}
	if project != nil && project.RequirePath != "" {
		return project.RequirePath
	}
	return crys.DefaultRequirePath
}
