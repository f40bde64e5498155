// Command schemainfer infers JSON Schemas from example documents, compares them
// against reference schemas, and runs batches of test cases.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/usestring/schemainfer/internal/config"
	"github.com/usestring/schemainfer/internal/logging"
)

// Version information
const Version = "0.1.0"

// errCheckFailed makes a command exit 1 after its output was written.
var errCheckFailed = errors.New("check failed")

// CLI defines the command-line interface.
type CLI struct {
	LogLevel  string `help:"Log level: debug, info, warn, error." env:"LOG_LEVEL" default:"warn"`
	LogFormat string `help:"Log format: text or json." env:"LOG_FORMAT" default:"text" enum:"text,json"`

	Run          RunCmd           `cmd:"" help:"Run a test-case file: infer, self-validate and compare every case."`
	Infer        InferCmd         `cmd:"" help:"Infer the schema of one JSON document."`
	Diff         DiffCmd          `cmd:"" help:"Compare an inferred schema against a reference schema."`
	Validate     ValidateCmd      `cmd:"" help:"Validate a JSON document against a schema."`
	FormatSchema FormatSchemaCmd  `cmd:"" name:"format-schema" help:"Print the JSON Schema of test-case files."`
	Version      kong.VersionFlag `help:"Show version information." short:"v"`
}

// env is bound into every command's Run method.
type env struct {
	ctx    context.Context
	cfg    *config.Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// execute parses args, runs the selected command and returns the exit code.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cli CLI
	exitCode := -1
	parser, err := kong.New(&cli,
		kong.Name("schemainfer"),
		kong.Description("Infer JSON Schemas from example documents and compare them against reference schemas."),
		kong.Vars{"version": Version},
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if exitCode >= 0 {
		// --help or --version already printed.
		return exitCode
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	cfg := config.Load()
	logCfg := cfg.Logging()
	logCfg.Level = cli.LogLevel
	logCfg.Format = cli.LogFormat
	logCfg.Output = stderr
	cleanup, err := logging.Setup(logCfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer func() { _ = cleanup() }()

	err = kctx.Run(&env{ctx: ctx, cfg: cfg, stdin: stdin, stdout: stdout, stderr: stderr})
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errCheckFailed):
		return 1
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
}
