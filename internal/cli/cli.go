// Package cli implements the winnow command line.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/winnow"
)

const usage = `usage: winnow <command> [flags] [args]

commands:
  build    sketch FASTA/FASTQ files and save the sketch
  stats    load a saved sketch and print summary statistics
  refsize  print the total size in bytes of reference files
`

// exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Run executes the command line args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}

	var err error
	switch args[0] {
	case "build":
		err = runBuild(ctx, args[1:], stdout, stderr)
	case "stats":
		err = runStats(ctx, args[1:], stdout, stderr)
	case "refsize":
		err = runRefSize(args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(stderr, "winnow: unknown command %q\n\n%s", args[0], usage)
		return exitUsage
	}

	var ue usageError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.As(err, &ue):
		fmt.Fprintf(stderr, "winnow %s: %v\n", args[0], err)
		return exitUsage
	default:
		fmt.Fprintf(stderr, "winnow %s: %v\n", args[0], err)
		return exitError
	}
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// logFlags registers the logging flags shared by all commands.
type logFlags struct {
	level string
	json  bool
}

func (l *logFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&l.level, "log-level", "info", "log level: debug | info | warn | error")
	fs.BoolVar(&l.json, "json-log", false, "emit JSON logs")
}

func (l *logFlags) logger(w io.Writer) (*winnow.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.level)); err != nil {
		return nil, usagef("invalid -log-level %q", l.level)
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.json {
		return winnow.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}
	return winnow.NewLogger(slog.NewTextHandler(w, opts)), nil
}
