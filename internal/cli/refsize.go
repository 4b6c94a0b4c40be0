package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/hupe1980/winnow"
)

func runRefSize(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("refsize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return usagef("no reference files")
	}

	total, err := winnow.ReferenceSize(fs.Args())
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, total)
	return nil
}
