package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/hupe1980/winnow"
)

type statsReport struct {
	Name      string        `json:"name,omitempty"`
	Params    winnow.Params `json:"params"`
	Distinct  int           `json:"distinct"`
	Threshold int           `json:"frequency_threshold"`
	winnow.Stats
}

func runStats(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		in       string
		name     string
		ddbTable string
		top      float64
		asJSON   bool
		log      logFlags
	)
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&in, "in", ".", "sketch location: directory, s3://bucket/prefix or minio://endpoint/bucket/prefix")
	fs.StringVar(&name, "name", "", "sketch name (default: the one CURRENT points at)")
	fs.StringVar(&ddbTable, "ddb-table", "", "DynamoDB table holding CURRENT (s3 only)")
	fs.Float64Var(&top, "top", 0.0002, "fraction of most frequent minimizers reported by the frequency threshold")
	fs.BoolVar(&asJSON, "json", false, "print JSON")
	log.register(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	loc, err := ParseLocation(in)
	if err != nil {
		return usagef("-in: %v", err)
	}
	logger, err := log.logger(stderr)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, loc, storeConfig{ddbTable: ddbTable})
	if err != nil {
		return err
	}

	var sk *winnow.Sketch
	if name == "" {
		sk, err = winnow.LoadCurrent(ctx, store, winnow.WithLogger(logger))
	} else {
		sk, err = winnow.Load(ctx, store, name, winnow.WithLogger(logger))
	}
	if err != nil {
		return err
	}

	tbl := sk.Lookup()
	rep := statsReport{
		Name:      name,
		Params:    sk.Params,
		Distinct:  tbl.Distinct(),
		Threshold: tbl.FrequencyThreshold(top),
		Stats:     sk.Stats(),
	}

	if asJSON {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(stdout, "%s\n", data)
		return err
	}

	fmt.Fprintf(stdout, "params:     %s\n", rep.Params)
	fmt.Fprintf(stdout, "sequences:  %d\n", rep.Sequences)
	fmt.Fprintf(stdout, "bases:      %d\n", rep.Bases)
	fmt.Fprintf(stdout, "minimizers: %d (%d forward, %d reverse)\n", rep.Records, rep.Forward, rep.Reverse)
	fmt.Fprintf(stdout, "distinct:   %d\n", rep.Distinct)
	fmt.Fprintf(stdout, "density:    %.4f\n", rep.Density)
	fmt.Fprintf(stdout, "threshold:  %d (top %g)\n", rep.Threshold, top)
	return nil
}
