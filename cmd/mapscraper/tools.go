package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mr-zlaam/googleMapScraper/config"
	"github.com/mr-zlaam/googleMapScraper/loader"
)

// runConvert flattens a CSV export into a JSON target list.
func runConvert(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("csv", "", "CSV export with link columns (header containing \".url\")")
	out := fs.String("out", "links.json", "JSON target list to write")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger := initLogger(config.Load().Log, stdout)
	if *in == "" {
		logger.Error("missing -csv")
		return 1
	}

	f, err := os.Open(*in)
	if err != nil {
		logger.Error("failed to open csv", "path", *in, "error", err)
		return 1
	}
	defer f.Close()

	targets, err := loader.ConvertCSV(f)
	if err != nil {
		logger.Error("failed to convert csv", "path", *in, "error", err)
		return 1
	}
	if err := loader.WriteJSON(*out, targets); err != nil {
		logger.Error("failed to write targets", "path", *out, "error", err)
		return 1
	}
	logger.Info("converted", "targets", len(targets), "path", *out)
	return 0
}

// runSplit cuts a range of a target list into chunk files that CHUNK_NUM
// runs pick up.
func runSplit(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("split", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("input", "links.json", "JSON target list")
	start := fs.Int("start", 1, "first target to include (1-based)")
	end := fs.Int("end", 0, "last target to include (0 means the last one)")
	size := fs.Int("size", 100, "targets per chunk")
	dir := fs.String("dir", "chunks", "directory receiving links_part_<n>.json")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger := initLogger(config.Load().Log, stdout)

	targets, err := loader.Load(*in, 0)
	if err != nil {
		logger.Error("failed to load targets", "path", *in, "error", err)
		return 1
	}
	last := *end
	if last == 0 {
		last = len(targets)
	}

	chunks, err := loader.Split(targets, *start, last, *size)
	if err != nil {
		logger.Error("failed to split targets", "error", err)
		return 1
	}
	paths, err := loader.WriteChunks(*dir, chunks)
	if err != nil {
		logger.Error("failed to write chunks", "dir", *dir, "error", err)
		return 1
	}
	for i, p := range paths {
		logger.Info("chunk written", "chunk", i+1, "targets", len(chunks[i]), "path", p)
	}
	fmt.Fprintf(stdout, "wrote %d chunks to %s\n", len(paths), *dir)
	return 0
}
