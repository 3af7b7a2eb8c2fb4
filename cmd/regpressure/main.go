// Copyright 2024 Richard Kelsey. All rights reserved.
// See file LICENSE for notices and license.

// Host tool: loads Go packages, runs the pressure estimator over
// every function body, and streams one report line per touched
// register class.
//
//	regpressure --pkg ./... --func 'Sort*' --arch sysv-amd64 --variant abi
//
// Functions are analyzed concurrently; each unit's scan is
// sequential and owns all of its state, so the only shared thing is
// the output writer.

package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/gobwas/glob"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/s48/regpressure/front"
	"github.com/s48/regpressure/pressure"
)

type optionsT struct {
	patterns  []string
	funcGlob  string
	directory string
	archName  string
	variant   string
	json      bool
	omitClass bool
	jobs      int
}

func main() {
	var options optionsT

	flags := flag.NewFlagSet("regpressure", flag.ExitOnError)
	flags.StringSliceVarP(&options.patterns, "pkg", "p", []string{"./..."},
		"package patterns to analyze")
	flags.StringVarP(&options.funcGlob, "func", "f", "*",
		"only analyze functions whose name matches this glob")
	flags.StringVarP(&options.directory, "dir", "C", ".",
		"directory to load packages from")
	flags.StringVar(&options.archName, "arch", "sysv-amd64",
		fmt.Sprintf("architecture profile, one of %v", front.ArchNames()))
	flags.StringVar(&options.variant, "variant", "abi",
		fmt.Sprintf("estimator variant, one of %v", pressure.DefaultRegistry().Names()))
	flags.BoolVar(&options.json, "json", false,
		"emit one JSON record per class instead of report lines")
	flags.BoolVar(&options.omitClass, "no-class", false,
		"omit the class= field from report lines")
	noColor := flags.Bool("no-color", false, "disable colored output")
	flags.IntVarP(&options.jobs, "jobs", "j", 4,
		"number of functions to analyze concurrently")
	flags.Parse(os.Args[1:])

	color.NoColor = color.NoColor || *noColor || options.json

	if err := run(&options); err != nil {
		fmt.Fprintf(os.Stderr, "regpressure: %v\n", err)
		os.Exit(1)
	}
}

func run(options *optionsT) error {
	arch, err := front.LookupArch(options.archName)
	if err != nil {
		return err
	}
	estimator, err := pressure.DefaultRegistry().Lookup(options.variant)
	if err != nil {
		return err
	}
	matcher, err := glob.Compile(options.funcGlob)
	if err != nil {
		return fmt.Errorf("compiling glob from %s: %w", options.funcGlob, err)
	}

	functions, err := front.LoadFunctions(options.directory, options.patterns...)
	if err != nil {
		return err
	}

	var outputLock sync.Mutex
	var group errgroup.Group
	group.SetLimit(options.jobs)
	for _, function := range functions {
		function := function
		if !matcher.Match(function.Name()) {
			continue
		}
		group.Go(func() error {
			unit := front.AnalyzeFunction(function, arch)
			allStats := estimator.Analyze(unit)
			outputLock.Lock()
			defer outputLock.Unlock()
			return report(options, unit.Name, allStats)
		})
	}
	return group.Wait()
}

var spillColor = color.New(color.FgRed)

func report(options *optionsT, unitName string, allStats []pressure.ClassStatsT) error {
	if options.json {
		return pressure.WriteJsonReport(os.Stdout, unitName, allStats, options.omitClass)
	}
	for _, stats := range allStats {
		line := strings.Builder{}
		err := pressure.WriteReport(&line, unitName, []pressure.ClassStatsT{stats}, options.omitClass)
		if err != nil {
			return err
		}
		if 0 < stats.SpillCount {
			_, err = spillColor.Fprint(os.Stdout, line.String())
		} else {
			_, err = fmt.Print(line.String())
		}
		if err != nil {
			return err
		}
	}
	return nil
}
