package main

//
// androsoo checks the string_ids ordering of a DEX file, or of every
// DEX file inside an APK. Files rewritten by some repackaging tools
// (apktool before 2.0, among others) leave the string offsets out of
// order; files from the standard toolchain never do. See
//
//   Exploring reverse engineering symptoms in Android apps,
//   EuroSec '15, http://dx.doi.org/10.1145/2751323.2751330
//

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/hugo-glez/androsoo/apkread"
	"github.com/hugo-glez/androsoo/dexreport"
)

const version = "1.0"

type options struct {
	silent     bool
	verbose    int
	yaml       bool
	noColor    bool
	legacyExit bool
}

func printBanner(w io.Writer) {
	fmt.Fprintf(w, "\n=== androsoo %s - (c) 2014 Hugo Gonzalez @hugo_glez\n", version)
	fmt.Fprintf(w, "Paper: Exploring reverse engineering symptoms in Android apps\n")
	fmt.Fprintf(w, "EuroSec '15 Proceedings of the Eighth European Workshop on System Security\n")
	fmt.Fprintf(w, "http://dx.doi.org/10.1145/2751323.2751330\n===\n")
}

// runState records how far command execution got.
type runState struct {
	ran      bool
	exitCode int
}

func newRootCmd(stdout, stderr io.Writer, state *runState) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:                   "androsoo <file.dex|file.apk> [options]",
		Short:                 "Check the string offset order of a DEX file",
		Args:                  cobra.ExactArgs(1),
		SilenceErrors:         true,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			state.ran = true
			code, err := check(args[0], opts, stdout, stderr)
			state.exitCode = code
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		w := c.ErrOrStderr()
		printBanner(w)
		fmt.Fprintf(w, "Usage: %s\n", c.UseLine())
		fmt.Fprint(w, c.LocalFlags().FlagUsages())
		return nil
	})

	f := cmd.Flags()
	f.BoolVarP(&opts.silent, "silent", "s", false, "silence, no headers")
	f.IntVarP(&opts.verbose, "verbose", "v", 0, "Verbose trace output level")
	f.BoolVar(&opts.yaml, "yaml", false, "Write the report as YAML")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	f.BoolVar(&opts.legacyExit, "legacy-exit", false, "Exit 0 even when string offsets are out of order")
	return cmd
}

func check(path string, opts *options, stdout, stderr io.Writer) (int, error) {
	// The banner would corrupt a YAML document on stdout.
	if !opts.silent && !opts.yaml {
		printBanner(stdout)
	}
	config := dexreport.Config{
		Silent:     opts.silent,
		Vlevel:     opts.verbose,
		Format:     dexreport.FormatText,
		Color:      !opts.noColor,
		LegacyExit: opts.legacyExit,
	}
	if opts.yaml {
		config.Format = dexreport.FormatYAML
	}
	rep := dexreport.NewReporter(stdout, stderr, config)
	rep.Verbose(1, "checking %s", path)

	if err := apkread.ReadFile(path, rep); err != nil {
		return dexreport.ExitFatal, err
	}
	if err := rep.Finish(); err != nil {
		return dexreport.ExitFatal, err
	}
	return rep.ExitCode(), nil
}

// run executes the command line args and returns the process exit
// status.
func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "androsoo: ", 0)
	if args == nil {
		args = []string{}
	}

	state := &runState{exitCode: dexreport.ExitOrdered}
	cmd := newRootCmd(stdout, stderr, state)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		if !state.ran {
			// Bad flags or arguments.
			logger.Printf("error: %v", err)
			cmd.Usage()
			return dexreport.ExitFatal
		}
		logger.Printf("ERROR: %v", err)
		return dexreport.ExitFatal
	}
	return state.exitCode
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
