// Command aise drives the three entry points of the instruction-set
// extension toolchain: enum discovers candidate instructions from a
// dataflow graph, isel matches a discovered (or hand-curated) library
// against a graph and reports its static cost, and area synthesizes
// the silicon-area cost of a MISO file's instructions.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lshpku/aise/internal/format"
	"github.com/lshpku/aise/internal/isel"
	"github.com/lshpku/aise/internal/miso"
)

func main() {
	os.Exit(run())
}

// run dispatches the subcommand and recovers internal-invariant panics
// (malformed DAG state the parsers should have already rejected) as a
// distinct exit code from ordinary usage/IO errors.
func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, "aise: internal error:", r)
			code = 2
		}
	}()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: aise <enum|isel|area> ...")
		return 1
	}

	var err error
	switch os.Args[1] {
	case "enum":
		err = runEnum(os.Args[2:])
	case "isel":
		err = runIsel(os.Args[2:])
	case "area":
		err = runArea(os.Args[2:])
	default:
		err = fmt.Errorf("unknown subcommand %q", os.Args[1])
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "aise:", err)
		return 1
	}
	return 0
}

func runEnum(args []string) error {
	fs := flag.NewFlagSet("enum", flag.ContinueOnError)
	out := fs.String("o", "", "output file (default stdout)")
	maxInput := fs.Int("max-input", 2, "maximum candidate input count")
	maxDepth := fs.Int("max-depth", 10, "maximum upper-cone depth")
	dotOut := fs.String("dot", "", "write a Graphviz DOT rendering of each input block to this file, for debugging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("enum: expected exactly one <bitcode> argument")
	}
	if *maxInput < 0 {
		return fmt.Errorf("enum: -max-input must be >= 0")
	}
	if *maxDepth < 0 {
		return fmt.Errorf("enum: -max-depth must be >= 0")
	}

	dags, err := format.ReadDAGFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(0), err)
	}

	if *dotOut != "" {
		f, err := os.Create(*dotOut)
		if err != nil {
			return fmt.Errorf("%s: %w", *dotOut, err)
		}
		defer f.Close()
		for i, d := range dags {
			if err := format.WriteDOT(f, fmt.Sprintf("block%d", i), d); err != nil {
				return fmt.Errorf("%s: %w", *dotOut, err)
			}
		}
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("%s: %w", *out, err)
		}
		defer f.Close()
		w = f
	}

	e := miso.New(*maxInput, *maxDepth)
	for _, d := range dags {
		e.Enumerate(d)
	}
	for _, key := range e.Keys() {
		fmt.Fprintln(w, key)
	}
	return nil
}

func runIsel(args []string) error {
	fs := flag.NewFlagSet("isel", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 || fs.NArg() > 3 {
		return fmt.Errorf("isel: expected <bitcode> <miso> [<bcconf>]")
	}

	dags, err := format.ReadDAGFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(0), err)
	}

	misoFile, err := os.Open(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(1), err)
	}
	defer misoFile.Close()

	instrs, err := format.ParseMISO(misoFile)
	if err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(1), err)
	}

	lib := isel.NewLibrary()
	for _, instr := range instrs {
		lib.AddInstr(instr)
	}

	weights := make([]int, len(dags))
	for i := range weights {
		weights[i] = 1
	}
	if fs.NArg() == 3 {
		bcFile, err := os.Open(fs.Arg(2))
		if err != nil {
			return fmt.Errorf("%s: %w", fs.Arg(2), err)
		}
		defer bcFile.Close()

		cfgs, err := format.ParseBCConf(bcFile)
		if err != nil {
			return fmt.Errorf("%s: %w", fs.Arg(2), err)
		}
		if len(cfgs) != len(dags) {
			return fmt.Errorf("%s: %d config lines, want %d (one per basic block)", fs.Arg(2), len(cfgs), len(dags))
		}
		for i, c := range cfgs {
			weights[i] = c.Weight
		}
	}

	sel := isel.NewSelector(lib)
	total := 0
	for i, d := range dags {
		total += sel.Select(d) * weights[i]
	}
	fmt.Printf("STA: %d\n", total)
	return nil
}

func runArea(args []string) error {
	fs := flag.NewFlagSet("area", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("area: expected exactly one <miso> argument")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(0), err)
	}
	defer f.Close()

	instrs, err := format.ParseMISO(f)
	if err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(0), err)
	}

	fmt.Printf("Area: %d\n", isel.SynthesizeArea(instrs))
	return nil
}
