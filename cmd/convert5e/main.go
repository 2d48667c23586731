// Package main provides the convert5e binary that turns a 5e.tools
// items-base.json file into the weapons base table YAML.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cory-johannsen/artificer/internal/convert"
)

func main() {
	sourcePath := flag.String("source", "", "path to the 5e.tools items-base.json file")
	outputPath := flag.String("output", "", "path to write the weapons table YAML; empty = stdout")
	flag.Parse()

	if *sourcePath == "" {
		fmt.Fprintln(os.Stderr, "usage: convert5e -source <items-base.json> [-output <weapons.yaml>]")
		os.Exit(1)
	}

	start := time.Now()
	src, err := os.Open(*sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer src.Close()

	out, err := convert.Weapons(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *outputPath == "" {
		fmt.Print(out)
		return
	}
	if err := os.WriteFile(*outputPath, []byte(out), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("conversion complete in %s\n", time.Since(start).Round(time.Millisecond))
}
