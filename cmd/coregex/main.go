// Command coregex is a line-oriented grep-style driver for the coregex
// engine: it compiles a pattern once and scans stdin (or named files)
// line by line, printing the lines that contain a match.
//
// Usage: coregex [-v] [-c] <pattern> [file ...]
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/projectdiscovery/gologger"

	"github.com/coregx/coregex-classic"
)

func main() {
	complement := flag.Bool("v", false, "invert match: print lines that do NOT match")
	countOnly := flag.Bool("c", false, "print only a count of matching lines")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		gologger.Fatal().Msgf("usage: coregex [-v] [-c] <pattern> [file ...]")
	}
	pattern := args[0]
	files := args[1:]

	re, err := coregex.Compile(pattern)
	if err != nil {
		gologger.Fatal().Msgf("compile %q: %v", pattern, err)
	}
	if *complement {
		re, err = re.Complement()
		if err != nil {
			gologger.Fatal().Msgf("complement %q: %v", pattern, err)
		}
		gologger.Info().Msgf("inverted pattern recovered as: %s", re.RecoverRegex())
	}

	found := false
	count := 0
	scan := func(name string, r *bufio.Scanner) {
		for r.Scan() {
			line := r.Text()
			if re.MatchString(line) {
				found = true
				count++
				if !*countOnly {
					if name != "" {
						fmt.Printf("%s:%s\n", name, line)
					} else {
						fmt.Println(line)
					}
				}
			}
		}
	}

	if len(files) == 0 {
		scan("", bufio.NewScanner(os.Stdin))
	} else {
		for _, name := range files {
			f, err := os.Open(name)
			if err != nil {
				gologger.Error().Msgf("open %s: %v", name, err)
				continue
			}
			scan(name, bufio.NewScanner(f))
			f.Close()
		}
	}

	if *countOnly {
		fmt.Println(count)
	}
	if !found {
		os.Exit(1)
	}
}
