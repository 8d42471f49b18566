// handasm takes a hand-assembled listing file and produces a flat bin
// image. Each relevant line has the form:
//
//	XXXX OP A1 A2
//
// where XXXX is a four hex-digit address field (only lines starting with
// one are considered) and OP/A1/A2 are hex byte values; a line with more
// than three byte values after the address is rejected. A trailing
// tab-separated comment, or a "(*)..." annotation, is ignored.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
)

var lineRE = regexp.MustCompile(`^[0-9A-Fa-f]{4}`)

func assemble(in, out string, offset int) error {
	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("can't open %q for input: %w", in, err)
	}
	defer f.Close()

	output := make([]byte, offset)

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		t := scanner.Text()
		if !lineRE.MatchString(t) {
			continue
		}
		if idx := strings.Index(t, "\t"); idx >= 0 {
			t = t[:idx]
		}
		if idx := strings.Index(t, "(*)"); idx >= 0 {
			t = t[:idx]
		}
		t = t[4:] // strip the address field
		toks := strings.Fields(t)
		if len(toks) > 3 {
			return fmt.Errorf("invalid line %d: %q", line, t)
		}
		for _, v := range toks {
			byteVal, err := strconv.ParseUint(v, 16, 8)
			if err != nil {
				return fmt.Errorf("can't process input line %d %q: %w", line, t, err)
			}
			output = append(output, byte(byteVal))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %q: %w", in, err)
	}

	if err := os.WriteFile(out, output, 0o644); err != nil {
		return fmt.Errorf("can't write %q: %w", out, err)
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:  "handasm",
		Usage: "assemble a hand-written opcode listing into a flat bin image",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "offset", Value: 0x0000, Usage: "offset to start writing assembled data; everything prior is zero filled"},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.Args().Len() != 2 {
				return cli.Exit("usage: handasm [--offset=N] <input> <output>", 1)
			}
			return assemble(ctx.Args().Get(0), ctx.Args().Get(1), ctx.Int("offset"))
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
