// convertprg takes a C64-style PRG file and converts it into a 64 KiB
// bin image for running as a test cart. Execution starts at $D000, which
// JSRs to the given start PC; BRK/IRQ/NMI all point at $C000, an
// infinite-loop trap. Zero-page and a handful of other RAM locations are
// preset with stock C64 values so test programs that peek at them behave
// plausibly outside the real machine.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func convert(fn string, startPC int) error {
	b, err := os.ReadFile(fn)
	if err != nil {
		return fmt.Errorf("can't open %s: %w", fn, err)
	}
	if len(b) < 2 {
		return fmt.Errorf("%s: too short to carry a PRG load address", fn)
	}

	out := make([]byte, 65536)

	addr := (int(b[1]) << 8) + int(b[0])
	b = b[2:]

	max := 65536 - addr
	if l := len(b); l > max {
		log.Printf("length %d at offset %d too long, truncating to 64k", l, addr)
		b = b[:max]
	}

	fmt.Printf("addr is 0x%.4X\n", addr)
	copy(out[addr:], b)

	out[0xC000] = 0x4C // JMP $C000
	out[0xC001] = 0x00
	out[0xC002] = 0xC0

	out[0xD000] = 0x20 // JSR <addr>
	out[0xD001] = byte(startPC & 0xFF)
	out[0xD002] = byte((startPC >> 8) & 0xFF)
	out[0xD003] = 0x4C // JMP $D003
	out[0xD004] = 0x03
	out[0xD005] = 0xD0

	out[0xFFD2] = 0x60 // RTS

	out[0xFFFA], out[0xFFFB] = 0x00, 0xC0
	out[0xFFFC], out[0xFFFD] = 0x00, 0xD0
	out[0xFFFE], out[0xFFFF] = 0x00, 0xC0

	// Stock C64 zero-page and low-RAM presets, from
	// http://sta.c64.org/cbm64mem.html.
	zp := map[uint16]byte{
		0x0000: 0x2F, 0x0003: 0xAA, 0x0004: 0xB1, 0x0005: 0x91, 0x0006: 0xB3,
		0x0016: 0x19, 0x002B: 0x01, 0x002C: 0x08, 0x0038: 0xA0, 0x0053: 0x03,
		0x0054: 0x4C, 0x0091: 0xFF, 0x009A: 0x03, 0x00B2: 0x3C, 0x00B3: 0x03,
		0x00C8: 0x27, 0x00D5: 0x27,
		0x0282: 0x08, 0x0284: 0xA0, 0x0288: 0x04,
		0x0300: 0x8B, 0x0301: 0xE3, 0x0302: 0x83, 0x0303: 0xA4, 0x0304: 0x7C,
		0x0305: 0xA5, 0x0306: 0x1A, 0x0307: 0xA7, 0x0308: 0xE4, 0x0309: 0xA7,
		0x030A: 0x86, 0x030B: 0xAE, 0x0310: 0x4C, 0x0314: 0x31, 0x0315: 0xEA,
		0x0316: 0x66, 0x0317: 0xFE, 0x0318: 0x47, 0x0319: 0xFE, 0x031A: 0x4A,
		0x031B: 0xF3, 0x031C: 0x91, 0x031D: 0xF2, 0x031E: 0x0E, 0x031F: 0xF2,
		0x0320: 0x50, 0x0321: 0xF2, 0x0322: 0x33, 0x0323: 0xF3, 0x0324: 0x57,
		0x0325: 0xF1, 0x0326: 0xCA, 0x0327: 0xF1, 0x0328: 0xED, 0x0329: 0xF6,
		0x032A: 0x3E, 0x032B: 0xF1, 0x032C: 0x2F, 0x032D: 0xF3, 0x032E: 0x66,
		0x032F: 0xFE, 0x0330: 0xA5, 0x0331: 0xF4, 0x0332: 0xED, 0x0333: 0xF5,
	}
	for addr, v := range zp {
		out[addr] = v
	}

	outfn := fn + ".bin"
	if err := os.WriteFile(outfn, out, 0o644); err != nil {
		return fmt.Errorf("can't write %q: %w", outfn, err)
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:  "convertprg",
		Usage: "convert a C64 PRG file into a 64 KiB test-cart bin image",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "start_pc", Value: 0x0000, Usage: "PC value to start execution at"},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.Args().Len() != 1 {
				return cli.Exit("usage: convertprg --start_pc=XXXX <filename>", 1)
			}
			pc := ctx.Int("start_pc")
			if pc < 0 || pc > 65535 {
				return cli.Exit("--start_pc out of range; must be 0-65535", 1)
			}
			return convert(ctx.Args().First(), pc)
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
