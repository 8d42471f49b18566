// disassemble loads a binary file and disassembles it to stdout starting
// at the first instruction. If the filename ends in .prg (case
// insensitive) it is treated as a C64 program file: the first two bytes
// are the load address, and a load address of $0801 is listed as BASIC
// before the remaining machine code is disassembled.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/claude6502/go6502/bus"
	"github.com/claude6502/go6502/c64basic"
	"github.com/claude6502/go6502/trace"
)

type flatBus struct {
	mem [0x10000]uint8
}

func (f *flatBus) Read(addr uint16, _ bool) uint8   { return f.mem[addr] }
func (f *flatBus) Write(addr uint16, v uint8)       { f.mem[addr] = v }
func (f *flatBus) RaiseInterrupt(bus.InterruptKind) {}

func run(fn string, startPC, offset int) error {
	isPRG := strings.EqualFold(strings.TrimPrefix(extOf(fn), "."), "prg")
	if isPRG {
		fmt.Println("C64 program file")
	}

	b, err := os.ReadFile(fn)
	if err != nil {
		return fmt.Errorf("can't open %s: %w", fn, err)
	}

	f := &flatBus{}
	pc := uint16(startPC)
	if isPRG {
		offset = int(uint16(b[1])<<8 + uint16(b[0]))
		pc = uint16(offset)
		b = b[2:]
	}

	max := 1<<16 - offset
	if l := len(b); l > max {
		log.Printf("length %d at offset %d too long, truncating to 64k", l, offset)
		b = b[:max]
	}
	fmt.Printf("0x%.2X bytes at pc: %.4X\n", len(b), pc)
	for i, by := range b {
		f.mem[uint16(offset+i)] = by
	}

	if isPRG && offset == 0x0801 {
		for {
			out, newPC, err := c64basic.List(pc, f)
			if newPC == 0x0000 {
				pc += 2
				fmt.Printf("PC: %.4X\n", pc)
				break
			}
			fmt.Printf("%.4X %s\n", pc, out)
			if err != nil {
				fmt.Printf("%v", err)
				return nil
			}
			pc = newPC
		}
	}

	cnt := 0
	for cnt < len(b) {
		dis := trace.Disassemble(pc, f)
		_, _, _, size := trace.Mnemonic(pc, f)
		pc += uint16(size)
		cnt += size
		fmt.Println(dis)
	}
	return nil
}

func extOf(fn string) string {
	parts := strings.Split(fn, ".")
	return parts[len(parts)-1]
}

func main() {
	app := &cli.App{
		Name:  "disassemble",
		Usage: "disassemble a raw binary or C64 PRG file",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "start_pc", Value: 0x0000, Usage: "PC value to start disassembling"},
			&cli.IntFlag{Name: "offset", Value: 0x0000, Usage: "offset into RAM to start loading data; ignored for PRG files"},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.Args().Len() != 1 {
				return cli.Exit("usage: disassemble [--start_pc=N --offset=N] <filename>", 1)
			}
			return run(ctx.Args().First(), ctx.Int("start_pc"), ctx.Int("offset"))
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
