// c64basic disassembles a Commodore 64 BASIC program assuming that it's
// loaded at 0x0801 in the bus passed in.
package c64basic

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/claude6502/go6502/bus"
)

func readAddr(r bus.Bus, addr uint16) uint16 {
	return (uint16(r.Read(addr+1, true)) << 8) + uint16(r.Read(addr, true))
}

// tokenNames maps a BASIC token byte (0x80-0xCB) to its keyword text,
// indexed by tok-0x80.
var tokenNames = [0xCB - 0x80 + 1]string{
	0x80 - 0x80: "END",
	0x81 - 0x80: "FOR",
	0x82 - 0x80: "NEXT",
	0x83 - 0x80: "DATA",
	0x84 - 0x80: "INPUT#",
	0x85 - 0x80: "INPUT",
	0x86 - 0x80: "DIM",
	0x87 - 0x80: "READ",
	0x88 - 0x80: "LET",
	0x89 - 0x80: "GOTO",
	0x8A - 0x80: "RUN",
	0x8B - 0x80: "IF",
	0x8C - 0x80: "RESTORE",
	0x8D - 0x80: "GOSUB",
	0x8E - 0x80: "RETURN",
	0x8F - 0x80: "REM",
	0x90 - 0x80: "STOP",
	0x91 - 0x80: "ON",
	0x92 - 0x80: "WAIT",
	0x93 - 0x80: "LOAD",
	0x94 - 0x80: "SAVE",
	0x95 - 0x80: "VERIFY",
	0x96 - 0x80: "DEF",
	0x97 - 0x80: "POKE",
	0x98 - 0x80: "PRINT#",
	0x99 - 0x80: "PRINT",
	0x9A - 0x80: "CONT",
	0x9B - 0x80: "LIST",
	0x9C - 0x80: "CLR",
	0x9D - 0x80: "CMD",
	0x9E - 0x80: "SYS",
	0x9F - 0x80: "OPEN",
	0xA0 - 0x80: "CLOSE",
	0xA1 - 0x80: "GET",
	0xA2 - 0x80: "NEW",
	0xA3 - 0x80: "TAB(",
	0xA4 - 0x80: "TO",
	0xA5 - 0x80: "FN",
	0xA6 - 0x80: "SPC(",
	0xA7 - 0x80: "THEN",
	0xA8 - 0x80: "NOT",
	0xA9 - 0x80: "STEP",
	0xAA - 0x80: "+",
	0xAB - 0x80: "−",
	0xAC - 0x80: "*",
	0xAD - 0x80: "/",
	0xAE - 0x80: "^",
	0xAF - 0x80: "AND",
	0xB0 - 0x80: "OR",
	0xB1 - 0x80: ">",
	0xB2 - 0x80: "=",
	0xB3 - 0x80: "<",
	0xB4 - 0x80: "SGN",
	0xB5 - 0x80: "INT",
	0xB6 - 0x80: "ABS",
	0xB7 - 0x80: "USR",
	0xB8 - 0x80: "FRE",
	0xB9 - 0x80: "POS",
	0xBA - 0x80: "SQR",
	0xBB - 0x80: "RND",
	0xBC - 0x80: "LOG",
	0xBD - 0x80: "EXP",
	0xBE - 0x80: "COS",
	0xBF - 0x80: "SIN",
	0xC0 - 0x80: "TAN",
	0xC1 - 0x80: "ATN",
	0xC2 - 0x80: "PEEK",
	0xC3 - 0x80: "LEN",
	0xC4 - 0x80: "STR$",
	0xC5 - 0x80: "VAL",
	0xC6 - 0x80: "ASC",
	0xC7 - 0x80: "CHR$",
	0xC8 - 0x80: "LEFT$",
	0xC9 - 0x80: "RIGHT$",
	0xCA - 0x80: "MID$",
	0xCB - 0x80: "GO",
}

// List will take the given PC value and disassembles the Basic line at that location
// returning a string for the line and the PC of the next line. This does no sanity
// checking so a basic program which points to itself for listing will infinite loop
// if the PC values passed in aren't compared for loops.
// On a normal program end (next addr == 0x0000) it will return an empty string and PC of 0x0000.
// If there is a token parsing problem an error is returned instead with as much of the
// line as would tokenize. Normally a c64 won't continue so the newPC value here will be 0.
// NOTE: This returns the ASCII characters as parsed, displaying in PETSCII is up to the caller
//       to determine.
func List(pc uint16, r bus.Bus) (string, uint16, error) {
	// First entry is the linked list pointer to the next line
	newPC := readAddr(r, pc)
	pc += 2
	// Return an empty string and PC = 0x0000 for end of program.
	if newPC == 0x0000 {
		return "", 0x0000, nil
	}

	// Next 2 are line number also stored in little endian so we can just use readAddr again.
	lineNum := readAddr(r, pc)
	pc += 2

	// This is going to be built up as we read tokens so don't use strings directly.
	var b bytes.Buffer

	// Write the line number
	b.WriteString(fmt.Sprintf("%d ", lineNum))

	// Read until we reach a NUL indicating EOL.
	for {
		tok := r.Read(pc, true)
		pc++
		if tok == 0x00 {
			break
		}
		// Only defined for 0x00-0xCB (below 0x80 is just ascii chars)
		if tok > 0xCB {
			return b.String(), 0, errors.New("?SYNTAX  ERROR")
		}
		var t string
		if tok >= 0x80 {
			t = tokenNames[tok-0x80]
		} else {
			t = fmt.Sprintf("%c", tok)
		}
		b.WriteString(t)
	}
	return b.String(), newPC, nil
}
