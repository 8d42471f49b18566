// monitor is an interactive single-step TUI over a c64.Shell, grounded on
// the bubbletea/lipgloss debugger from the rest of the example pack: it
// renders a memory page, the register file, and the disassembly of the
// instruction about to execute, single-stepping on space/j and quitting
// on q.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"

	"github.com/claude6502/go6502/c64"
	"github.com/claude6502/go6502/trace"
)

var regStyle = lipgloss.NewStyle().Bold(true)

type model struct {
	shell  *c64.Shell
	prevPC uint16
	err    error
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			m.prevPC = m.shell.CPU().PC
			for !m.shell.Clock() {
			}
			if err := m.shell.Fault(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m model) renderPage(start uint16) string {
	s := fmt.Sprintf("%04X | ", start)
	pc := m.shell.CPU().PC
	for i := uint16(0); i < 16; i++ {
		v := m.shell.Read(start+i, true)
		if start+i == pc {
			s += fmt.Sprintf("[%02X] ", v)
		} else {
			s += fmt.Sprintf(" %02X  ", v)
		}
	}
	return s
}

func (m model) status() string {
	snap := m.shell.CPU()
	return regStyle.Render(fmt.Sprintf(
		"PC: %04X (was %04X)\nA:  %02X\nX:  %02X\nY:  %02X\nSP: %02X\nP:  %s",
		snap.PC, m.prevPC, snap.A, snap.X, snap.Y, snap.SP, trace.FlagString(snap.P)))
}

func (m model) pageTable() string {
	pc := m.shell.CPU().PC
	base := pc &^ 0x0F
	var rows []string
	for p := -2; p <= 2; p++ {
		start := base + uint16(p*16)
		rows = append(rows, m.renderPage(start))
	}
	return strings.Join(rows, "\n")
}

func (m model) View() string {
	snap := m.shell.CPU()
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.pageTable(), "   ", m.status()),
		"",
		"next: "+m.shell.Disassemble(snap.PC),
		"",
		"[space/j] step   [q] quit",
	)
}

func loadROMs(dir string) (c64.ROMSet, error) {
	read := func(name string) ([]byte, error) {
		return os.ReadFile(dir + "/" + name)
	}
	basic, err := read("basic.rom")
	if err != nil {
		return c64.ROMSet{}, err
	}
	char, err := read("char.rom")
	if err != nil {
		return c64.ROMSet{}, err
	}
	kernal, err := read("kernal.rom")
	if err != nil {
		return c64.ROMSet{}, err
	}
	return c64.ROMSet{Basic: basic, Char: char, Kernal: kernal}, nil
}

func main() {
	app := &cli.App{
		Name:  "monitor",
		Usage: "interactive single-step C64 monitor",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "roms", Value: "roms", Usage: "directory holding basic.rom, char.rom, kernal.rom"},
		},
		Action: func(ctx *cli.Context) error {
			roms, err := loadROMs(ctx.String("roms"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("loading ROMs: %v", err), 1)
			}
			shell, err := c64.New(roms, os.Stderr)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			shell.Reset()

			m, err := tea.NewProgram(model{shell: shell}).Run()
			if err != nil {
				return err
			}
			if x, ok := m.(model); ok && x.err != nil {
				fmt.Println("fault:", x.err)
			}
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
