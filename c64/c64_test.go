package c64_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/claude6502/go6502/c64"
)

const testDir = "testdata"

func realROMSet(t *testing.T) c64.ROMSet {
	t.Helper()
	load := func(name string) []byte {
		path := filepath.Join(testDir, name)
		if _, err := os.Stat(path); err != nil {
			t.Skipf("skipping: %s not present", path)
		}
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		return data
	}
	return c64.ROMSet{
		Basic:  load("basic.rom"),
		Char:   load("char.rom"),
		Kernal: load("kernal.rom"),
	}
}

func romSet() c64.ROMSet {
	basic := make([]byte, 0x2000)
	char := make([]byte, 0x1000)
	kernal := make([]byte, 0x2000)
	basic[0] = 0xB0
	char[0] = 0xC0
	kernal[0] = 0xE0
	kernal[0x1FFC] = 0x00 // reset vector low, within kernal image
	kernal[0x1FFD] = 0xE0 // -> $E000
	return c64.ROMSet{Basic: basic, Char: char, Kernal: kernal}
}

func TestNewRejectsWrongSizedROMs(t *testing.T) {
	_, err := c64.New(c64.ROMSet{}, nil)
	require.Error(t, err)
	var romErr c64.ROMError
	require.ErrorAs(t, err, &romErr)
	require.Equal(t, "BASIC", romErr.Region)
}

func TestDefaultBankingCharROMVisible(t *testing.T) {
	s, err := c64.New(romSet(), nil)
	require.NoError(t, err)
	s.Reset() // port defaults to 0b010: hiram=1, loram=0, charen=0

	require.Equal(t, uint8(0xC0), s.Read(0xD000, true))
}

func TestBankingBasicAndKernalVisible(t *testing.T) {
	s, err := c64.New(romSet(), nil)
	require.NoError(t, err)
	s.Reset()
	s.Write(0x0001, 0b011) // hiram=1, loram=1, charen=0

	require.Equal(t, uint8(0xB0), s.Read(0xA000, true))
	require.Equal(t, uint8(0xE0), s.Read(0xE000, true))
	require.Equal(t, uint8(0xC0), s.Read(0xD000, true), "charen=0 still shows char ROM at D000")
}

func TestBankingIOVisibleWhenCharen(t *testing.T) {
	s, err := c64.New(romSet(), nil)
	require.NoError(t, err)
	s.Reset()
	s.Write(0x0001, 0b111) // charen=1, hiram=1, loram=1

	s.Write(0xD020, 0x05)
	require.Equal(t, uint8(0x05), s.Read(0xD020, true))
}

func TestVICRasterSentinelAlwaysZero(t *testing.T) {
	s, err := c64.New(romSet(), nil)
	require.NoError(t, err)
	s.Reset()
	s.Write(0x0001, 0b111)

	s.Write(0xD012, 0x42)
	require.Equal(t, uint8(0x00), s.Read(0xD012, true))
}

func TestIOWritesAreShadowedIntoRAM(t *testing.T) {
	s, err := c64.New(romSet(), nil)
	require.NoError(t, err)
	s.Reset()
	s.Write(0x0001, 0b111)
	s.Write(0xD400, 0x7F) // SID register

	// Bank ROM/IO back out entirely: loram=0, hiram=0, charen=0.
	s.Write(0x0001, 0b000)
	require.Equal(t, uint8(0x7F), s.Read(0xD400, true))
}

func TestEverythingRAMWhenAllBanksOff(t *testing.T) {
	s, err := c64.New(romSet(), nil)
	require.NoError(t, err)
	s.Reset()
	s.Write(0x0001, 0b000)

	require.NotEqual(t, uint8(0xB0), s.Read(0xA000, true))
	require.NotEqual(t, uint8(0xE0), s.Read(0xE000, true))
}

func TestResetLoadsKernalVector(t *testing.T) {
	s, err := c64.New(romSet(), nil)
	require.NoError(t, err)
	s.Reset()
	require.Equal(t, uint16(0xE000), s.CPU().PC)
}

func TestLoadPRGReturnsLoadAddress(t *testing.T) {
	s, err := c64.New(romSet(), nil)
	require.NoError(t, err)
	s.Reset()

	prg := []byte{0x01, 0x08, 0xAA, 0xBB, 0xCC}
	addr, err := s.LoadPRG(prg)
	require.NoError(t, err)
	require.Equal(t, uint16(0x0801), addr)
	require.Equal(t, uint8(0xAA), s.Read(0x0801, true))
	require.Equal(t, uint8(0xCC), s.Read(0x0803, true))
}

func TestLoadPRGTooShort(t *testing.T) {
	s, err := c64.New(romSet(), nil)
	require.NoError(t, err)
	_, err = s.LoadPRG([]byte{0x01})
	require.Error(t, err)
}

func TestClockAdvancesCPU(t *testing.T) {
	s, err := c64.New(romSet(), nil)
	require.NoError(t, err)
	s.Reset()
	// Place a NOP at the kernal reset vector target and clock through it.
	s.Write(0x0001, 0b000) // bank RAM over $E000 so we can write an opcode there
	s.Write(0xE000, 0xEA)  // NOP

	// Clock off the cycles Reset charges, then clock through the NOP.
	for !s.Clock() {
	}
	for !s.Clock() {
	}
	require.Equal(t, uint16(0xE001), s.CPU().PC)
}

// Scenario G — boot to the READY prompt using real ROM images. Skips
// itself when testdata/{basic,char,kernal}.rom are not present, the same
// build-only-ROM-input pattern functional/functional_test.go uses for the
// Klaus and timing test binaries.
func TestBootToReadyPrompt(t *testing.T) {
	s, err := c64.New(realROMSet(t), nil)
	require.NoError(t, err)
	s.Reset()

	for s.Read(0x04CD, true) != 0x2E {
		if s.Clock() {
			if err := s.Fault(); err != nil {
				t.Fatalf("cpu faulted before reaching the READY prompt: %v", err)
			}
		}
	}

	require.Equal(t, uint8(0x20), s.Read(0x0400, true), "screen memory should open on a space")

	want := []uint8{
		0x2A, 0x2A, 0x2A, 0x2A, // ****
		0x20,
		0x03, 0x0F, 0x0D, 0x0D, 0x0F, 0x04, 0x0F, 0x12, 0x05, // COMMODORE
		0x20,
		0x36, 0x34, // 64
		0x20,
		0x02, 0x01, 0x13, 0x09, 0x03, // BASIC
		0x20,
		0x16, 0x32, // V2
		0x20,
		0x2A, 0x2A, 0x2A, 0x2A, // ****
	}
	// The banner sits on the second screen row after four spaces: $0400+40+4.
	for i, v := range want {
		require.Equalf(t, v, s.Read(0x042C+uint16(i), true), "screen byte at offset %d", i)
	}
}
