package debug

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/go-faster/jx"
)

// Reader gives access to memory without side effects or bus locks.
type Reader interface {
	Peek(address uint16) byte
}

// Snapshot is a copy of the machine state at an instruction boundary.
type Snapshot struct {
	CPU     CPUState
	PPUMode string
	LY      uint8
	IE      uint8
	IF      uint8
	Memory  [0x10000]byte
}

// Capture reads the whole address space through reader.
func Capture(state CPUState, reader Reader) *Snapshot {
	s := &Snapshot{CPU: state}
	for i := range s.Memory {
		s.Memory[i] = reader.Peek(uint16(i))
	}
	s.IE = s.Memory[0xFFFF]
	s.IF = s.Memory[0xFF0F]
	s.LY = s.Memory[0xFF44]
	return s
}

// Fingerprint hashes the registers and the address space. Two runs of the
// same ROM for the same number of cycles produce the same fingerprint.
// The cycle counter is not part of it.
func (s *Snapshot) Fingerprint() uint64 {
	h := xxhash.New()

	var regs [12]byte
	regs[0], regs[1] = s.CPU.A, s.CPU.F
	regs[2], regs[3] = s.CPU.B, s.CPU.C
	regs[4], regs[5] = s.CPU.D, s.CPU.E
	regs[6], regs[7] = s.CPU.H, s.CPU.L
	binary.LittleEndian.PutUint16(regs[8:], s.CPU.SP)
	binary.LittleEndian.PutUint16(regs[10:], s.CPU.PC)
	h.Write(regs[:])
	if s.CPU.IME {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	h.Write(s.Memory[:])

	return h.Sum64()
}

// MarshalJSON encodes registers, interrupt state and the fingerprint.
// Memory is only represented by the fingerprint.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	s.Encode(&e)
	return e.Bytes(), nil
}

// Encode writes the snapshot as a JSON object.
func (s *Snapshot) Encode(e *jx.Encoder) {
	hex8 := func(v uint8) string { return fmt.Sprintf("0x%02X", v) }
	hex16 := func(v uint16) string { return fmt.Sprintf("0x%04X", v) }

	e.ObjStart()

	e.FieldStart("cpu")
	e.ObjStart()
	for _, reg := range []struct {
		name  string
		value uint8
	}{
		{"a", s.CPU.A}, {"f", s.CPU.F}, {"b", s.CPU.B}, {"c", s.CPU.C},
		{"d", s.CPU.D}, {"e", s.CPU.E}, {"h", s.CPU.H}, {"l", s.CPU.L},
	} {
		e.FieldStart(reg.name)
		e.Str(hex8(reg.value))
	}
	e.FieldStart("sp")
	e.Str(hex16(s.CPU.SP))
	e.FieldStart("pc")
	e.Str(hex16(s.CPU.PC))
	e.FieldStart("ime")
	e.Bool(s.CPU.IME)
	e.ObjEnd()

	e.FieldStart("cycles")
	e.UInt64(s.CPU.Cycles)
	e.FieldStart("ppu_mode")
	e.Str(s.PPUMode)
	e.FieldStart("ly")
	e.Int(int(s.LY))
	e.FieldStart("ie")
	e.Str(hex8(s.IE))
	e.FieldStart("if")
	e.Str(hex8(s.IF))
	e.FieldStart("fingerprint")
	e.Str(fmt.Sprintf("%016x", s.Fingerprint()))

	e.ObjEnd()
}
