package serial

import (
	"fmt"

	"github.com/valerio/jeebie-sm83/jeebie/addr"
	"github.com/valerio/jeebie-sm83/jeebie/bit"
)

// transferCycles is the length of a DMG byte transfer on the internal clock,
// in M-cycles (8 bits at 8192 Hz).
const transferCycles = 1024

// ByteTransmitted is published every time the game starts a transfer with
// the internal clock. Data is the content of SB at that moment.
type ByteTransmitted struct {
	Data byte
}

// Subscriber receives serial events.
type Subscriber func(ByteTransmitted)

// Supervisor owns the SB/SC registers and fans out transmitted bytes to its
// subscribers. There is no link partner, the received byte is always 0xFF.
type Supervisor struct {
	irqHandler  func()
	subscribers []Subscriber

	sb, sc         byte
	transferActive bool
	countdown      int

	immediate bool
	defaultRX byte
}

type Option func(*Supervisor)

// WithFixedTiming completes transfers after the real transfer duration
// instead of immediately. The supervisor must then be ticked once per M-cycle.
func WithFixedTiming() Option { return func(s *Supervisor) { s.immediate = false } }

// NewSupervisor creates a serial port controller.
// The passed function is called when a transfer is completed, should be wired
// to request the Serial interrupt.
func NewSupervisor(irq func(), opts ...Option) *Supervisor {
	s := &Supervisor{
		irqHandler: irq,
		immediate:  true,
		defaultRX:  0xFF,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

// Subscribe registers fn to be called for every transmitted byte, in
// registration order.
func (s *Supervisor) Subscribe(fn Subscriber) {
	s.subscribers = append(s.subscribers, fn)
}

func (s *Supervisor) Write(address uint16, value byte) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		s.maybeStartTransfer()
	default:
		panic(fmt.Sprintf("serial: invalid write address 0x%04X", address))
	}
}

func (s *Supervisor) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		// unused bits 1-6 read as 1
		return s.sc | 0x7E
	default:
		panic(fmt.Sprintf("serial: invalid read address 0x%04X", address))
	}
}

// Tick advances a pending transfer by one M-cycle.
func (s *Supervisor) Tick() {
	if s.immediate || !s.transferActive {
		return
	}
	s.countdown--
	if s.countdown <= 0 {
		s.completeTransfer()
	}
}

func (s *Supervisor) Reset() {
	s.sb = 0x00
	s.sc = 0x00
	s.transferActive = false
	s.countdown = 0
}

func (s *Supervisor) maybeStartTransfer() {
	if s.transferActive {
		return
	}
	// a transfer starts when bit 7 (start) and bit 0 (clock source) of SC are set.
	if !bit.IsSet(7, s.sc) || !bit.IsSet(0, s.sc) {
		return
	}

	ev := ByteTransmitted{Data: s.sb}
	for _, fn := range s.subscribers {
		fn(ev)
	}

	if s.immediate {
		s.completeTransfer()
		return
	}

	s.transferActive = true
	s.countdown = transferCycles
}

func (s *Supervisor) completeTransfer() {
	s.sb = s.defaultRX
	s.sc = bit.Reset(7, s.sc)
	s.transferActive = false
	if s.irqHandler != nil {
		s.irqHandler()
	}
}
