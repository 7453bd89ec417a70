package cpu

import (
	"github.com/valerio/jeebie-sm83/jeebie/addr"
	"github.com/valerio/jeebie-sm83/jeebie/bit"
	"github.com/valerio/jeebie-sm83/jeebie/memory"
)

// interruptHandler reads the IF and IE registers on behalf of the CPU.
type interruptHandler struct {
	bus Bus
}

func (h interruptHandler) pending() uint8 {
	flags := h.bus.Read(addr.IF, memory.SourceCPU)
	enabled := h.bus.Read(addr.IE, memory.SourceCPU)
	return flags & enabled & addr.InterruptMask
}

// isQueued reports whether an enabled interrupt has been requested,
// regardless of IME.
func (h interruptHandler) isQueued() bool {
	return h.pending() != 0
}

// pop returns the highest priority queued interrupt and acknowledges it
// by clearing its bit in IF. It returns 0 when nothing is queued.
func (h interruptHandler) pop() addr.Interrupt {
	queued := h.pending()
	for _, interrupt := range addr.Interrupts {
		if queued&uint8(interrupt) == 0 {
			continue
		}
		flags := h.bus.Read(addr.IF, memory.SourceCPU)
		h.bus.Write(addr.IF, bit.Reset(interrupt.Bit(), flags), memory.SourceCPU)
		return interrupt
	}
	return 0
}

// serviceRoutine builds the instruction that dispatches an interrupt.
func serviceRoutine(interrupt addr.Interrupt) instruction {
	return instruction{op: opServiceRoutine, vec: interrupt.Vector()}
}

// tickServiceRoutine takes 5 cycles: two internal delays, the two pushes of
// the current PC and the jump to the vector.
func (c *CPU) tickServiceRoutine(in *instruction) Status {
	switch in.step {
	case 0, 1:
		return Running
	case 2:
		c.sp--
		c.write(c.sp, bit.High(c.pc))
		return Running
	case 3:
		c.sp--
		c.write(c.sp, bit.Low(c.pc))
		return Running
	}
	c.pc = in.vec
	return Finished
}
