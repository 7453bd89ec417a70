package cpu

import "github.com/valerio/jeebie-sm83/jeebie/bit"

// Conditional jumps, calls and returns test their condition once the
// operand has been read: a false condition ends the instruction there,
// which is why they are shorter when not taken.

func (c *CPU) tickJump(in *instruction) Status {
	switch in.op {
	case opJPHL:
		c.pc = c.getHL()
		return Finished

	case opJPnn:
		switch in.step {
		case 0:
			return Running
		case 1:
			in.lo = c.readPC()
			return Running
		case 2:
			in.hi = c.readPC()
			if !c.checkCondition(in.cond) {
				return Finished
			}
			return Running
		}
		c.pc = in.word()
		return Finished

	case opJR:
		switch in.step {
		case 0:
			return Running
		case 1:
			in.data = c.readPC()
			if !c.checkCondition(in.cond) {
				return Finished
			}
			return Running
		}
		c.pc += uint16(int8(in.data))
		return Finished
	}
	return Finished
}

func (c *CPU) tickCall(in *instruction) Status {
	if in.op == opRST {
		switch in.step {
		case 0, 1:
			return Running
		case 2:
			c.sp--
			c.write(c.sp, bit.High(c.pc))
			return Running
		}
		c.sp--
		c.write(c.sp, bit.Low(c.pc))
		c.pc = in.vec
		return Finished
	}

	switch in.step {
	case 0:
		return Running
	case 1:
		in.lo = c.readPC()
		return Running
	case 2:
		in.hi = c.readPC()
		if !c.checkCondition(in.cond) {
			return Finished
		}
		return Running
	case 3:
		return Running
	case 4:
		c.sp--
		c.write(c.sp, bit.High(c.pc))
		return Running
	}
	c.sp--
	c.write(c.sp, bit.Low(c.pc))
	c.pc = in.word()
	return Finished
}

func (c *CPU) tickReturn(in *instruction) Status {
	step := in.step
	if in.op == opRETcc {
		// one extra cycle to evaluate the condition
		switch step {
		case 0:
			return Running
		case 1:
			if !c.checkCondition(in.cond) {
				return Finished
			}
			return Running
		}
		step--
	}

	switch step {
	case 0:
		return Running
	case 1:
		in.lo = c.read(c.sp)
		c.sp++
		return Running
	case 2:
		in.hi = c.read(c.sp)
		c.sp++
		return Running
	}
	c.pc = in.word()
	if in.op == opRETI {
		c.ime = true
	}
	return Finished
}

func (c *CPU) tickInterruptMaster(in *instruction) Status {
	if in.op == opDI {
		c.ime = false
		c.eiDelay = 0
		return Finished
	}

	if !c.eiDelayEnabled {
		c.ime = true
		return Finished
	}
	if !c.ime && c.eiDelay == 0 {
		// EI itself and the next instruction must complete first
		c.eiDelay = 2
	}
	return Finished
}

// tickHalt suspends the CPU. With IME clear and an interrupt already
// pending HALT doesn't suspend: it takes one more cycle and arms the bug
// that makes the next fetch read the same byte twice.
func (c *CPU) tickHalt(in *instruction) Status {
	if in.data == 1 {
		c.haltBug = true
		return Finished
	}
	if in.step == 0 && !c.ime && c.interrupts.isQueued() {
		in.data = 1
		return Running
	}
	return Halt
}

// tickStop resets DIV and skips the padding byte, then reports Stop until
// the CPU tears it down on a key press.
func (c *CPU) tickStop(in *instruction) Status {
	if in.step == 0 {
		c.resetDivider()
		c.pc++
	}
	return Stop
}
