package cpu

import "github.com/valerio/jeebie-sm83/jeebie/bit"

// Step functions for the load family. Step 0 is always the cycle in which
// the opcode was fetched, every later step performs at most one bus access.

func (c *CPU) tickLoad8(in *instruction) Status {
	switch in.op {
	case opLDrr:
		c.set8(in.r, c.get8(in.r2))
		return Finished

	case opLDrn:
		if in.step == 0 {
			return Running
		}
		c.set8(in.r, c.readPC())
		return Finished

	case opLDrInd:
		if in.step == 0 {
			return Running
		}
		c.set8(in.r, c.read(c.get16(in.rr)))
		c.postIncrementHL(in)
		return Finished

	case opLDIndr:
		if in.step == 0 {
			return Running
		}
		c.write(c.get16(in.rr), c.get8(in.r))
		c.postIncrementHL(in)
		return Finished

	case opLDHLn:
		switch in.step {
		case 0:
			return Running
		case 1:
			in.data = c.readPC()
			return Running
		}
		c.write(c.getHL(), in.data)
		return Finished

	case opLDAnn, opLDnnA:
		switch in.step {
		case 0:
			return Running
		case 1:
			in.lo = c.readPC()
			return Running
		case 2:
			in.hi = c.readPC()
			return Running
		}
		if in.op == opLDAnn {
			c.a = c.read(in.word())
		} else {
			c.write(in.word(), c.a)
		}
		return Finished

	case opLDHAn, opLDHnA:
		switch in.step {
		case 0:
			return Running
		case 1:
			in.lo = c.readPC()
			return Running
		}
		address := 0xFF00 + uint16(in.lo)
		if in.op == opLDHAn {
			c.a = c.read(address)
		} else {
			c.write(address, c.a)
		}
		return Finished

	case opLDHAC, opLDHCA:
		if in.step == 0 {
			return Running
		}
		address := 0xFF00 + uint16(c.c)
		if in.op == opLDHAC {
			c.a = c.read(address)
		} else {
			c.write(address, c.a)
		}
		return Finished
	}
	return Finished
}

// postIncrementHL applies the (HL+)/(HL-) adjustment after the transfer.
func (c *CPU) postIncrementHL(in *instruction) {
	if in.hl != 0 {
		c.setHL(c.getHL() + uint16(int16(in.hl)))
	}
}

func (c *CPU) tickLoad16(in *instruction) Status {
	switch in.op {
	case opLDrrnn:
		switch in.step {
		case 0:
			return Running
		case 1:
			in.lo = c.readPC()
			return Running
		}
		in.hi = c.readPC()
		c.set16(in.rr, in.word())
		return Finished

	case opLDnnSP:
		switch in.step {
		case 0:
			return Running
		case 1:
			in.lo = c.readPC()
			return Running
		case 2:
			in.hi = c.readPC()
			return Running
		case 3:
			c.write(in.word(), bit.Low(c.sp))
			return Running
		}
		c.write(in.word()+1, bit.High(c.sp))
		return Finished

	case opLDSPHL:
		if in.step == 0 {
			return Running
		}
		c.sp = c.getHL()
		return Finished

	case opLDHLSPe:
		switch in.step {
		case 0:
			return Running
		case 1:
			in.data = c.readPC()
			return Running
		}
		c.setHL(c.addSigned(in.data))
		return Finished

	case opPUSH:
		switch in.step {
		case 0, 1:
			// internal delay, SP is pre-decremented
			return Running
		case 2:
			c.sp--
			c.write(c.sp, bit.High(c.get16(in.rr)))
			return Running
		}
		c.sp--
		c.write(c.sp, bit.Low(c.get16(in.rr)))
		return Finished

	case opPOP:
		switch in.step {
		case 0:
			return Running
		case 1:
			in.lo = c.read(c.sp)
			c.sp++
			return Running
		}
		in.hi = c.read(c.sp)
		c.sp++
		// set16 masks the low nibble of F for AF
		c.set16(in.rr, in.word())
		return Finished
	}
	return Finished
}
