package cpu

func (c *CPU) tickALU(in *instruction) Status {
	switch in.op {
	case opALUr:
		c.alu(in.alu, c.get8(in.r2))
		return Finished
	case opALUhl:
		if in.step == 0 {
			return Running
		}
		c.alu(in.alu, c.read(c.getHL()))
		return Finished
	case opALUn:
		if in.step == 0 {
			return Running
		}
		c.alu(in.alu, c.readPC())
		return Finished
	}
	return Finished
}

func (c *CPU) tickIncDec8(in *instruction) Status {
	switch in.op {
	case opINCr:
		c.set8(in.r, c.inc(c.get8(in.r)))
		return Finished
	case opDECr:
		c.set8(in.r, c.dec(c.get8(in.r)))
		return Finished
	}

	// (HL): read, then modify and write back
	switch in.step {
	case 0:
		return Running
	case 1:
		in.data = c.read(c.getHL())
		return Running
	}
	if in.op == opINChl {
		c.write(c.getHL(), c.inc(in.data))
	} else {
		c.write(c.getHL(), c.dec(in.data))
	}
	return Finished
}

func (c *CPU) tickArith16(in *instruction) Status {
	switch in.op {
	case opINCrr, opDECrr:
		if in.step == 0 {
			return Running
		}
		if in.op == opINCrr {
			c.set16(in.rr, c.get16(in.rr)+1)
		} else {
			c.set16(in.rr, c.get16(in.rr)-1)
		}
		return Finished

	case opADDHLrr:
		if in.step == 0 {
			return Running
		}
		c.addToHL(c.get16(in.rr))
		return Finished

	case opADDSPe:
		switch in.step {
		case 0:
			return Running
		case 1:
			in.data = c.readPC()
			return Running
		case 2:
			return Running
		}
		c.sp = c.addSigned(in.data)
		return Finished
	}
	return Finished
}

// tickMisc handles the single cycle accumulator and flag opcodes.
func (c *CPU) tickMisc(in *instruction) Status {
	switch in.op {
	case opRotA:
		// same as the CB rotations, but Z is always reset
		c.a = c.rotate(in.cb, c.a)
		c.resetFlag(zeroFlag)
	case opDAA:
		c.daa()
	case opCPL:
		c.cpl()
	case opSCF:
		c.scf()
	case opCCF:
		c.ccf()
	}
	return Finished
}
