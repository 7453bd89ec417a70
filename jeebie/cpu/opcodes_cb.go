package cpu

// tickPrefix reads the second opcode byte on its second cycle, then runs
// the decoded CB instruction from the same cycle on, reporting its status.
func (c *CPU) tickPrefix(in *instruction) Status {
	switch in.step {
	case 0:
		return Running
	case 1:
		c.prefixed = decodeCB(c.readPC())
	}
	return c.execute(&c.prefixed)
}

// tickCB runs a CB prefixed instruction. Register forms complete on their
// first cycle, BIT (HL) needs a read, the other (HL) forms read and write.
func (c *CPU) tickCB(in *instruction) Status {
	if in.op == opCBr {
		if result, store := c.cb(in, c.get8(in.r)); store {
			c.set8(in.r, result)
		}
		return Finished
	}

	switch in.step {
	case 0:
		return Running
	case 1:
		result, store := c.cb(in, c.read(c.getHL()))
		if !store {
			return Finished
		}
		in.data = result
		return Running
	}
	c.write(c.getHL(), in.data)
	return Finished
}
