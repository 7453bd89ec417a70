package cpu

import "fmt"

// Status is the result of advancing an instruction by one M-cycle.
type Status uint8

const (
	// Running means the instruction needs more cycles.
	Running Status = iota
	// Finished means the instruction completed this cycle.
	Finished
	// Halt is reported every cycle by HALT while the CPU is suspended.
	Halt
	// Stop is reported every cycle by STOP until a key is pressed.
	Stop
)

func (s Status) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case Finished:
		return "FINISHED"
	case Halt:
		return "HALT"
	case Stop:
		return "STOP"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// op is the instruction family, each one has its own step function.
type op uint8

const (
	opNOP op = iota

	// loads
	opLDrr    // LD r,r
	opLDrn    // LD r,n
	opLDrInd  // LD r,(rr) and LD A,(HL+/-)
	opLDIndr  // LD (rr),r and LD (HL+/-),A
	opLDHLn   // LD (HL),n
	opLDAnn   // LD A,(nn)
	opLDnnA   // LD (nn),A
	opLDHAn   // LDH A,(n)
	opLDHnA   // LDH (n),A
	opLDHAC   // LD A,(C)
	opLDHCA   // LD (C),A
	opLDrrnn  // LD rr,nn
	opLDnnSP  // LD (nn),SP
	opLDSPHL  // LD SP,HL
	opLDHLSPe // LD HL,SP+e
	opPUSH    // PUSH rr
	opPOP     // POP rr

	// arithmetic and logic
	opALUr    // ALU A,r
	opALUhl   // ALU A,(HL)
	opALUn    // ALU A,n
	opINCr    // INC r
	opDECr    // DEC r
	opINChl   // INC (HL)
	opDEChl   // DEC (HL)
	opINCrr   // INC rr
	opDECrr   // DEC rr
	opADDHLrr // ADD HL,rr
	opADDSPe  // ADD SP,e
	opRotA    // RLCA, RRCA, RLA, RRA
	opDAA
	opCPL
	opSCF
	opCCF

	// control flow
	opJPnn // JP cc,nn
	opJPHL // JP HL
	opJR   // JR cc,e
	opCALL // CALL cc,nn
	opRET  // RET
	opRETI // RETI
	opRETcc
	opRST
	opDI
	opEI
	opHALT
	opSTOP

	// CB prefix
	opPrefixCB
	opCBr  // CB op on a register
	opCBhl // CB op on (HL)

	// interrupt dispatch
	opServiceRoutine
)

// condition gates jumps, calls and returns.
type condition uint8

const (
	condAlways condition = iota
	condNZ
	condZ
	condNC
	condC
)

// aluOp is the operation of the 8 bit ALU group, in opcode order.
type aluOp uint8

const (
	aluADD aluOp = iota
	aluADC
	aluSUB
	aluSBC
	aluAND
	aluXOR
	aluOR
	aluCP
)

// cbOp is the operation of a CB prefixed opcode, rotations in opcode order.
type cbOp uint8

const (
	cbRLC cbOp = iota
	cbRRC
	cbRL
	cbRR
	cbSLA
	cbSRA
	cbSWAP
	cbSRL
	cbBIT
	cbRES
	cbSET
)

// instruction is the state of one executing opcode. It is a plain value:
// the decoder copies a template out of the opcode tables and the CPU keeps
// the current one in place, so nothing is allocated per fetch.
type instruction struct {
	op     op
	opcode uint8

	r    reg8  // destination (or only) register
	r2   reg8  // source register
	rr   reg16 // register pair operand
	cond condition
	alu  aluOp
	cb   cbOp
	bit  uint8
	hl   int8   // HL post increment/decrement for the (HL+)/(HL-) loads
	vec  uint16 // RST and service routine target

	// execution state
	step int
	lo   uint8
	hi   uint8
	data uint8
}

func (in *instruction) word() uint16 {
	return uint16(in.hi)<<8 | uint16(in.lo)
}

// execute advances the instruction by one M-cycle.
func (c *CPU) execute(in *instruction) Status {
	var status Status

	switch in.op {
	case opNOP:
		status = Finished

	case opLDrr, opLDrn, opLDrInd, opLDIndr, opLDHLn, opLDAnn, opLDnnA,
		opLDHAn, opLDHnA, opLDHAC, opLDHCA:
		status = c.tickLoad8(in)
	case opLDrrnn, opLDnnSP, opLDSPHL, opLDHLSPe, opPUSH, opPOP:
		status = c.tickLoad16(in)

	case opALUr, opALUhl, opALUn:
		status = c.tickALU(in)
	case opINCr, opDECr, opINChl, opDEChl:
		status = c.tickIncDec8(in)
	case opINCrr, opDECrr, opADDHLrr, opADDSPe:
		status = c.tickArith16(in)
	case opRotA, opDAA, opCPL, opSCF, opCCF:
		status = c.tickMisc(in)

	case opJPnn, opJPHL, opJR:
		status = c.tickJump(in)
	case opCALL, opRST:
		status = c.tickCall(in)
	case opRET, opRETI, opRETcc:
		status = c.tickReturn(in)
	case opDI, opEI:
		status = c.tickInterruptMaster(in)
	case opHALT:
		status = c.tickHalt(in)
	case opSTOP:
		status = c.tickStop(in)

	case opPrefixCB:
		status = c.tickPrefix(in)
	case opCBr, opCBhl:
		status = c.tickCB(in)

	case opServiceRoutine:
		status = c.tickServiceRoutine(in)

	default:
		panic(fmt.Sprintf("unknown instruction family %d (opcode 0x%02X)", in.op, in.opcode))
	}

	in.step++
	return status
}

func (c *CPU) checkCondition(cond condition) bool {
	switch cond {
	case condNZ:
		return !c.isSetFlag(zeroFlag)
	case condZ:
		return c.isSetFlag(zeroFlag)
	case condNC:
		return !c.isSetFlag(carryFlag)
	case condC:
		return c.isSetFlag(carryFlag)
	}
	return true
}
