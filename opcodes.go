// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package jxe

// Class-file and bytecode constants. Grounded on pe.go's layout — a
// single file holding the large, flat constant vocabulary (signatures,
// magic numbers, opcode values) that the rest of the package dispatches
// on.

// ClassFileMagic is the fixed 4-byte magic every class file begins with.
const ClassFileMagic = 0xCAFEBABE

// opcode is a source-form (quickened) bytecode instruction value, named
// JBxxx in the original J9 disassembler this format traces back to.
type opcode byte

const (
	opNop              opcode = 0x00
	opBipush           opcode = 0x10
	opSipush           opcode = 0x11
	opLdc              opcode = 0x12
	opLdcW             opcode = 0x13
	opLdc2Lw           opcode = 0x14
	opIload            opcode = 0x15
	opLload            opcode = 0x16
	opFload            opcode = 0x17
	opDload            opcode = 0x18
	opAload            opcode = 0x19
	opIstore           opcode = 0x36
	opLstore           opcode = 0x37
	opFstore           opcode = 0x38
	opDstore           opcode = 0x39
	opAstore           opcode = 0x3A
	opIinc             opcode = 0x84
	opIfeq             opcode = 0x99
	opIfne             opcode = 0x9A
	opIflt             opcode = 0x9B
	opIfge             opcode = 0x9C
	opIfgt             opcode = 0x9D
	opIfle             opcode = 0x9E
	opIfIcmpeq         opcode = 0x9F
	opIfIcmpne         opcode = 0xA0
	opIfIcmplt         opcode = 0xA1
	opIfIcmpge         opcode = 0xA2
	opIfIcmpgt         opcode = 0xA3
	opIfIcmple         opcode = 0xA4
	opIfAcmpeq         opcode = 0xA5
	opIfAcmpne         opcode = 0xA6
	opGoto             opcode = 0xA7
	opJsr              opcode = 0xA8
	opRet              opcode = 0xA9
	opTableswitch      opcode = 0xAA
	opLookupswitch     opcode = 0xAB
	opReturn0          opcode = 0xAC
	opReturn1          opcode = 0xAD
	opSyncReturn0      opcode = 0xAF
	opSyncReturn1      opcode = 0xB0
	opGetstatic        opcode = 0xB2
	opPutstatic        opcode = 0xB3
	opGetfield         opcode = 0xB4
	opPutfield         opcode = 0xB5
	opInvokevirtual    opcode = 0xB6
	opInvokespecial    opcode = 0xB7
	opInvokestatic     opcode = 0xB8
	opInvokeinterface  opcode = 0xB9
	opNew              opcode = 0xBB
	opNewarray         opcode = 0xBC
	opAnewarray        opcode = 0xBD
	opCheckcast        opcode = 0xC0
	opInstanceof       opcode = 0xC1
	opMultianewarray   opcode = 0xC5
	opIfnull           opcode = 0xC6
	opIfnonnull        opcode = 0xC7
	opGotoW            opcode = 0xC8
	opIloadW           opcode = 0xCB
	opLloadW           opcode = 0xCC
	opFloadW           opcode = 0xCD
	opDloadW           opcode = 0xCE
	opAloadW           opcode = 0xCF
	opIstoreW          opcode = 0xD0
	opLstoreW          opcode = 0xD1
	opFstoreW          opcode = 0xD2
	opDstoreW          opcode = 0xD3
	opAstoreW          opcode = 0xD4
	opIincW            opcode = 0xD5
	opAload0Getfield   opcode = 0xD7
	opInvokeinterface2 opcode = 0xE7
	opLdc2Dw           opcode = 0xF9

	// Standard (target) opcodes the transformer emits in place of a
	// quickened source opcode. ldc2_w needs no separate constant: its
	// standard byte value (0x14) is identical to opLdc2Lw's.
	opStdAload0  opcode = 0x2A
	opStdReturn  opcode = 0xB1
	opStdAreturn opcode = 0xB0
)
