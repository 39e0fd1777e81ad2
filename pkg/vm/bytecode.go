package vm

import (
	"encoding/binary"
	"fmt"
	"strings"

	"gocalc/pkg/arith"
)

// Opcode selects what an Instruction does.
type Opcode uint8

const (
	OpPushConstant  Opcode = 0x01
	OpApplyBinaryOp Opcode = 0x02
)

func (op Opcode) String() string {
	switch op {
	case OpPushConstant:
		return "push"
	case OpApplyBinaryOp:
		return "apply"
	}
	return fmt.Sprintf("Opcode(0x%02X)", uint8(op))
}

// Instruction is a single stack-machine step.
//
//	push 3     Instruction{Op: OpPushConstant, Value: 3}
//	apply +    Instruction{Op: OpApplyBinaryOp, Operator: arith.Add}
type Instruction struct {
	Op       Opcode
	Value    int64          // OpPushConstant only
	Operator arith.Operator // OpApplyBinaryOp only
}

// Push returns an instruction that pushes v onto the operand stack.
func Push(v int64) Instruction {
	return Instruction{Op: OpPushConstant, Value: v}
}

// Apply returns an instruction that pops two operands and pushes op applied to them.
func Apply(op arith.Operator) Instruction {
	return Instruction{Op: OpApplyBinaryOp, Operator: op}
}

func (in Instruction) String() string {
	switch in.Op {
	case OpPushConstant:
		return fmt.Sprintf("push %d", in.Value)
	case OpApplyBinaryOp:
		return fmt.Sprintf("apply %s", in.Operator)
	}
	return in.Op.String()
}

// Program is an instruction sequence executed in slice order.
type Program []Instruction

// Disassemble renders one instruction per line, prefixed with its index.
func (p Program) Disassemble() string {
	var sb strings.Builder
	for i, in := range p {
		fmt.Fprintf(&sb, "%04d  %s\n", i, in)
	}
	return sb.String()
}

// instructionSize is one opcode byte followed by an 8-byte little-endian operand.
const instructionSize = 9

// EncodeProgram packs p into its binary form. For apply instructions the
// operand carries the operator.
func EncodeProgram(p Program) []byte {
	out := make([]byte, len(p)*instructionSize)
	for i, in := range p {
		chunk := out[i*instructionSize:]
		chunk[0] = byte(in.Op)
		operand := uint64(in.Value)
		if in.Op == OpApplyBinaryOp {
			operand = uint64(in.Operator)
		}
		binary.LittleEndian.PutUint64(chunk[1:], operand)
	}
	return out
}

// DecodeProgram is the inverse of EncodeProgram.
func DecodeProgram(data []byte) (Program, error) {
	if len(data)%instructionSize != 0 {
		return nil, fmt.Errorf("decode: %d bytes is not a multiple of %d", len(data), instructionSize)
	}
	p := make(Program, 0, len(data)/instructionSize)
	for off := 0; off < len(data); off += instructionSize {
		op := Opcode(data[off])
		operand := binary.LittleEndian.Uint64(data[off+1:])
		switch op {
		case OpPushConstant:
			p = append(p, Push(int64(operand)))
		case OpApplyBinaryOp:
			operator := arith.Operator(operand)
			if operand > 0xFF || !operator.Valid() {
				return nil, fmt.Errorf("decode: instruction %d: invalid operator %d", off/instructionSize, operand)
			}
			p = append(p, Apply(operator))
		default:
			return nil, fmt.Errorf("decode: instruction %d: %w", off/instructionSize, &InvalidOpcodeError{Op: op})
		}
	}
	return p, nil
}
