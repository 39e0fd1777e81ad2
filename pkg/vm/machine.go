// Package vm implements the stack machine that executes compiled expressions.
package vm

import (
	"errors"
	"fmt"
	"log/slog"

	"gocalc/pkg/arith"
)

// ErrStackUnderflow means an instruction popped an empty stack. Compiled
// programs never do this; only hand-built sequences can.
var ErrStackUnderflow = errors.New("vm: stack underflow")

// InvalidOpcodeError reports an instruction the machine does not understand.
type InvalidOpcodeError struct {
	Op Opcode
}

func (e *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("vm: invalid opcode %s", e.Op)
}

// Machine owns one operand stack. It is not safe for concurrent use; give
// each goroutine its own Machine.
type Machine struct {
	Stack []int64

	// Trace logs every executed instruction at debug level when set.
	Trace  bool
	Logger *slog.Logger
}

// NewMachine returns a machine with an empty stack.
func NewMachine() *Machine {
	return &Machine{Stack: make([]int64, 0, 16)}
}

// Reset clears the operand stack so the machine can run another program.
func (m *Machine) Reset() {
	m.Stack = m.Stack[:0]
}

func (m *Machine) push(v int64) {
	m.Stack = append(m.Stack, v)
}

func (m *Machine) pop() (int64, error) {
	n := len(m.Stack)
	if n == 0 {
		return 0, ErrStackUnderflow
	}
	v := m.Stack[n-1]
	m.Stack = m.Stack[:n-1]
	return v, nil
}

func (m *Machine) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

// Step executes a single instruction against the stack.
func (m *Machine) Step(in Instruction) error {
	switch in.Op {
	case OpPushConstant:
		m.push(in.Value)
	case OpApplyBinaryOp:
		right, err := m.pop()
		if err != nil {
			return err
		}
		left, err := m.pop()
		if err != nil {
			return err
		}
		result, err := arith.Apply(in.Operator, left, right)
		if err != nil {
			return err
		}
		m.push(result)
	default:
		return &InvalidOpcodeError{Op: in.Op}
	}
	return nil
}

// Run executes p from the current stack state and returns the value left on
// top of the stack. The first failing instruction stops execution.
func (m *Machine) Run(p Program) (int64, error) {
	for pc, in := range p {
		if err := m.Step(in); err != nil {
			return 0, err
		}
		if m.Trace {
			m.logger().Debug("vm step", "pc", pc, "instr", in.String(), "stack", m.Stack)
		}
	}
	return m.pop()
}

// Execute runs p on a fresh machine.
func Execute(p Program) (int64, error) {
	return NewMachine().Run(p)
}
