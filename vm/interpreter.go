// Package vm implements the Toy virtual machine's opcode dispatch loop:
// the operand stack, the recursive grouping/function-call model, and the
// arithmetic/logic/comparison/control-flow/declaration handlers described
// in spec.md §4.5–§4.7. It is grounded on wudi-hey/vm's instruction_executor.go
// switch-dispatch shape (vm.go's executeInstruction) and its
// sentinel-error-plus-context-decoration pattern (errors.go), adapted from
// PHP's pre-decoded Instruction array to Toy's raw byte-opcode stream that
// this package decodes for itself, instruction by instruction.
package vm

import (
	"github.com/GruelingPine185/Toy/image"
	"github.com/GruelingPine185/Toy/literal"
	"github.com/GruelingPine185/Toy/opcodes"
	"github.com/GruelingPine185/Toy/scope"
	"github.com/GruelingPine185/Toy/version"
)

// ImageVersion is the bytecode image format this build of the VM accepts.
var ImageVersion = version.ImageFormat

// Interpreter is one dispatch-loop instance: a private operand stack over a
// shared constant pool, a scope chain, and a slice of bytecode to read
// opcodes from. A fresh Interpreter is created for the top-level run and
// for every OP_FN_CALL (spec.md §4.6); all of them share the same constant
// pool, since spec.md simplifies function bodies to reference pool indices
// rather than embedding their own nested pool.
type Interpreter struct {
	cfg  *Config
	pool *literal.Array

	code []byte // the byte buffer this instance dispatches opcodes from
	base int    // ip value jump targets are relative to
	ip   int    // current read position within code

	stack *literal.Array
	scope *scope.Scope

	depth         int // combined grouping/call recursion depth
	currentOpcode opcodes.Opcode
}

// RunInterpreter implements spec.md §6's host interface: it loads bytecode
// through image.Reader, runs the top-level dispatch loop to completion,
// and clears any residual stack so the interpreter can be reused by a REPL
// host, matching interpreter.c's runInterpreter BUGFIX comment.
func RunInterpreter(bytecode []byte, cfg *Config) error {
	cfg = cfg.normalized()

	reader := image.NewReader(ImageVersion)
	result, err := reader.Load(bytecode)
	if err != nil {
		return err
	}

	in := &Interpreter{
		cfg:   cfg,
		pool:  result.Pool,
		code:  bytecode,
		base:  result.CodeStart,
		ip:    result.CodeStart,
		stack: literal.NewArray(0),
		scope: scope.New(),
	}

	_, err = in.run()
	in.stack.Drain()
	return err
}

// run executes opcodes from in.ip until OP_EOF, OP_GROUPING_END (one level
// of recursion returns to its caller), OP_FN_RETURN (the entire dispatch
// unwinds, propagating through any enclosing OP_GROUPING_BEGIN recursion),
// or a handler error. The returned bool is true once an OP_FN_RETURN has
// been seen, so every enclosing recursion level stops immediately instead
// of resuming sibling statements after the block that returned.
func (in *Interpreter) run() (returned bool, err error) {
	for {
		if in.ip >= len(in.code) {
			return false, nil
		}

		op := opcodes.Opcode(in.code[in.ip])
		in.ip++
		in.currentOpcode = op

		switch op {
		case opcodes.OP_EOF, opcodes.OP_SECTION_END:
			return false, nil

		case opcodes.OP_GROUPING_END:
			return false, nil

		case opcodes.OP_GROUPING_BEGIN:
			in.depth++
			if in.depth > in.cfg.MaxCallDepth {
				return false, in.newError(ErrStackOverflow, "grouping depth exceeded %d", in.cfg.MaxCallDepth)
			}
			r, err := in.run()
			in.depth--
			if err != nil {
				return false, err
			}
			if r {
				return true, nil
			}

		case opcodes.OP_FN_RETURN:
			if err := in.execFnReturn(); err != nil {
				return false, err
			}
			return true, nil

		default:
			if err := in.dispatch(op); err != nil {
				return false, err
			}
		}
	}
}

// dispatch executes every opcode not handled directly by run's control-flow
// cases above.
func (in *Interpreter) dispatch(op opcodes.Opcode) error {
	switch op {
	case opcodes.OP_ASSERT:
		return in.execAssert()
	case opcodes.OP_PRINT:
		return in.execPrint()

	case opcodes.OP_LITERAL:
		return in.execPushLiteral(false)
	case opcodes.OP_LITERAL_LONG:
		return in.execPushLiteral(true)
	case opcodes.OP_LITERAL_RAW:
		return in.execRawLiteral()

	case opcodes.OP_NEGATE:
		return in.execNegate()
	case opcodes.OP_INVERT:
		return in.execInvert()

	case opcodes.OP_ADDITION, opcodes.OP_SUBTRACTION, opcodes.OP_MULTIPLICATION,
		opcodes.OP_DIVISION, opcodes.OP_MODULO:
		return in.execArithmetic(op)

	case opcodes.OP_VAR_ADDITION_ASSIGN, opcodes.OP_VAR_SUBTRACTION_ASSIGN,
		opcodes.OP_VAR_MULTIPLICATION_ASSIGN, opcodes.OP_VAR_DIVISION_ASSIGN,
		opcodes.OP_VAR_MODULO_ASSIGN:
		return in.execCompoundAssign(op)

	case opcodes.OP_SCOPE_BEGIN:
		in.scope = scope.Push(in.scope)
		return nil
	case opcodes.OP_SCOPE_END:
		in.scope = scope.Pop(in.scope)
		return nil

	case opcodes.OP_VAR_DECL:
		return in.execVarDecl(false)
	case opcodes.OP_VAR_DECL_LONG:
		return in.execVarDecl(true)

	case opcodes.OP_FN_DECL:
		return in.execFnDecl(false)
	case opcodes.OP_FN_DECL_LONG:
		return in.execFnDecl(true)

	case opcodes.OP_VAR_ASSIGN:
		return in.execVarAssign()

	case opcodes.OP_TYPE_CAST:
		return in.execTypeCast()

	case opcodes.OP_COMPARE_EQUAL:
		return in.execCompareEqual(false)
	case opcodes.OP_COMPARE_NOT_EQUAL:
		return in.execCompareEqual(true)
	case opcodes.OP_COMPARE_LESS:
		return in.execCompareLess(false)
	case opcodes.OP_COMPARE_GREATER:
		return in.execCompareLess(true)
	case opcodes.OP_COMPARE_LESS_EQUAL:
		return in.execCompareLessEqual(false)
	case opcodes.OP_COMPARE_GREATER_EQUAL:
		return in.execCompareLessEqual(true)

	case opcodes.OP_AND:
		return in.execAnd()
	case opcodes.OP_OR:
		return in.execOr()

	case opcodes.OP_JUMP:
		return in.execJump()
	case opcodes.OP_IF_FALSE_JUMP:
		return in.execIfFalseJump()

	case opcodes.OP_FN_CALL:
		return in.execFnCall()

	case opcodes.OP_FN_END:
		// Only ever the terminating byte of a function body, consumed by
		// image.Reader; reaching it in dispatch is a no-op (the next read
		// will be out of range, ending the loop).
		return nil

	default:
		return in.newError(ErrUnknownOpcode, "opcode byte %d", byte(op))
	}
}

// resolve replaces an Identifier value with its bound value, per spec.md's
// "Resolve an identifier" glossary entry. Non-identifier values pass
// through unchanged.
func (in *Interpreter) resolve(v literal.Value) (literal.Value, error) {
	if !v.IsIdentifier() {
		return v, nil
	}
	name := v.AsIdentifier().Name
	val, err := in.scope.Get(name)
	if err != nil {
		return literal.Value{}, in.newError(ErrUndeclared, "%q", name)
	}
	return val, nil
}

func (in *Interpreter) pop() literal.Value  { return in.stack.Pop() }
func (in *Interpreter) push(v literal.Value) { in.stack.Push(v) }

// popResolved pops the top of the stack and resolves it if it is an
// Identifier.
func (in *Interpreter) popResolved() (literal.Value, error) {
	return in.resolve(in.pop())
}

func (in *Interpreter) execPushLiteral(long bool) error {
	idx, err := in.readIndex(long)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= in.pool.Len() {
		return in.newError(ErrBadCall, "literal pool index %d out of range", idx)
	}
	in.push(in.pool.At(idx))
	return nil
}

func (in *Interpreter) execRawLiteral() error {
	v, err := in.popResolved()
	if err != nil {
		return err
	}
	in.push(v)
	return nil
}

func (in *Interpreter) execPrint() error {
	v, err := in.popResolved()
	if err != nil {
		return err
	}
	in.cfg.Print(literal.Render(v))
	return nil
}

func (in *Interpreter) execAssert() error {
	rhs := in.pop()
	lhs, err := in.resolve(in.pop())
	if err != nil {
		return err
	}
	if !rhs.IsString() {
		return in.newError(ErrBadType, "assert message must be a string")
	}
	if lhs.IsNull() || !lhs.IsTruthy() {
		in.cfg.AssertFail(rhs.AsString())
		return in.newError(ErrAssertionFailed, "%s", rhs.AsString())
	}
	return nil
}

// readByte/readU16/readIndex advance in.ip over the opcode's operand bytes,
// living in in.code (the full image buffer for the top-level interpreter,
// or a function's owned Bytecode buffer for a call's inner interpreter).
func (in *Interpreter) readByte() (byte, error) {
	if in.ip >= len(in.code) {
		return 0, in.newError(ErrUnknownOpcode, "truncated operand")
	}
	b := in.code[in.ip]
	in.ip++
	return b, nil
}

func (in *Interpreter) readU16() (uint16, error) {
	if in.ip+2 > len(in.code) {
		return 0, in.newError(ErrUnknownOpcode, "truncated operand")
	}
	v := uint16(in.code[in.ip]) | uint16(in.code[in.ip+1])<<8
	in.ip += 2
	return v, nil
}

// readIndex reads a 1-byte pool index, or a 2-byte one when long is true
// (the LONG opcode variants spec.md §6 describes for pools over 256
// entries).
func (in *Interpreter) readIndex(long bool) (int, error) {
	if long {
		v, err := in.readU16()
		return int(v), err
	}
	v, err := in.readByte()
	return int(v), err
}
