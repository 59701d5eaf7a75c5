package vm

import (
	"github.com/GruelingPine185/Toy/literal"
	"github.com/GruelingPine185/Toy/opcodes"
)

func (in *Interpreter) execNegate() error {
	v, err := in.popResolved()
	if err != nil {
		return err
	}
	switch {
	case v.IsInteger():
		in.push(literal.Int(-v.AsInteger()))
	case v.IsFloat():
		in.push(literal.Float(-v.AsFloat()))
	default:
		return in.newError(ErrBadArithmetic, "cannot negate a %s", v.Kind)
	}
	return nil
}

func (in *Interpreter) execInvert() error {
	v, err := in.popResolved()
	if err != nil {
		return err
	}
	if !v.IsBoolean() {
		return in.newError(ErrBadArithmetic, "cannot invert a %s", v.Kind)
	}
	in.push(literal.Bool(!v.AsBoolean()))
	return nil
}

func (in *Interpreter) execArithmetic(op opcodes.Opcode) error {
	rhs, err := in.popResolved()
	if err != nil {
		return err
	}
	lhs, err := in.popResolved()
	if err != nil {
		return err
	}
	result, err := in.binaryArithmetic(op, lhs, rhs)
	if err != nil {
		return err
	}
	in.push(result)
	return nil
}

// binaryArithmetic implements spec.md §4.5's binary arithmetic rules:
// string concatenation, Integer/Float widening, integer and float
// arithmetic with their respective zero-divisor checks, and float modulo
// rejection.
func (in *Interpreter) binaryArithmetic(op opcodes.Opcode, lhs, rhs literal.Value) (literal.Value, error) {
	if lhs.IsString() && rhs.IsString() {
		if op != opcodes.OP_ADDITION {
			return literal.Value{}, in.newError(ErrBadArithmetic, "strings only support addition")
		}
		concat := lhs.AsString() + rhs.AsString()
		if len(concat) > literal.MaxStringLength {
			return literal.Value{}, in.newError(ErrStringOverflow, "concatenated string is %d bytes", len(concat))
		}
		v, _ := literal.Str(concat)
		return v, nil
	}

	if lhs.IsFloat() && rhs.IsInteger() {
		rhs = literal.Float(float32(rhs.AsInteger()))
	}
	if lhs.IsInteger() && rhs.IsFloat() {
		lhs = literal.Float(float32(lhs.AsInteger()))
	}

	if lhs.IsInteger() && rhs.IsInteger() {
		a, b := lhs.AsInteger(), rhs.AsInteger()
		switch op {
		case opcodes.OP_ADDITION:
			return literal.Int(a + b), nil
		case opcodes.OP_SUBTRACTION:
			return literal.Int(a - b), nil
		case opcodes.OP_MULTIPLICATION:
			return literal.Int(a * b), nil
		case opcodes.OP_DIVISION:
			if b == 0 {
				return literal.Value{}, in.newError(ErrDivideByZero, "integer division")
			}
			return literal.Int(a / b), nil
		case opcodes.OP_MODULO:
			if b == 0 {
				return literal.Value{}, in.newError(ErrDivideByZero, "integer modulo")
			}
			return literal.Int(a % b), nil
		}
	}

	if op == opcodes.OP_MODULO {
		return literal.Value{}, in.newError(ErrBadArithmetic, "modulo on floats is not allowed")
	}

	if lhs.IsFloat() && rhs.IsFloat() {
		a, b := lhs.AsFloat(), rhs.AsFloat()
		switch op {
		case opcodes.OP_ADDITION:
			return literal.Float(a + b), nil
		case opcodes.OP_SUBTRACTION:
			return literal.Float(a - b), nil
		case opcodes.OP_MULTIPLICATION:
			return literal.Float(a * b), nil
		case opcodes.OP_DIVISION:
			if b == 0 {
				return literal.Value{}, in.newError(ErrDivideByZero, "float division")
			}
			return literal.Float(a / b), nil
		}
	}

	return literal.Value{}, in.newError(ErrBadArithmetic, "%s and %s", lhs.Kind, rhs.Kind)
}

// execCompoundAssign implements the five `_ASSIGN` opcodes directly: pop
// lhs (an identifier) and rhs once, resolve lhs's current value, combine
// with rhs using the plain arithmetic rule the opcode corresponds to, and
// assign the result back to lhs. SPEC_FULL.md documents this as a
// deliberate simplification of the double-push expansion §4.7 describes:
// same observable errors and stack effect, without the wasted slot.
func (in *Interpreter) execCompoundAssign(op opcodes.Opcode) error {
	plain, ok := opcodes.IsCompoundAssign(op)
	if !ok {
		return in.newError(ErrUnknownOpcode, "not a compound-assign opcode")
	}

	rhs, err := in.popResolved()
	if err != nil {
		return err
	}
	lhsIdent := in.pop()
	if !lhsIdent.IsIdentifier() {
		return in.newError(ErrBadCall, "compound assignment target must be a variable")
	}
	name := lhsIdent.AsIdentifier().Name

	current, err := in.resolve(lhsIdent)
	if err != nil {
		return err
	}

	result, err := in.binaryArithmetic(plain, current, rhs)
	if err != nil {
		return err
	}

	if !in.scope.IsDeclared(name) {
		return in.newError(ErrUndeclared, "%q", name)
	}
	if err := in.scope.Set(name, result, false); err != nil {
		return in.newError(scopeErrKind(err), "%q", name)
	}
	return nil
}
