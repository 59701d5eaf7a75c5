package vm

import "github.com/GruelingPine185/Toy/literal"

func (in *Interpreter) execCompareEqual(invert bool) error {
	rhs, err := in.popResolved()
	if err != nil {
		return err
	}
	lhs, err := in.popResolved()
	if err != nil {
		return err
	}
	result := literal.Equal(lhs, rhs)
	if invert {
		result = !result
	}
	in.push(literal.Bool(result))
	return nil
}

// numericPair resolves both operands and widens Integers to Float,
// matching spec.md's "both operands numeric, widened to Float" rule for
// ordered comparisons.
func (in *Interpreter) numericPair() (float32, float32, error) {
	rhs, err := in.popResolved()
	if err != nil {
		return 0, 0, err
	}
	lhs, err := in.popResolved()
	if err != nil {
		return 0, 0, err
	}
	if !lhs.IsNumeric() {
		return 0, 0, in.newError(ErrBadType, "left comparison operand is a %s", lhs.Kind)
	}
	if !rhs.IsNumeric() {
		return 0, 0, in.newError(ErrBadType, "right comparison operand is a %s", rhs.Kind)
	}
	return widenToFloat(lhs), widenToFloat(rhs), nil
}

func widenToFloat(v literal.Value) float32 {
	if v.IsInteger() {
		return float32(v.AsInteger())
	}
	return v.AsFloat()
}

func (in *Interpreter) execCompareLess(invert bool) error {
	lhs, rhs, err := in.numericPair()
	if err != nil {
		return err
	}
	result := lhs < rhs
	if invert {
		result = lhs > rhs
	}
	in.push(literal.Bool(result))
	return nil
}

func (in *Interpreter) execCompareLessEqual(invert bool) error {
	lhs, rhs, err := in.numericPair()
	if err != nil {
		return err
	}
	var result bool
	if !invert {
		result = lhs <= rhs
	} else {
		result = lhs >= rhs
	}
	in.push(literal.Bool(result))
	return nil
}

func (in *Interpreter) execAnd() error {
	rhs, err := in.popResolved()
	if err != nil {
		return err
	}
	lhs, err := in.popResolved()
	if err != nil {
		return err
	}
	in.push(literal.Bool(lhs.IsTruthy() && rhs.IsTruthy()))
	return nil
}

func (in *Interpreter) execOr() error {
	rhs, err := in.popResolved()
	if err != nil {
		return err
	}
	lhs, err := in.popResolved()
	if err != nil {
		return err
	}
	in.push(literal.Bool(lhs.IsTruthy() || rhs.IsTruthy()))
	return nil
}
