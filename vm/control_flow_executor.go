package vm

// execJump implements OP_JUMP: read a u16 target and move ip to base+target
// unconditionally, failing if that lands outside the code buffer.
func (in *Interpreter) execJump() error {
	target, err := in.readU16()
	if err != nil {
		return err
	}
	return in.jumpTo(target)
}

// execIfFalseJump implements OP_IF_FALSE_JUMP: pop and resolve the
// condition, fail on Null, and jump only when it is falsy.
func (in *Interpreter) execIfFalseJump() error {
	target, err := in.readU16()
	if err != nil {
		return err
	}
	cond, err := in.popResolved()
	if err != nil {
		return err
	}
	if cond.IsNull() {
		return in.newError(ErrNullCompare, "condition is null")
	}
	if !cond.IsTruthy() {
		return in.jumpTo(target)
	}
	return nil
}

func (in *Interpreter) jumpTo(target uint16) error {
	dest := in.base + int(target)
	if dest < 0 || dest > len(in.code) {
		return in.newError(ErrJumpOutOfRange, "target %d (base %d, length %d)", target, in.base, len(in.code))
	}
	in.ip = dest
	return nil
}
