package vm

import (
	"github.com/GruelingPine185/Toy/literal"
	"github.com/GruelingPine185/Toy/scope"
)

// execFnReturn implements OP_FN_RETURN (spec.md §4.6): drain the operand
// stack, resolving any remaining identifiers to values while preserving
// their order, then leave them for execFnCall to harvest. The caller in
// run() treats this as unwinding the entire dispatch, not just the
// innermost OP_GROUPING_BEGIN recursion level a `return` happens to sit
// inside — see DESIGN.md for why this departs from interpreter.c's
// single-level unwind.
func (in *Interpreter) execFnReturn() error {
	items := in.stack.Drain()
	for _, v := range items {
		resolved, err := in.resolve(v)
		if err != nil {
			return err
		}
		in.stack.Push(resolved)
	}
	return nil
}

// execFnCall implements OP_FN_CALL (spec.md §4.6): unpack arguments,
// resolve the callee, construct a fresh Interpreter over the function's
// bytecode with a new scope pushed onto its declaration scope, bind
// parameters, run it to completion, and push its (type-checked) return
// values onto the caller's stack.
func (in *Interpreter) execFnCall() error {
	args := literal.NewArray(0)
	for in.stack.Len() > 1 {
		args.Push(in.stack.Pop())
	}
	calleeRaw := in.stack.Pop()

	callee, err := in.resolve(calleeRaw)
	if err != nil {
		return err
	}
	if !callee.IsFunction() {
		return in.newError(ErrBadCall, "cannot call a %s", callee.Kind)
	}
	fn := callee.AsFunction()
	declScope, ok := fn.DeclarationScope.(*scope.Scope)
	if !ok || declScope == nil {
		return in.newError(ErrBadCall, "function has no declaration scope")
	}

	if in.depth+1 > in.cfg.MaxCallDepth {
		return in.newError(ErrStackOverflow, "call depth exceeded %d", in.cfg.MaxCallDepth)
	}

	inner := &Interpreter{
		cfg:   in.cfg,
		pool:  in.pool,
		code:  fn.Bytecode,
		stack: literal.NewArray(0),
		scope: scope.Push(declScope),
		depth: in.depth + 1,
	}

	paramIdx, err := inner.readU16()
	if err != nil {
		return err
	}
	returnIdx, err := inner.readU16()
	if err != nil {
		return err
	}
	inner.base = inner.ip

	paramArray, err := in.poolArray(int(paramIdx))
	if err != nil {
		return err
	}
	returnArray, err := in.poolArray(int(returnIdx))
	if err != nil {
		return err
	}

	for i := 0; i+1 < paramArray.Len(); i += 2 {
		idVal, typeVal := paramArray.At(i), paramArray.At(i+1)
		if !idVal.IsIdentifier() || !typeVal.IsType() {
			return in.newError(ErrBadCall, "malformed parameter descriptor")
		}
		name := idVal.AsIdentifier().Name
		if err := inner.scope.Declare(name, typeVal.AsType()); err != nil {
			return in.newError(ErrBadCall, "parameter %q: %v", name, scopeErrKind(err))
		}
		if args.Len() == 0 {
			return in.newError(ErrBadCall, "too few arguments for parameter %q", name)
		}
		if err := inner.scope.Set(name, args.Pop(), false); err != nil {
			return in.newError(ErrBadCall, "parameter %q: %v", name, scopeErrKind(err))
		}
	}

	if _, err := inner.run(); err != nil {
		return err
	}

	returns := inner.stack.Drain()
	if len(returns) > 1 {
		return in.newError(ErrTooManyReturns, "function returned %d values", len(returns))
	}

	for _, ret := range returns {
		if returnArray.Len() > 0 {
			want := returnArray.At(0)
			if !want.IsType() || want.AsType().Of != ret.Kind {
				return in.newError(ErrBadCall, "return value kind %s does not match declared %s", ret.Kind, want.AsType().Of)
			}
		}
		in.push(ret)
	}
	return nil
}

func (in *Interpreter) poolArray(idx int) (*literal.Array, error) {
	if idx < 0 || idx >= in.pool.Len() || !in.pool.At(idx).IsArray() {
		return nil, in.newError(ErrBadCall, "pool index %d is not an array", idx)
	}
	return in.pool.At(idx).AsArray(), nil
}
