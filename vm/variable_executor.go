package vm

import (
	"errors"

	"github.com/GruelingPine185/Toy/literal"
	"github.com/GruelingPine185/Toy/scope"
)

// scopeErrKind maps a scope package sentinel to the matching vm sentinel,
// so every package-boundary error still satisfies errors.Is against the
// taxonomy spec.md §7 names.
func scopeErrKind(err error) error {
	switch {
	case errors.Is(err, scope.ErrRedeclared):
		return ErrRedeclared
	case errors.Is(err, scope.ErrUndeclared):
		return ErrUndeclared
	case errors.Is(err, scope.ErrTypeMismatch):
		return ErrTypeMismatch
	case errors.Is(err, scope.ErrConstViolation):
		return ErrConstViolation
	default:
		return err
	}
}

// execVarDecl implements OP_VAR_DECL/_LONG (spec.md §4.5): read the
// identifier and type pool indices, pop the initializer, declare the
// identifier with its type, and assign the initializer unless it is Null.
// The initializer write passes allowConstOverride=true: it is the binding's
// first definition, not a subsequent write, so a `const` declaration must
// be able to receive its own initial value (spec.md §4.4).
func (in *Interpreter) execVarDecl(long bool) error {
	idIdx, err := in.readIndex(long)
	if err != nil {
		return err
	}
	typeIdx, err := in.readIndex(long)
	if err != nil {
		return err
	}

	identVal, err := in.poolIdentifier(idIdx)
	if err != nil {
		return err
	}
	typeVal, err := in.poolType(typeIdx)
	if err != nil {
		return err
	}

	if err := in.scope.Declare(identVal.Name, typeVal); err != nil {
		return in.newError(scopeErrKind(err), "%q", identVal.Name)
	}

	init, err := in.popResolved()
	if err != nil {
		return err
	}
	if !init.IsNull() {
		if err := in.scope.Set(identVal.Name, init, true); err != nil {
			return in.newError(scopeErrKind(err), "%q", identVal.Name)
		}
	}
	return nil
}

// execFnDecl implements OP_FN_DECL/_LONG (spec.md §4.5 and §9's note on
// function scope ownership): a fresh scope frame is pushed unconditionally
// and becomes the function's declaration scope; the identifier is declared
// and assigned in the *current* (pre-push) scope. Grounded on
// interpreter.c's execFnDecl, which pushes the scope before attempting to
// declare and pops it again on any failure path.
func (in *Interpreter) execFnDecl(long bool) error {
	idIdx, err := in.readIndex(long)
	if err != nil {
		return err
	}
	fnIdx, err := in.readIndex(long)
	if err != nil {
		return err
	}

	identVal, err := in.poolIdentifier(idIdx)
	if err != nil {
		return err
	}
	if fnIdx < 0 || fnIdx >= in.pool.Len() || !in.pool.At(fnIdx).IsFunction() {
		return in.newError(ErrBadCall, "pool index %d is not a function", fnIdx)
	}
	fn := in.pool.At(fnIdx).AsFunction()

	declScope := scope.Push(in.scope)
	fn.DeclarationScope = declScope
	in.pool.Set(fnIdx, literal.FuncVal(fn))

	fnType := literal.Type{Of: literal.KindFunction, Constant: true}
	if err := in.scope.Declare(identVal.Name, fnType); err != nil {
		return in.newError(scopeErrKind(err), "%q", identVal.Name)
	}
	if err := in.scope.Set(identVal.Name, literal.FuncVal(fn), true); err != nil {
		return in.newError(scopeErrKind(err), "%q", identVal.Name)
	}
	return nil
}

// execVarAssign implements OP_VAR_ASSIGN. Per SPEC_FULL.md's resolution of
// §9's open question, plain assignment never overrides a const binding
// (allowConstOverride=false) — only a function's own declaration (above)
// may perform that one privileged write.
func (in *Interpreter) execVarAssign() error {
	rhs, err := in.popResolved()
	if err != nil {
		return err
	}
	lhs := in.pop()
	if !lhs.IsIdentifier() {
		return in.newError(ErrBadCall, "cannot assign to a non-variable %s", lhs.Kind)
	}
	name := lhs.AsIdentifier().Name
	if !in.scope.IsDeclared(name) {
		return in.newError(ErrUndeclared, "%q", name)
	}
	if err := in.scope.Set(name, rhs, false); err != nil {
		return in.newError(scopeErrKind(err), "%q", name)
	}
	return nil
}

func (in *Interpreter) poolIdentifier(idx int) (literal.Identifier, error) {
	if idx < 0 || idx >= in.pool.Len() || !in.pool.At(idx).IsIdentifier() {
		return literal.Identifier{}, in.newError(ErrBadCall, "pool index %d is not an identifier", idx)
	}
	return in.pool.At(idx).AsIdentifier(), nil
}

func (in *Interpreter) poolType(idx int) (literal.Type, error) {
	if idx < 0 || idx >= in.pool.Len() || !in.pool.At(idx).IsType() {
		return literal.Type{}, in.newError(ErrBadCall, "pool index %d is not a type", idx)
	}
	return in.pool.At(idx).AsType(), nil
}
