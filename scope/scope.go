// Package scope implements the Toy virtual machine's lexical scope chain:
// a linked list of frames, each mapping a declared identifier to its
// static type and current value. It is grounded on wudi-hey/vm's
// variable_manager.go and call_stack.go, adapted from PHP's flat global
// tables plus a call-stack manager into the nested-frame chain spec.md §4.4
// describes.
package scope

import (
	"errors"

	"github.com/GruelingPine185/Toy/literal"
)

var (
	// ErrRedeclared is returned by Declare when name already exists in
	// the same frame.
	ErrRedeclared = errors.New("scope: identifier already declared in this frame")
	// ErrUndeclared is returned by Set/Get when name is not bound
	// anywhere in the chain.
	ErrUndeclared = errors.New("scope: identifier not declared")
	// ErrTypeMismatch is returned by Set when the value's kind does not
	// match the declared type.
	ErrTypeMismatch = errors.New("scope: value kind does not match declared type")
	// ErrConstViolation is returned by Set when writing to a const
	// binding without allowConstOverride.
	ErrConstViolation = errors.New("scope: cannot assign to a const variable")
)

type binding struct {
	declaredType literal.Type
	value        literal.Value
}

// Scope is one frame of the lexical chain. The zero value is not usable;
// construct with New or Push.
type Scope struct {
	parent   *Scope
	bindings map[string]*binding
}

// Handle is an empty marker method; nothing calls it. A *Scope is stored in
// literal.Function.DeclarationScope, which is typed as any, so no method is
// needed for that.
func (s *Scope) Handle() {}

// New creates a root scope with no parent.
func New() *Scope {
	return &Scope{bindings: make(map[string]*binding)}
}

// Push creates a new frame whose parent is the given scope. Passing nil
// creates a new root frame, equivalent to New().
func Push(parent *Scope) *Scope {
	return &Scope{parent: parent, bindings: make(map[string]*binding)}
}

// Pop returns the parent of s, mirroring the C pushScope/popScope pairing
// used on OP_SCOPE_BEGIN/OP_SCOPE_END and on function entry/exit.
func Pop(s *Scope) *Scope {
	if s == nil {
		return nil
	}
	return s.parent
}

// Declare binds name to declaredType in the innermost (current) frame
// only. Declaring a name already present in this same frame fails;
// shadowing a name from an outer frame is allowed.
func (s *Scope) Declare(name string, declaredType literal.Type) error {
	if _, exists := s.bindings[name]; exists {
		return ErrRedeclared
	}
	s.bindings[name] = &binding{declaredType: declaredType, value: literal.Null()}
	return nil
}

// Set locates the nearest frame (innermost first) holding name and
// replaces its value, provided value's kind matches the declared type. A
// declared type of KindNull stands for an untyped binding and accepts any
// value's kind (spec.md §4.4: "if declared type is non-null and kindOf(value)
// does not match..."). When declaredType.Constant is true, the write is
// rejected unless allowConstOverride is set — used only for the single
// initializing write a var or function declaration performs on its own
// just-declared binding (see SPEC_FULL.md's note on §9's const-override
// open question).
func (s *Scope) Set(name string, value literal.Value, allowConstOverride bool) error {
	b, owner := s.find(name)
	if owner == nil {
		return ErrUndeclared
	}
	if b.declaredType.Of != literal.KindNull && b.declaredType.Of != value.Kind {
		return ErrTypeMismatch
	}
	if b.declaredType.Constant && !allowConstOverride {
		return ErrConstViolation
	}
	b.value = value
	return nil
}

// Get returns the value bound to name in the nearest enclosing frame.
func (s *Scope) Get(name string) (literal.Value, error) {
	b, owner := s.find(name)
	if owner == nil {
		return literal.Value{}, ErrUndeclared
	}
	return b.value, nil
}

// IsDeclared reports whether name is bound anywhere in the chain.
func (s *Scope) IsDeclared(name string) bool {
	_, owner := s.find(name)
	return owner != nil
}

func (s *Scope) find(name string) (*binding, *Scope) {
	for frame := s; frame != nil; frame = frame.parent {
		if b, ok := frame.bindings[name]; ok {
			return b, frame
		}
	}
	return nil, nil
}
