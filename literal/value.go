// Package literal implements the Toy virtual machine's tagged value model:
// the runtime Value variant, its ordered Array and keyed Dict containers,
// and the Type descriptor used for static-ish declaration checking.
package literal

import (
	"fmt"
	"hash/fnv"
	"strconv"
)

// Kind identifies which payload a Value currently holds.
type Kind byte

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindString
	KindArray
	KindDictionary
	KindFunction
	KindIdentifier
	KindType
	KindOpaque

	// Intermediate kinds exist only while an image.Reader is still
	// back-patching the constant pool; a fully loaded pool never contains
	// them and the vm package never sees them.
	KindFunctionIntermediate
	KindTypeIntermediate
)

var kindNames = map[Kind]string{
	KindNull:                 "null",
	KindBoolean:               "boolean",
	KindInteger:               "integer",
	KindFloat:                 "float",
	KindString:                "string",
	KindArray:                 "array",
	KindDictionary:            "dictionary",
	KindFunction:              "function",
	KindIdentifier:            "identifier",
	KindType:                  "type",
	KindOpaque:                "opaque",
	KindFunctionIntermediate:  "function-intermediate",
	KindTypeIntermediate:      "type-intermediate",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MaxStringLength is the hard cap on any String value's byte length,
// matching the Toy binary image format's MAX_STRING_LENGTH.
const MaxStringLength = 4096

// Function is the payload of a KindFunction value: an owned bytecode blob
// and a weak (non-owning) handle to the scope chain live at declaration
// time. See spec.md §9 on declaration-scope ownership.
//
// DeclarationScope holds a *scope.Scope. It is typed as any here, rather
// than importing the scope package, to avoid a literal<->scope import
// cycle (scope.Scope stores literal.Value bindings). The vm package is the
// only place that type-asserts it back.
type Function struct {
	Bytecode         []byte
	DeclarationScope any
}

// Identifier is the payload of a KindIdentifier value: a variable name and
// its precomputed hash.
type Identifier struct {
	Name string
	Hash uint32
}

// Type is a static type descriptor. Array types carry exactly one subtype
// (the element type); Dictionary types carry exactly two (key, then
// value); every other kind carries none.
type Type struct {
	Of       Kind
	Constant bool
	Subtypes []Type
}

// Opaque is reserved for host-provided foreign objects. The VM never
// interprets its contents.
type Opaque struct {
	Ptr any
	Tag int
}

// Value is the tagged variant every stack slot, constant-pool entry, and
// scope binding holds.
type Value struct {
	Kind Kind
	data any
}

func Null() Value { return Value{Kind: KindNull} }
func Bool(b bool) Value { return Value{Kind: KindBoolean, data: b} }
func Int(i int32) Value { return Value{Kind: KindInteger, data: i} }
func Float(f float32) Value { return Value{Kind: KindFloat, data: f} }
func Opaq(ptr any, tag int) Value { return Value{Kind: KindOpaque, data: Opaque{Ptr: ptr, Tag: tag}} }

// Str builds a String value, failing if the content exceeds MaxStringLength.
func Str(s string) (Value, error) {
	if len(s) > MaxStringLength {
		return Value{}, fmt.Errorf("literal: string of %d bytes exceeds max length %d", len(s), MaxStringLength)
	}
	return Value{Kind: KindString, data: s}, nil
}

// MustStr is Str for callers (image loaders, tests) that already know the
// content fits; it panics otherwise, since that indicates a malformed
// image or a compiler bug rather than recoverable user error.
func MustStr(s string) Value {
	v, err := Str(s)
	if err != nil {
		panic(err)
	}
	return v
}

func Ident(name string) Value {
	return Value{Kind: KindIdentifier, data: Identifier{Name: name, Hash: HashName(name)}}
}

func TypeVal(t Type) Value { return Value{Kind: KindType, data: t} }

func ArrayVal(a *Array) Value { return Value{Kind: KindArray, data: a} }
func DictVal(d *Dict) Value { return Value{Kind: KindDictionary, data: d} }
func FuncVal(f Function) Value { return Value{Kind: KindFunction, data: f} }

// FuncIntermediate and TypeIntermediate are only produced by image.Reader
// while back-patching; exported via constructors so that package stays the
// sole owner of the intermediate kinds' invariants.
func FuncIntermediate(index int) Value {
	return Value{Kind: KindFunctionIntermediate, data: index}
}

func TypeIntermediate(t Type) Value {
	return Value{Kind: KindTypeIntermediate, data: t}
}

func (v Value) IsNull() bool       { return v.Kind == KindNull }
func (v Value) IsBoolean() bool    { return v.Kind == KindBoolean }
func (v Value) IsInteger() bool    { return v.Kind == KindInteger }
func (v Value) IsFloat() bool      { return v.Kind == KindFloat }
func (v Value) IsNumeric() bool    { return v.Kind == KindInteger || v.Kind == KindFloat }
func (v Value) IsString() bool     { return v.Kind == KindString }
func (v Value) IsArray() bool      { return v.Kind == KindArray }
func (v Value) IsDictionary() bool { return v.Kind == KindDictionary }
func (v Value) IsFunction() bool   { return v.Kind == KindFunction }
func (v Value) IsIdentifier() bool { return v.Kind == KindIdentifier }
func (v Value) IsType() bool       { return v.Kind == KindType }
func (v Value) IsOpaque() bool     { return v.Kind == KindOpaque }

func (v Value) AsBoolean() bool { return v.data.(bool) }
func (v Value) AsInteger() int32 { return v.data.(int32) }
func (v Value) AsFloat() float32 { return v.data.(float32) }
func (v Value) AsString() string { return v.data.(string) }
func (v Value) AsIdentifier() Identifier { return v.data.(Identifier) }
func (v Value) AsType() Type { return v.data.(Type) }
func (v Value) AsOpaque() Opaque { return v.data.(Opaque) }
func (v Value) AsFunction() Function { return v.data.(Function) }
func (v Value) AsArray() *Array { return v.data.(*Array) }
func (v Value) AsDict() *Dict { return v.data.(*Dict) }
func (v Value) AsFuncIntermediate() int { return v.data.(int) }

// IsTruthy implements §4.1: Null is false, Boolean is its own value, and
// every other kind is truthy.
func (v Value) IsTruthy() bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBoolean:
		return v.AsBoolean()
	default:
		return true
	}
}

// Equal implements §4.1's equals(a, b): same kind required, except
// Integer/Float which compare numerically after widening Integer to
// Float; String compares by content; Array/Dictionary compare
// structurally; Type compares (Of, Constant, Subtypes) elementwise;
// Function and Opaque compare by identity.
func Equal(a, b Value) bool {
	if a.IsNumeric() && b.IsNumeric() {
		return numericFloat(a) == numericFloat(b)
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBoolean:
		return a.AsBoolean() == b.AsBoolean()
	case KindString:
		return a.AsString() == b.AsString()
	case KindArray:
		return arrayEqual(a.AsArray(), b.AsArray())
	case KindDictionary:
		return dictEqual(a.AsDict(), b.AsDict())
	case KindIdentifier:
		return a.AsIdentifier().Name == b.AsIdentifier().Name
	case KindType:
		return typeEqual(a.AsType(), b.AsType())
	case KindFunction, KindOpaque:
		return sameIdentity(a, b)
	default:
		return false
	}
}

func sameIdentity(a, b Value) bool {
	switch a.Kind {
	case KindFunction:
		af, bf := a.AsFunction(), b.AsFunction()
		if len(af.Bytecode) == 0 || len(bf.Bytecode) == 0 {
			return len(af.Bytecode) == 0 && len(bf.Bytecode) == 0
		}
		return &af.Bytecode[0] == &bf.Bytecode[0]
	case KindOpaque:
		return a.AsOpaque().Ptr == b.AsOpaque().Ptr && a.AsOpaque().Tag == b.AsOpaque().Tag
	default:
		return false
	}
}

func numericFloat(v Value) float64 {
	if v.IsInteger() {
		return float64(v.AsInteger())
	}
	return float64(v.AsFloat())
}

func typeEqual(a, b Type) bool {
	if a.Of != b.Of || a.Constant != b.Constant || len(a.Subtypes) != len(b.Subtypes) {
		return false
	}
	for i := range a.Subtypes {
		if !typeEqual(a.Subtypes[i], b.Subtypes[i]) {
			return false
		}
	}
	return true
}

// HashName hashes a variable name for Identifier caching, using the same
// FNV-1a approach the VM uses to hash String values.
func HashName(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return h.Sum32()
}

// Hash implements §4.1's hash(v): stable per kind, with Identifier
// returning its cached hash and String hashing its content.
func Hash(v Value) uint32 {
	switch v.Kind {
	case KindNull:
		return 0
	case KindBoolean:
		if v.AsBoolean() {
			return 1
		}
		return 0
	case KindInteger:
		return uint32(v.AsInteger())
	case KindFloat:
		h := fnv.New32a()
		_, _ = h.Write([]byte(strconv.FormatFloat(float64(v.AsFloat()), 'g', -1, 32)))
		return h.Sum32()
	case KindString:
		return HashName(v.AsString())
	case KindIdentifier:
		return v.AsIdentifier().Hash
	default:
		return 0
	}
}

// Copy deep-copies containers (Array/Dictionary) and returns scalars
// as-is; Go's garbage collector makes the original C implementation's
// explicit refcount increment on shared strings unnecessary.
func Copy(v Value) Value {
	switch v.Kind {
	case KindArray:
		return ArrayVal(v.AsArray().Clone())
	case KindDictionary:
		return DictVal(v.AsDict().Clone())
	default:
		return v
	}
}
