// Package image parses a Toy bytecode image (spec.md §6): the versioned
// header, the constant-pool literal section (with array/dictionary/type
// literals resolved inline and function literals left as intermediates),
// and the function-bodies section that back-patches those intermediates
// into owned Function values. It is grounded on
// wudi-hey/vm/instruction_factory.go and operand_helper.go's pattern of
// small typed byte-cursor readers over a []byte instruction stream,
// adapted from PHP's already-decoded Instruction array to Toy's raw wire
// format that this package itself must decode.
package image

import (
	"fmt"

	"github.com/GruelingPine185/Toy/literal"
	"github.com/GruelingPine185/Toy/opcodes"
)

// SectionEnd is the sentinel byte terminating the header, the literal
// section, and the function section. It is distinct from the opcode
// stream's own OP_SECTION_END/OP_EOF, which terminate nested blocks and
// the code section respectively.
const SectionEnd byte = 0xFF

// Wire tags for each literal payload kind (spec.md §6).
const (
	tagNull byte = iota
	tagBoolean
	tagInteger
	tagFloat
	tagString
	tagArray
	tagDictionary
	tagFunction
	tagIdentifier
	tagType
	tagTypeIntermediate
)

// Version identifies the bytecode image format this build of the VM
// understands. A loaded image whose header version differs is rejected
// with an *Error whose reason reports the version mismatch.
type Version struct {
	Major, Minor, Patch byte
}

// Error reports a malformed image: header/version mismatch, a truncated or
// unterminated section, an unknown literal tag, or a function body not
// ending in OP_FN_END.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return "image: " + e.Reason }

func errf(format string, args ...any) *Error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// Result is what a successful Load produces: the fully back-patched
// constant pool and the byte offset in the image at which the code
// section begins.
type Result struct {
	Pool      *literal.Array
	Build     string
	CodeStart int
}

// Reader loads one image at a time. OnLiteralLoaded, if set, is called
// once per constant-pool entry as it is appended — a debug hook standing
// in for interpreter.c's `command.verbose` literal-section tracing,
// without reintroducing a global verbose flag (see SPEC_FULL.md).
type Reader struct {
	Version          Version
	OnLiteralLoaded  func(index int, v literal.Value)
}

// NewReader constructs a Reader that accepts only images stamped with the
// given version.
func NewReader(version Version) *Reader {
	return &Reader{Version: version}
}

// Load parses bytecode fully: header, literal section, function section.
// The returned Result.CodeStart is where the vm package should begin
// opcode dispatch.
func (r *Reader) Load(bytecode []byte) (*Result, error) {
	c := &cursor{buf: bytecode}

	if err := r.readHeader(c); err != nil {
		return nil, err
	}

	build := c.lastBuild

	pool, err := r.readLiteralSection(c)
	if err != nil {
		return nil, err
	}

	if err := r.readFunctionSection(c, pool); err != nil {
		return nil, err
	}

	return &Result{Pool: pool, Build: build, CodeStart: c.pos}, nil
}

func (r *Reader) readHeader(c *cursor) error {
	major, err := c.u8()
	if err != nil {
		return errf("truncated header: %v", err)
	}
	minor, err := c.u8()
	if err != nil {
		return errf("truncated header: %v", err)
	}
	patch, err := c.u8()
	if err != nil {
		return errf("truncated header: %v", err)
	}

	if major != r.Version.Major || minor != r.Version.Minor || patch != r.Version.Patch {
		return errf("version mismatch: image is %d.%d.%d, interpreter is %d.%d.%d",
			major, minor, patch, r.Version.Major, r.Version.Minor, r.Version.Patch)
	}

	build, err := c.cstring()
	if err != nil {
		return errf("truncated header build string: %v", err)
	}
	c.lastBuild = build

	end, err := c.u8()
	if err != nil || end != SectionEnd {
		return errf("missing header section terminator")
	}
	return nil
}

func (r *Reader) readLiteralSection(c *cursor) (*literal.Array, error) {
	count, err := c.u16()
	if err != nil {
		return nil, errf("truncated literal section count: %v", err)
	}

	pool := literal.NewArray(int(count))

	for i := 0; i < int(count); i++ {
		v, err := r.readOneLiteral(c, pool)
		if err != nil {
			return nil, err
		}
		pool.Push(v)
		if r.OnLiteralLoaded != nil {
			r.OnLiteralLoaded(i, v)
		}
	}

	end, err := c.u8()
	if err != nil || end != SectionEnd {
		return nil, errf("missing literal section terminator")
	}
	return pool, nil
}

func (r *Reader) readOneLiteral(c *cursor, pool *literal.Array) (literal.Value, error) {
	tag, err := c.u8()
	if err != nil {
		return literal.Value{}, errf("truncated literal tag: %v", err)
	}

	switch tag {
	case tagNull:
		return literal.Null(), nil

	case tagBoolean:
		b, err := c.u8()
		if err != nil {
			return literal.Value{}, errf("truncated boolean literal: %v", err)
		}
		return literal.Bool(b != 0), nil

	case tagInteger:
		n, err := c.i32()
		if err != nil {
			return literal.Value{}, errf("truncated integer literal: %v", err)
		}
		return literal.Int(n), nil

	case tagFloat:
		f, err := c.f32()
		if err != nil {
			return literal.Value{}, errf("truncated float literal: %v", err)
		}
		return literal.Float(f), nil

	case tagString:
		s, err := c.cstring()
		if err != nil {
			return literal.Value{}, errf("truncated string literal: %v", err)
		}
		v, err := literal.Str(s)
		if err != nil {
			return literal.Value{}, errf("string literal: %v", err)
		}
		return v, nil

	case tagArray:
		length, err := c.u16()
		if err != nil {
			return literal.Value{}, errf("truncated array literal length: %v", err)
		}
		arr := literal.NewArray(int(length))
		for i := 0; i < int(length); i++ {
			idx, err := c.u16()
			if err != nil {
				return literal.Value{}, errf("truncated array literal element: %v", err)
			}
			elem, err := poolAt(pool, int(idx))
			if err != nil {
				return literal.Value{}, err
			}
			arr.Push(elem)
		}
		return literal.ArrayVal(arr), nil

	case tagDictionary:
		length, err := c.u16()
		if err != nil {
			return literal.Value{}, errf("truncated dictionary literal length: %v", err)
		}
		dict := literal.NewDict()
		for i := 0; i < int(length)/2; i++ {
			keyIdx, err := c.u16()
			if err != nil {
				return literal.Value{}, errf("truncated dictionary key index: %v", err)
			}
			valIdx, err := c.u16()
			if err != nil {
				return literal.Value{}, errf("truncated dictionary value index: %v", err)
			}
			key, err := poolAt(pool, int(keyIdx))
			if err != nil {
				return literal.Value{}, err
			}
			val, err := poolAt(pool, int(valIdx))
			if err != nil {
				return literal.Value{}, err
			}
			dict.Set(key, val)
		}
		return literal.DictVal(dict), nil

	case tagFunction:
		idx, err := c.u16()
		if err != nil {
			return literal.Value{}, errf("truncated function literal index: %v", err)
		}
		return literal.FuncIntermediate(int(idx)), nil

	case tagIdentifier:
		name, err := c.cstring()
		if err != nil {
			return literal.Value{}, errf("truncated identifier literal: %v", err)
		}
		return literal.Ident(name), nil

	case tagType:
		kind, err := c.u8()
		if err != nil {
			return literal.Value{}, errf("truncated type literal kind: %v", err)
		}
		constant, err := c.u8()
		if err != nil {
			return literal.Value{}, errf("truncated type literal constant flag: %v", err)
		}
		return literal.TypeVal(literal.Type{Of: literal.Kind(kind), Constant: constant != 0}), nil

	case tagTypeIntermediate:
		return r.readTypeIntermediate(c, pool)

	default:
		return literal.Value{}, errf("unknown literal tag %d", tag)
	}
}

func (r *Reader) readTypeIntermediate(c *cursor, pool *literal.Array) (literal.Value, error) {
	kind, err := c.u8()
	if err != nil {
		return literal.Value{}, errf("truncated type-intermediate kind: %v", err)
	}
	constant, err := c.u8()
	if err != nil {
		return literal.Value{}, errf("truncated type-intermediate constant flag: %v", err)
	}

	t := literal.TypeIntermediate(literal.Type{Of: literal.Kind(kind), Constant: constant != 0}).AsType()

	switch t.Of {
	case literal.KindArray:
		elemIdx, err := c.u16()
		if err != nil {
			return literal.Value{}, errf("truncated array type element index: %v", err)
		}
		elem, err := poolAt(pool, int(elemIdx))
		if err != nil || !elem.IsType() {
			return literal.Value{}, errf("array type element index %d is not a type", elemIdx)
		}
		t.Subtypes = append(t.Subtypes, elem.AsType())

	case literal.KindDictionary:
		keyIdx, err := c.u16()
		if err != nil {
			return literal.Value{}, errf("truncated dictionary type key index: %v", err)
		}
		valIdx, err := c.u16()
		if err != nil {
			return literal.Value{}, errf("truncated dictionary type value index: %v", err)
		}
		keyT, err := poolAt(pool, int(keyIdx))
		if err != nil || !keyT.IsType() {
			return literal.Value{}, errf("dictionary type key index %d is not a type", keyIdx)
		}
		valT, err := poolAt(pool, int(valIdx))
		if err != nil || !valT.IsType() {
			return literal.Value{}, errf("dictionary type value index %d is not a type", valIdx)
		}
		t.Subtypes = append(t.Subtypes, keyT.AsType(), valT.AsType())
	}

	return literal.TypeVal(t), nil
}

func (r *Reader) readFunctionSection(c *cursor, pool *literal.Array) error {
	if _, err := c.u16(); err != nil { // functionCount, informational
		return errf("truncated function section count: %v", err)
	}
	if _, err := c.u16(); err != nil { // functionSize, informational
		return errf("truncated function section size: %v", err)
	}

	for i := 0; i < pool.Len(); i++ {
		if pool.At(i).Kind != literal.KindFunctionIntermediate {
			continue
		}

		size, err := c.u16()
		if err != nil {
			return errf("truncated function body size: %v", err)
		}

		body, err := c.bytes(int(size))
		if err != nil {
			return errf("truncated function body: %v", err)
		}

		if len(body) == 0 || opcodes.Opcode(body[len(body)-1]) != opcodes.OP_FN_END {
			return errf("function body %d does not end with OP_FN_END", i)
		}

		owned := make([]byte, len(body))
		copy(owned, body)

		pool.Set(i, literal.FuncVal(literal.Function{Bytecode: owned}))
	}

	end, err := c.u8()
	if err != nil || end != SectionEnd {
		return errf("missing function section terminator")
	}
	return nil
}

func poolAt(pool *literal.Array, index int) (literal.Value, error) {
	if index < 0 || index >= pool.Len() {
		return literal.Value{}, errf("pool index %d out of range (size %d)", index, pool.Len())
	}
	return pool.At(index), nil
}
