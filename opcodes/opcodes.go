// Package opcodes defines the Toy bytecode instruction set: one byte-sized
// Opcode per spec.md §6, grouped by concern the way
// wudi-hey/opcodes/opcodes.go groups PHP's opcodes.
package opcodes

// Opcode is a single bytecode instruction tag.
type Opcode byte

const (
	// Statements
	OP_ASSERT Opcode = iota
	OP_PRINT

	// Literal push
	OP_LITERAL
	OP_LITERAL_LONG
	OP_LITERAL_RAW

	// Unary
	OP_NEGATE
	OP_INVERT

	// Binary arithmetic
	OP_ADDITION
	OP_SUBTRACTION
	OP_MULTIPLICATION
	OP_DIVISION
	OP_MODULO

	// Compound-assignment arithmetic
	OP_VAR_ADDITION_ASSIGN
	OP_VAR_SUBTRACTION_ASSIGN
	OP_VAR_MULTIPLICATION_ASSIGN
	OP_VAR_DIVISION_ASSIGN
	OP_VAR_MODULO_ASSIGN

	// Grouping (recursive sub-block execution)
	OP_GROUPING_BEGIN
	OP_GROUPING_END

	// Scope
	OP_SCOPE_BEGIN
	OP_SCOPE_END

	// Declarations
	OP_VAR_DECL
	OP_VAR_DECL_LONG
	OP_FN_DECL
	OP_FN_DECL_LONG

	// Assignment
	OP_VAR_ASSIGN

	// Casting
	OP_TYPE_CAST

	// Comparisons
	OP_COMPARE_EQUAL
	OP_COMPARE_NOT_EQUAL
	OP_COMPARE_LESS
	OP_COMPARE_LESS_EQUAL
	OP_COMPARE_GREATER
	OP_COMPARE_GREATER_EQUAL

	// Logical
	OP_AND
	OP_OR

	// Control flow
	OP_JUMP
	OP_IF_FALSE_JUMP

	// Functions
	OP_FN_CALL
	OP_FN_RETURN
	OP_FN_END

	// Section/stream terminators
	OP_SECTION_END
	OP_EOF
)

var opcodeNames = map[Opcode]string{
	OP_ASSERT:                    "ASSERT",
	OP_PRINT:                     "PRINT",
	OP_LITERAL:                   "LITERAL",
	OP_LITERAL_LONG:              "LITERAL_LONG",
	OP_LITERAL_RAW:               "LITERAL_RAW",
	OP_NEGATE:                    "NEGATE",
	OP_INVERT:                    "INVERT",
	OP_ADDITION:                  "ADDITION",
	OP_SUBTRACTION:               "SUBTRACTION",
	OP_MULTIPLICATION:            "MULTIPLICATION",
	OP_DIVISION:                  "DIVISION",
	OP_MODULO:                    "MODULO",
	OP_VAR_ADDITION_ASSIGN:       "VAR_ADDITION_ASSIGN",
	OP_VAR_SUBTRACTION_ASSIGN:    "VAR_SUBTRACTION_ASSIGN",
	OP_VAR_MULTIPLICATION_ASSIGN: "VAR_MULTIPLICATION_ASSIGN",
	OP_VAR_DIVISION_ASSIGN:       "VAR_DIVISION_ASSIGN",
	OP_VAR_MODULO_ASSIGN:         "VAR_MODULO_ASSIGN",
	OP_GROUPING_BEGIN:            "GROUPING_BEGIN",
	OP_GROUPING_END:              "GROUPING_END",
	OP_SCOPE_BEGIN:               "SCOPE_BEGIN",
	OP_SCOPE_END:                 "SCOPE_END",
	OP_VAR_DECL:                  "VAR_DECL",
	OP_VAR_DECL_LONG:             "VAR_DECL_LONG",
	OP_FN_DECL:                   "FN_DECL",
	OP_FN_DECL_LONG:              "FN_DECL_LONG",
	OP_VAR_ASSIGN:                "VAR_ASSIGN",
	OP_TYPE_CAST:                 "TYPE_CAST",
	OP_COMPARE_EQUAL:             "COMPARE_EQUAL",
	OP_COMPARE_NOT_EQUAL:         "COMPARE_NOT_EQUAL",
	OP_COMPARE_LESS:              "COMPARE_LESS",
	OP_COMPARE_LESS_EQUAL:        "COMPARE_LESS_EQUAL",
	OP_COMPARE_GREATER:           "COMPARE_GREATER",
	OP_COMPARE_GREATER_EQUAL:     "COMPARE_GREATER_EQUAL",
	OP_AND:                       "AND",
	OP_OR:                        "OR",
	OP_JUMP:                      "JUMP",
	OP_IF_FALSE_JUMP:             "IF_FALSE_JUMP",
	OP_FN_CALL:                   "FN_CALL",
	OP_FN_RETURN:                 "FN_RETURN",
	OP_FN_END:                    "FN_END",
	OP_SECTION_END:               "SECTION_END",
	OP_EOF:                       "EOF",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsCompoundAssign reports whether op is one of the five `_ASSIGN`
// compound-arithmetic opcodes, and if so returns the plain arithmetic
// opcode it corresponds to.
func IsCompoundAssign(op Opcode) (Opcode, bool) {
	switch op {
	case OP_VAR_ADDITION_ASSIGN:
		return OP_ADDITION, true
	case OP_VAR_SUBTRACTION_ASSIGN:
		return OP_SUBTRACTION, true
	case OP_VAR_MULTIPLICATION_ASSIGN:
		return OP_MULTIPLICATION, true
	case OP_VAR_DIVISION_ASSIGN:
		return OP_DIVISION, true
	case OP_VAR_MODULO_ASSIGN:
		return OP_MODULO, true
	default:
		return 0, false
	}
}
