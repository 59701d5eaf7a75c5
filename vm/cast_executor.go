package vm

import (
	"strconv"

	"github.com/GruelingPine185/Toy/literal"
)

// execTypeCast implements OP_TYPE_CAST (spec.md §4.5): pops the value then
// the target type, rejects casting Null, and otherwise converts between
// Boolean/Integer/Float/String per the table, yielding Null for any
// combination not listed there.
func (in *Interpreter) execTypeCast() error {
	value := in.pop()
	typeVal := in.pop()

	resolved, err := in.resolve(value)
	if err != nil {
		return err
	}

	if !typeVal.IsType() {
		return in.newError(ErrBadType, "cast target is a %s, not a type", typeVal.Kind)
	}
	if resolved.IsNull() {
		return in.newError(ErrBadCast, "cannot cast a null value")
	}

	result, err := castTo(typeVal.AsType().Of, resolved)
	if err != nil {
		return in.newError(err, "")
	}
	in.push(result)
	return nil
}

func castTo(target literal.Kind, v literal.Value) (literal.Value, error) {
	switch target {
	case literal.KindBoolean:
		return literal.Bool(v.IsTruthy()), nil

	case literal.KindInteger:
		switch {
		case v.IsBoolean():
			return literal.Int(boolToInt(v.AsBoolean())), nil
		case v.IsFloat():
			return literal.Int(int32(v.AsFloat())), nil
		case v.IsString():
			n, _ := strconv.ParseInt(intToken(v.AsString()), 10, 32)
			return literal.Int(int32(n)), nil
		default:
			return literal.Null(), nil
		}

	case literal.KindFloat:
		switch {
		case v.IsBoolean():
			return literal.Float(float32(boolToInt(v.AsBoolean()))), nil
		case v.IsInteger():
			return literal.Float(float32(v.AsInteger())), nil
		case v.IsString():
			f, _ := strconv.ParseFloat(floatToken(v.AsString()), 32)
			return literal.Float(float32(f)), nil
		default:
			return literal.Null(), nil
		}

	case literal.KindString:
		switch {
		case v.IsBoolean():
			if v.AsBoolean() {
				return literal.MustStr("true"), nil
			}
			return literal.MustStr("false"), nil
		case v.IsInteger():
			return literal.MustStr(strconv.FormatInt(int64(v.AsInteger()), 10)), nil
		case v.IsFloat():
			return literal.MustStr(strconv.FormatFloat(float64(v.AsFloat()), 'g', -1, 32)), nil
		default:
			return literal.Null(), nil
		}

	default:
		return literal.Null(), nil
	}
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// intToken mimics scanf("%d", ...)'s behavior of parsing the leading
// optionally-signed digit run of a string and ignoring the remainder —
// including a trailing fractional part, so "12.5" casts to the Integer 12,
// not 0 (interpreter.c:513).
func intToken(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	sawDigit := false
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		sawDigit = true
	}
	if !sawDigit {
		return "0"
	}
	return s[:i]
}

// floatToken mimics scanf("%f", ...)'s behavior of parsing the leading
// numeric run of a string, including one decimal point, and ignoring the
// remainder.
func floatToken(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	sawDigit := false
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		sawDigit = true
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			sawDigit = true
		}
	}
	if !sawDigit {
		return "0"
	}
	return s[:i]
}
