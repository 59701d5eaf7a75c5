package literal

import (
	"fmt"
	"strconv"
	"strings"
)

// Render produces the text the print sink writes for a Value: the same
// shape interpreter.c's printLiteral/printLiteralCustom produce, used by
// OP_PRINT and by debug tooling.
func Render(v Value) string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBoolean:
		if v.AsBoolean() {
			return "true"
		}
		return "false"
	case KindInteger:
		return strconv.FormatInt(int64(v.AsInteger()), 10)
	case KindFloat:
		return strconv.FormatFloat(float64(v.AsFloat()), 'g', -1, 32)
	case KindString:
		return v.AsString()
	case KindIdentifier:
		return v.AsIdentifier().Name
	case KindArray:
		return renderArray(v.AsArray())
	case KindDictionary:
		return renderDict(v.AsDict())
	case KindFunction:
		return "<function>"
	case KindType:
		return renderType(v.AsType())
	case KindOpaque:
		return "<opaque>"
	default:
		return fmt.Sprintf("<%s>", v.Kind)
	}
}

func renderArray(a *Array) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < a.Len(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Render(a.At(i)))
	}
	sb.WriteByte(']')
	return sb.String()
}

func renderDict(d *Dict) string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for _, bucket := range d.buckets {
		for _, e := range bucket {
			if !first {
				sb.WriteString(", ")
			}
			first = false
			sb.WriteString(Render(e.key))
			sb.WriteString(": ")
			sb.WriteString(Render(e.value))
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

func renderType(t Type) string {
	name := t.Of.String()
	if t.Constant {
		name = "const " + name
	}
	if len(t.Subtypes) == 0 {
		return name
	}
	parts := make([]string, len(t.Subtypes))
	for i, s := range t.Subtypes {
		parts[i] = renderType(s)
	}
	return fmt.Sprintf("%s<%s>", name, strings.Join(parts, ", "))
}
