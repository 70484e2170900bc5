package datum

import "strconv"

// ToNumber coerces a Datum to a numeric Integer/Float for arithmetic,
// the way Lingo's opcode arithmetic silently coerces numeric strings
// (spec scenario S2: add2("40") -> Integer(42)). Returns ok=false for
// values with no sensible numeric reading (Void, non-numeric strings,
// lists, etc.) so the caller can raise an OpFault.
func ToNumber(v Value) (Value, bool) {
	switch t := v.(type) {
	case Integer, Float:
		return t, true
	case String:
		if i, err := strconv.ParseInt(t.Val, 10, 32); err == nil {
			return Integer{Val: int32(i)}, true
		}
		if f, err := strconv.ParseFloat(t.Val, 64); err == nil {
			return Float{Val: f}, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// AsFloat64 returns the numeric value as a float64 regardless of whether
// it is stored as Integer or Float.
func AsFloat64(v Value) (float64, bool) {
	switch t := v.(type) {
	case Integer:
		return float64(t.Val), true
	case Float:
		return t.Val, true
	default:
		return 0, false
	}
}

// BothFloat reports whether either operand is a Float, in which case
// arithmetic between them promotes to Float per Lingo numeric tower rules.
func BothFloat(a, b Value) bool {
	_, af := a.(Float)
	_, bf := b.(Float)
	return af || bf
}
