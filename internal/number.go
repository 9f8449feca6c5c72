package internal

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"
)

// StringToNumber converts a string to a number. Surrounding whitespace is
// ignored, the empty string is 0, and 0x, 0o, and 0b prefixes select a radix.
// Anything that is not a complete numeric literal is NaN.
func StringToNumber(s string) float64 {
	str := strings.TrimSpace(strings.Trim(s, "\ufeff"))
	if str == "" {
		return 0
	}
	if len(str) > 2 && str[0] == '0' {
		switch str[1] {
		case 'x', 'X':
			return parseRadix(str[2:], 16)
		case 'o', 'O':
			return parseRadix(str[2:], 8)
		case 'b', 'B':
			return parseRadix(str[2:], 2)
		}
	}
	switch str {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	// ParseFloat accepts spellings that are not numeric literals here, like
	// "inf", "nan", underscores, and hex mantissas.
	for i := 0; i < len(str); i++ {
		switch c := str[i]; {
		case '0' <= c && c <= '9', c == '.', c == 'e', c == 'E', c == '+', c == '-':
		default:
			return math.NaN()
		}
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			// f is ±Inf or ±0 as appropriate.
			return f
		}
		return math.NaN()
	}
	return f
}

// parseRadix parses unsigned digits of arbitrary length in the given radix.
func parseRadix(digits string, radix int) float64 {
	if digits == "" {
		return math.NaN()
	}
	if n, err := strconv.ParseUint(digits, radix, 64); err == nil {
		return float64(n)
	}
	var f float64
	for _, c := range digits {
		d := digitVal(c)
		if d < 0 || d >= radix {
			return math.NaN()
		}
		f = f*float64(radix) + float64(d)
	}
	return f
}

func digitVal(c rune) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'z':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}

// PrimitiveToNumber converts a primitive value to a number. Objects, which
// need VM.ToPrimitive first, convert to NaN.
func PrimitiveToNumber(v Value) float64 {
	switch v.Kind() {
	case Null:
		return 0
	case Boolean, Number:
		return v.num
	case String:
		return StringToNumber(v.str)
	}
	return math.NaN()
}

// twoTo32 is 2**32.
const twoTo32 = 4294967296

// ToUint32 reduces a number modulo 2**32. NaN and both infinities are 0.
func ToUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(f), twoTo32)
	if m < 0 {
		m += twoTo32
	}
	return uint32(m)
}

// ToInt32 reduces a number modulo 2**32 and reinterprets the result as a
// two's complement signed integer. NaN and both infinities are 0.
func ToInt32(f float64) int32 {
	return int32(ToUint32(f))
}

// ToBoolean converts a value to a boolean. undefined, null, false, ±0, NaN,
// and the empty string are false; everything else, including every object,
// is true.
func ToBoolean(v Value) bool {
	switch v.Kind() {
	case Undefined, Null:
		return false
	case Boolean:
		return v.Bool()
	case Number:
		return v.num != 0 && !math.IsNaN(v.num)
	case String:
		return v.str != ""
	}
	return true
}

// FormatNumber returns the shortest decimal string that reads back as f,
// switching to exponent notation for very large and very small magnitudes.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	// Shortest round-trip digits in the form d.ddde±x.
	e := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(e, "e")
	digits := strings.Replace(mant, ".", "", 1)
	x, _ := strconv.Atoi(exp)
	k, n := len(digits), x+1
	var b strings.Builder
	b.WriteString(sign)
	switch {
	case k <= n && n <= 21:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", n-k))
	case 0 < n && n <= 21:
		b.WriteString(digits[:n])
		b.WriteByte('.')
		b.WriteString(digits[n:])
	case -6 < n && n <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -n))
		b.WriteString(digits)
	default:
		b.WriteString(digits[:1])
		if k > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteByte('e')
		if n-1 >= 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(n - 1))
	}
	return b.String()
}

// PrimitiveToString converts a primitive value to a string. Objects, which
// need VM.ToPrimitive first, produce a generic description.
func PrimitiveToString(v Value) string {
	if v.Kind() == String {
		return v.str
	}
	return v.String()
}

// StringLength returns the length of s in UTF-16 code units.
func StringLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// CompareStrings orders a and b by their UTF-16 code units, returning -1, 0,
// or 1.
func CompareStrings(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// SameValue reports whether two values are indistinguishable: NaN is the same
// as NaN, but 0 and -0 differ.
func SameValue(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Kind() == Number {
		if math.IsNaN(a.num) && math.IsNaN(b.num) {
			return true
		}
		return a.num == b.num && math.Signbit(a.num) == math.Signbit(b.num)
	}
	return StrictEquals(a, b)
}

// StrictEquals compares values without coercion. Values of different kinds
// are never equal, NaN equals nothing, and objects are equal only to
// themselves.
func StrictEquals(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case Undefined, Null:
		return true
	case Boolean, Number:
		return a.num == b.num
	case String:
		return a.str == b.str
	}
	return a.obj == b.obj
}

// TypeOf classifies a value as "undefined", "object", "boolean", "number",
// "string", or "function". null is an object.
func TypeOf(v Value) string {
	switch v.Kind() {
	case Undefined:
		return "undefined"
	case Null:
		return "object"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	}
	if v.obj.IsFunction() {
		return "function"
	}
	return "object"
}

// ToPrimitive converts an object to a primitive by calling its valueOf and
// toString methods, in that order unless hint is "string". Primitives are
// returned unchanged. If neither method produces a primitive, the result is a
// TypeError.
func (vm *VM) ToPrimitive(v Value, hint string) (Value, Stop) {
	if !v.IsObject() {
		return v, NoStop
	}
	order := [2]string{"valueOf", "toString"}
	if hint == "string" {
		order = [2]string{"toString", "valueOf"}
	}
	for _, name := range order {
		m := v.obj.Get(name)
		if !m.IsFunction() {
			continue
		}
		r, stop := vm.Call(m, v, nil)
		if stop != NoStop {
			return r, stop
		}
		if !r.IsObject() {
			return r, NoStop
		}
	}
	return vm.ThrowError(&TypeError{Msg: "cannot convert object to primitive value"})
}

// ToNumber converts any value to a number. If conversion of an object throws,
// the exception is returned as exc with ExceptionStop.
func (vm *VM) ToNumber(v Value) (f float64, exc Value, stop Stop) {
	p, stop := vm.ToPrimitive(v, "number")
	if stop != NoStop {
		return 0, p, stop
	}
	return PrimitiveToNumber(p), UndefinedValue, NoStop
}

// ToString converts any value to a string. If conversion of an object throws,
// the exception is returned as exc with ExceptionStop.
func (vm *VM) ToString(v Value) (s string, exc Value, stop Stop) {
	p, stop := vm.ToPrimitive(v, "string")
	if stop != NoStop {
		return "", p, stop
	}
	return PrimitiveToString(p), UndefinedValue, NoStop
}

// LooseEquals compares values with coercion. null and undefined equal each
// other and nothing else; a string compared with a number is converted to a
// number; booleans are converted to numbers; an object compared with a
// primitive is converted with ToPrimitive first.
func (vm *VM) LooseEquals(a, b Value) (bool, Value, Stop) {
	for {
		ak, bk := a.Kind(), b.Kind()
		switch {
		case ak == bk:
			return StrictEquals(a, b), UndefinedValue, NoStop
		case a.IsNullish() && b.IsNullish():
			return true, UndefinedValue, NoStop
		case a.IsNullish() || b.IsNullish():
			return false, UndefinedValue, NoStop
		case ak == Number && bk == String:
			return a.num == StringToNumber(b.str), UndefinedValue, NoStop
		case ak == String && bk == Number:
			return StringToNumber(a.str) == b.num, UndefinedValue, NoStop
		case ak == Boolean:
			a = NumberValue(a.num)
		case bk == Boolean:
			b = NumberValue(b.num)
		case ak == ObjectKind:
			p, stop := vm.ToPrimitive(a, "default")
			if stop != NoStop {
				return false, p, stop
			}
			a = p
		case bk == ObjectKind:
			p, stop := vm.ToPrimitive(b, "default")
			if stop != NoStop {
				return false, p, stop
			}
			b = p
		default:
			return false, UndefinedValue, NoStop
		}
	}
}
