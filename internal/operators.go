package internal

import (
	"fmt"
	"math"
)

// BinaryOp applies a binary operator to already evaluated operands.
// Arithmetic operators convert with ToNumber; bitwise operators and shifts
// reduce their operands to 32 bits and promote the result back to a number.
func (vm *VM) BinaryOp(op string, a, b Value) (Value, Stop) {
	switch op {
	case "+":
		return vm.add(a, b)
	case "-", "*", "/", "%", "**":
		x, y, exc, stop := vm.numbers(a, b)
		if stop != NoStop {
			return exc, stop
		}
		return NumberValue(arith(op, x, y)), NoStop
	case "&", "|", "^", "<<", ">>", ">>>":
		x, y, exc, stop := vm.numbers(a, b)
		if stop != NoStop {
			return exc, stop
		}
		return NumberValue(bitwise(op, x, y)), NoStop
	case "==", "!=":
		eq, exc, stop := vm.LooseEquals(a, b)
		if stop != NoStop {
			return exc, stop
		}
		return BoolValue(eq == (op == "==")), NoStop
	case "===":
		return BoolValue(StrictEquals(a, b)), NoStop
	case "!==":
		return BoolValue(!StrictEquals(a, b)), NoStop
	case "<", ">", "<=", ">=":
		return vm.relational(op, a, b)
	case "instanceof":
		ok, err := vm.InstanceOf(a, b)
		if err != nil {
			return vm.ThrowError(err)
		}
		return BoolValue(ok), NoStop
	case "in":
		if !b.IsObject() {
			return vm.ThrowError(&TypeError{Msg: "right-hand side of 'in' is not an object", Err: ErrNotObject})
		}
		k, exc, stop := vm.ToPropertyKey(a)
		if stop != NoStop {
			return exc, stop
		}
		return BoolValue(b.obj.Has(k)), NoStop
	}
	panic(fmt.Sprintf("protocore: invalid binary operator %q", op))
}

func (vm *VM) numbers(a, b Value) (x, y float64, exc Value, stop Stop) {
	if x, exc, stop = vm.ToNumber(a); stop != NoStop {
		return
	}
	y, exc, stop = vm.ToNumber(b)
	return
}

func (vm *VM) add(a, b Value) (Value, Stop) {
	pa, stop := vm.ToPrimitive(a, "default")
	if stop != NoStop {
		return pa, stop
	}
	pb, stop := vm.ToPrimitive(b, "default")
	if stop != NoStop {
		return pb, stop
	}
	if pa.Kind() == String || pb.Kind() == String {
		return StringValue(PrimitiveToString(pa) + PrimitiveToString(pb)), NoStop
	}
	return NumberValue(PrimitiveToNumber(pa) + PrimitiveToNumber(pb)), NoStop
}

func arith(op string, x, y float64) float64 {
	switch op {
	case "-":
		return x - y
	case "*":
		return x * y
	case "/":
		return x / y
	case "%":
		return math.Mod(x, y)
	case "**":
		if math.IsNaN(y) || (math.Abs(x) == 1 && math.IsInf(y, 0)) {
			return math.NaN()
		}
		return math.Pow(x, y)
	}
	panic("unreachable")
}

func bitwise(op string, x, y float64) float64 {
	n := ToUint32(y) & 31
	switch op {
	case "&":
		return float64(ToInt32(x) & ToInt32(y))
	case "|":
		return float64(ToInt32(x) | ToInt32(y))
	case "^":
		return float64(ToInt32(x) ^ ToInt32(y))
	case "<<":
		// The shifted bit pattern is read back unsigned, so 1<<31 is
		// positive.
		return float64(ToUint32(x) << n)
	case ">>":
		return float64(ToInt32(x) >> n)
	case ">>>":
		return float64(ToUint32(x) >> n)
	}
	panic("unreachable")
}

func (vm *VM) relational(op string, a, b Value) (Value, Stop) {
	pa, stop := vm.ToPrimitive(a, "number")
	if stop != NoStop {
		return pa, stop
	}
	pb, stop := vm.ToPrimitive(b, "number")
	if stop != NoStop {
		return pb, stop
	}
	if pa.Kind() == String && pb.Kind() == String {
		c := CompareStrings(pa.str, pb.str)
		switch op {
		case "<":
			return BoolValue(c < 0), NoStop
		case ">":
			return BoolValue(c > 0), NoStop
		case "<=":
			return BoolValue(c <= 0), NoStop
		default:
			return BoolValue(c >= 0), NoStop
		}
	}
	// Comparisons involving NaN are false.
	x, y := PrimitiveToNumber(pa), PrimitiveToNumber(pb)
	switch op {
	case "<":
		return BoolValue(x < y), NoStop
	case ">":
		return BoolValue(x > y), NoStop
	case "<=":
		return BoolValue(x <= y), NoStop
	default:
		return BoolValue(x >= y), NoStop
	}
}

// UnaryOp applies a unary operator other than delete and typeof, which need
// the unevaluated operand.
func (vm *VM) UnaryOp(op string, v Value) (Value, Stop) {
	switch op {
	case "!":
		return BoolValue(!ToBoolean(v)), NoStop
	case "void":
		return UndefinedValue, NoStop
	case "-", "+", "~":
		x, exc, stop := vm.ToNumber(v)
		if stop != NoStop {
			return exc, stop
		}
		switch op {
		case "-":
			return NumberValue(-x), NoStop
		case "+":
			return NumberValue(x), NoStop
		default:
			return NumberValue(float64(^ToInt32(x))), NoStop
		}
	case "typeof":
		return StringValue(TypeOf(v)), NoStop
	}
	panic(fmt.Sprintf("protocore: invalid unary operator %q", op))
}

// ToPropertyKey converts a value to a property key.
func (vm *VM) ToPropertyKey(v Value) (string, Value, Stop) {
	return vm.ToString(v)
}
