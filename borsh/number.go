package borsh

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Number is either an exact integer of any magnitude or a float64.
type Number struct {
	i *big.Int // non-nil for exact integers
	f float64
}

// IntNumber returns an exact integer number. A nil argument is zero.
func IntNumber(i *big.Int) Number {
	if i == nil {
		i = new(big.Int)
	}
	return Number{i: new(big.Int).Set(i)}
}

// FloatNumber returns a floating-point number.
func FloatNumber(f float64) Number {
	return Number{f: f}
}

// ParseNumber parses a JSON number literal. Literals without fraction or
// exponent are kept as exact integers.
func ParseNumber(s string) (Number, error) {
	if s == "" {
		return Number{}, fmt.Errorf("borsh: empty number")
	}
	if !strings.ContainsAny(s, ".eE") {
		i, ok := new(big.Int).SetString(s, 10)
		if ok {
			return Number{i: i}, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}, fmt.Errorf("borsh: invalid number %q: %w", s, err)
	}
	return Number{f: f}, nil
}

// IsInt reports whether the number is an exact integer.
func (n Number) IsInt() bool {
	return n.i != nil
}

// BigInt returns the exact integer, or nil for floats.
func (n Number) BigInt() *big.Int {
	if n.i == nil {
		return nil
	}
	return new(big.Int).Set(n.i)
}

// Float64 returns the value as a float64, rounding exact integers.
func (n Number) Float64() float64 {
	if n.i != nil {
		f, _ := new(big.Float).SetInt(n.i).Float64()
		return f
	}
	return n.f
}

// Integral reports whether the value has no fractional part.
func (n Number) Integral() bool {
	if n.i != nil {
		return true
	}
	return !math.IsInf(n.f, 0) && !math.IsNaN(n.f) && n.f == math.Trunc(n.f)
}

// Equal compares two numbers by mathematical value.
func (n Number) Equal(o Number) bool {
	switch {
	case n.i != nil && o.i != nil:
		return n.i.Cmp(o.i) == 0
	case n.i == nil && o.i == nil:
		return n.f == o.f || (math.IsNaN(n.f) && math.IsNaN(o.f))
	case n.i != nil:
		return intEqualsFloat(n.i, o.f)
	default:
		return intEqualsFloat(o.i, n.f)
	}
}

func intEqualsFloat(i *big.Int, f float64) bool {
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return false
	}
	fi, _ := big.NewFloat(f).Int(nil)
	return fi.Cmp(i) == 0
}

// String returns the shortest decimal form.
func (n Number) String() string {
	if n.i != nil {
		return n.i.String()
	}
	return formatFloat(n.f)
}

func formatFloat(f float64) string {
	if f == 0 {
		return "0"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	return strings.ReplaceAll(s, "E", "e")
}

// ============================================================
// Fixed-width conversion
// ============================================================

// integer converts the number to an exact integer, failing when a float
// carries a fractional part or is not finite.
func (n Number) integer() (*big.Int, ErrorKind, string) {
	if n.i != nil {
		return n.i, 0, ""
	}
	switch {
	case math.IsNaN(n.f):
		return nil, NumericPrecisionLoss, "NaN has no integer value"
	case math.IsInf(n.f, 0):
		return nil, NumericOverflow, fmt.Sprintf("%v has no integer value", n.f)
	case n.f != math.Trunc(n.f):
		return nil, NumericPrecisionLoss, fmt.Sprintf("%s has a fractional part", formatFloat(n.f))
	}
	i, _ := big.NewFloat(n.f).Int(nil)
	return i, 0, ""
}

var (
	bigOne = big.NewInt(1)
)

// intRange returns the inclusive bounds of an integer primitive.
func intRange(bits uint, signed bool) (lo, hi *big.Int) {
	if signed {
		hi = new(big.Int).Lsh(bigOne, bits-1)
		lo = new(big.Int).Neg(hi)
		hi.Sub(hi, bigOne)
		return lo, hi
	}
	hi = new(big.Int).Lsh(bigOne, bits)
	hi.Sub(hi, bigOne)
	return new(big.Int), hi
}

// float32Of converts to float32, failing on overflow or lost precision. A
// value is accepted when it is the shortest decimal form of its nearest
// float32, so 0.1 encodes while 0.1000000001 does not.
func (n Number) float32Of() (float32, ErrorKind, string) {
	f, kind, msg := n.float64Of()
	if kind != 0 {
		return 0, kind, msg
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return float32(f), 0, ""
	}
	if math.Abs(f) > math.MaxFloat32 {
		return 0, NumericOverflow, fmt.Sprintf("%s exceeds f32 range", formatFloat(f))
	}
	f32 := float32(f)
	if float64(f32) != f && shortestFloat32(f32) != f {
		return 0, NumericPrecisionLoss, fmt.Sprintf("%s is not representable as f32", formatFloat(f))
	}
	return f32, 0, ""
}

// shortestFloat32 returns the float64 nearest to the shortest decimal that
// round-trips f.
func shortestFloat32(f float32) float64 {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return float64(f)
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	if err != nil {
		return float64(f)
	}
	return v
}

// float64Of converts to float64, failing when an exact integer cannot be
// represented.
func (n Number) float64Of() (float64, ErrorKind, string) {
	if n.i == nil {
		return n.f, 0, ""
	}
	bf := new(big.Float).SetInt(n.i)
	f, acc := bf.Float64()
	if math.IsInf(f, 0) {
		return 0, NumericOverflow, fmt.Sprintf("%s exceeds f64 range", n.i)
	}
	if acc != big.Exact {
		return 0, NumericPrecisionLoss, fmt.Sprintf("%s is not representable as f64", n.i)
	}
	return f, 0, ""
}
