package bind

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Numeric is a fixed-point numeric value stored as a scaled integer:
// a 128-bit little-endian magnitude plus explicit precision, scale and
// sign. The represented value is magnitude / 10^Scale, negated when
// Negative is set.
//
// Equality compares sign, scale and the raw magnitude buffer, not the
// numeric value: two representations with different scales are unequal
// even when numerically equal. This is intentional and matches the wire
// representation the drivers consume.
type Numeric struct {
	Precision uint8
	Scale     uint8
	Negative  bool
	Raw       [16]byte // little-endian magnitude
}

// NewNumeric builds a Numeric from x at the given precision and scale,
// rounding half away from zero.
func NewNumeric(x float64, precision, scale uint8) Numeric {
	n := Numeric{Precision: precision, Scale: scale, Negative: math.Signbit(x)}
	bf := new(big.Float).SetPrec(128).SetFloat64(math.Abs(x))
	bf.Mul(bf, new(big.Float).SetInt(pow10(int(scale))))
	bf.Add(bf, big.NewFloat(0.5))
	mag, _ := bf.Int(nil)
	n.setMagnitude(mag)
	return n
}

// ParseNumeric parses decimal text such as "-123.45" into a Numeric at
// the given precision and scale. Fractional digits beyond the scale are
// truncated; missing ones are zero-filled.
func ParseNumeric(s string, precision, scale uint8) (Numeric, error) {
	n := Numeric{Precision: precision, Scale: scale}
	s = strings.TrimSpace(s)
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		n.Negative = s[0] == '-'
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > int(scale) {
		fracPart = fracPart[:scale]
	}
	for len(fracPart) < int(scale) {
		fracPart += "0"
	}
	mag, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return Numeric{}, fmt.Errorf("sqlkit: malformed numeric literal %q", s)
	}
	if err := n.setMagnitude(mag); err != nil {
		return Numeric{}, err
	}
	return n, nil
}

// setMagnitude fills Raw from a non-negative big integer.
func (n *Numeric) setMagnitude(mag *big.Int) error {
	be := mag.Bytes() // big-endian, no leading zeros
	if len(be) > len(n.Raw) {
		return fmt.Errorf("sqlkit: numeric magnitude exceeds 128 bits")
	}
	n.Raw = [16]byte{}
	for i, b := range be {
		n.Raw[len(be)-1-i] = b
	}
	return nil
}

// magnitude returns the scaled integer magnitude.
func (n Numeric) magnitude() *big.Int {
	be := make([]byte, len(n.Raw))
	for i, b := range n.Raw {
		be[len(n.Raw)-1-i] = b
	}
	return new(big.Int).SetBytes(be)
}

// Float64 converts the fixed-point value to floating point, dividing the
// scaled magnitude by 10^Scale.
func (n Numeric) Float64() float64 {
	bf := new(big.Float).SetPrec(128).SetInt(n.magnitude())
	bf.Quo(bf, new(big.Float).SetInt(pow10(int(n.Scale))))
	f, _ := bf.Float64()
	if n.Negative {
		f = -f
	}
	return f
}

// Equal compares sign, scale and the raw magnitude buffer.
func (n Numeric) Equal(o Numeric) bool {
	return n.Negative == o.Negative && n.Scale == o.Scale && n.Raw == o.Raw
}

// String renders the value as decimal text.
func (n Numeric) String() string {
	mag := n.magnitude()
	digits := mag.String()
	for len(digits) <= int(n.Scale) {
		digits = "0" + digits
	}
	var sb strings.Builder
	if n.Negative && mag.Sign() != 0 {
		sb.WriteByte('-')
	}
	cut := len(digits) - int(n.Scale)
	sb.WriteString(digits[:cut])
	if n.Scale > 0 {
		sb.WriteByte('.')
		sb.WriteString(digits[cut:])
	}
	return sb.String()
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
