package fxnum

import (
	"strings"

	"github.com/beatoz/fxnum-go/types/xerrors"
	"github.com/holiman/uint256"
)

// Parse reads the canonical text form [-]digits['.'digits] at the given
// decimal places. Fractional digits beyond decimals are rounded
// half-to-even into the stored value.
func Parse(s string, decimals int32) (FxNum, xerrors.XError) {
	if !validDecimals(decimals) {
		return FxNum{}, xerrors.ErrInvalidDecimals.Wrapf("decimals=%d", decimals)
	}
	if s == "" {
		return FxNum{}, xerrors.ErrParse.Wrapf("empty input")
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart, dotted := strings.Cut(s, ".")
	if intPart == "" {
		return FxNum{}, xerrors.ErrParse.Wrapf("missing integer part in %q", s)
	}
	if dotted && fracPart == "" {
		return FxNum{}, xerrors.ErrParse.Wrapf("missing fractional digits in %q", s)
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return FxNum{}, xerrors.ErrParse.Wrapf("invalid character in %q", s)
	}

	kept, rem := fracPart, ""
	if int32(len(fracPart)) > decimals {
		kept, rem = fracPart[:decimals], fracPart[decimals:]
	}

	digits := intPart + kept + strings.Repeat("0", int(decimals)-len(kept))
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}
	// maxAbs is 39 decimal digits long
	if len(digits) > 39 {
		return FxNum{}, xerrors.ErrParse.Wrapf("%q overflows the raw range", s)
	}

	abs := new(uint256.Int)
	if err := abs.SetFromDecimal(digits); err != nil {
		return FxNum{}, xerrors.ErrParse.Wrap(err)
	}

	if roundsUp(rem, abs) {
		abs.AddUint64(abs, 1)
	}
	if abs.Cmp(maxAbs) > 0 {
		return FxNum{}, xerrors.ErrParse.Wrapf("%q overflows the raw range", s)
	}
	return mk(neg, abs, decimals), nil
}

// MustParse is Parse for known-good literals; it panics on failure.
func MustParse(s string, decimals int32) FxNum {
	f, xerr := Parse(s, decimals)
	if xerr != nil {
		panic(xerr)
	}
	return f
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// roundsUp decides half-to-even rounding of the discarded digit tail.
func roundsUp(rem string, kept *uint256.Int) bool {
	if rem == "" {
		return false
	}
	switch {
	case rem[0] > '5':
		return true
	case rem[0] < '5':
		return false
	}
	for i := 1; i < len(rem); i++ {
		if rem[i] != '0' {
			return true
		}
	}
	// exact midpoint: round up only when the kept value is odd
	return kept[0]&1 == 1
}

// String renders the canonical form: exactly Decimals() fractional digits,
// a leading '-' only for strictly negative values.
func (x FxNum) String() string {
	q := new(uint256.Int).Div(&x.abs, pow10s[x.decimals])
	out := q.Dec()
	if x.decimals > 0 {
		r := new(uint256.Int).Mod(&x.abs, pow10s[x.decimals])
		frac := r.Dec()
		out += "." + strings.Repeat("0", int(x.decimals)-len(frac)) + frac
	}
	if x.neg {
		out = "-" + out
	}
	return out
}

func (x FxNum) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText parses the canonical form, inferring the decimal places
// from the fractional digit count. The canonical form is self-describing,
// so Parse(v.String()) round-trips exactly.
func (x *FxNum) UnmarshalText(data []byte) error {
	s := string(data)
	decimals := int32(0)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		decimals = int32(len(s) - i - 1)
	}
	f, xerr := Parse(s, decimals)
	if xerr != nil {
		return xerr
	}
	*x = f
	return nil
}

func (x FxNum) MarshalJSON() ([]byte, error) {
	return []byte(`"` + x.String() + `"`), nil
}

func (x *FxNum) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return x.UnmarshalText([]byte(s))
}
