// Package fxnum implements a deterministic fixed-point decimal number.
//
// A value is a signed 128-bit scaled integer: the mathematical value is
// raw / 10^decimals, where decimals is fixed per value (0..38) and raw is
// bounded by |raw| <= 2^127-1. Every operation is built from integer
// arithmetic only, so the same inputs produce the same bits on every
// platform. Wherever a digit is discarded, rounding is half-to-even and
// goes through the one shared RoundDiv helper.
package fxnum

import (
	"github.com/beatoz/fxnum-go/types/xerrors"
	"github.com/holiman/uint256"
)

// MaxDecimals bounds the decimal-place count so that one whole unit
// (10^decimals) still leaves integer-part headroom in 128 bits.
const MaxDecimals = int32(38)

var (
	// maxAbs is 2^127-1, the largest raw magnitude. The range is kept
	// symmetric; -2^127 is not representable.
	maxAbs = func() *uint256.Int {
		z := new(uint256.Int).Lsh(uint256.NewInt(1), 127)
		return z.SubUint64(z, 1)
	}()

	pow10s = func() [MaxDecimals + 1]*uint256.Int {
		var tab [MaxDecimals + 1]*uint256.Int
		ten := uint256.NewInt(10)
		tab[0] = uint256.NewInt(1)
		for i := int32(1); i <= MaxDecimals; i++ {
			tab[i] = new(uint256.Int).Mul(tab[i-1], ten)
		}
		return tab
	}()
)

// FxNum is a fixed-point decimal value. The zero value is 0 at 0 decimal
// places. Values are plain data and freely copyable.
type FxNum struct {
	neg      bool
	abs      uint256.Int
	decimals int32
}

func validDecimals(d int32) bool {
	return d >= 0 && d <= MaxDecimals
}

// Pow10 returns 10^d as a fresh integer. d must be in [0, MaxDecimals].
func Pow10(d int32) *uint256.Int {
	return new(uint256.Int).Set(pow10s[d])
}

// RoundDiv divides num by den rounding half-to-even. It is the single
// rounding site shared by every operation that discards digits.
func RoundDiv(num, den *uint256.Int) (*uint256.Int, xerrors.XError) {
	if den.IsZero() {
		return nil, xerrors.ErrDivisByZero
	}
	q := new(uint256.Int)
	r := new(uint256.Int)
	q.DivMod(num, den, r)

	r.Lsh(r, 1) // compare 2r against den
	switch r.Cmp(den) {
	case 1:
		q.AddUint64(q, 1)
	case 0:
		// exact midpoint: round to even quotient
		if q[0]&1 == 1 {
			q.AddUint64(q, 1)
		}
	}
	return q, nil
}

func mk(neg bool, abs *uint256.Int, decimals int32) FxNum {
	if abs.IsZero() {
		neg = false
	}
	f := FxNum{neg: neg, decimals: decimals}
	f.abs.Set(abs)
	return f
}

// New returns coef * 10^-decimals, i.e. coef is the raw scaled integer.
func New(coef int64, decimals int32) (FxNum, xerrors.XError) {
	if !validDecimals(decimals) {
		return FxNum{}, xerrors.ErrInvalidDecimals.Wrapf("decimals=%d", decimals)
	}
	neg := coef < 0
	mag := uint64(coef)
	if neg {
		mag = uint64(-coef)
	}
	return mk(neg, uint256.NewInt(mag), decimals), nil
}

// FromInt returns the integer v at the given decimal places.
func FromInt(v int64, decimals int32) (FxNum, xerrors.XError) {
	f, xerr := New(v, decimals)
	if xerr != nil {
		return FxNum{}, xerr
	}
	abs := new(uint256.Int).Mul(&f.abs, pow10s[decimals])
	if abs.Cmp(maxAbs) > 0 {
		return FxNum{}, xerrors.ErrOverflow.Wrapf("%d at %d decimals", v, decimals)
	}
	return mk(f.neg, abs, decimals), nil
}

// FromRaw builds a value from an explicit sign and raw magnitude.
func FromRaw(neg bool, abs *uint256.Int, decimals int32) (FxNum, xerrors.XError) {
	if !validDecimals(decimals) {
		return FxNum{}, xerrors.ErrInvalidDecimals.Wrapf("decimals=%d", decimals)
	}
	if abs.Cmp(maxAbs) > 0 {
		return FxNum{}, xerrors.ErrOverflow.Wrapf("raw magnitude exceeds 2^127-1")
	}
	return mk(neg, abs, decimals), nil
}

func Zero(decimals int32) (FxNum, xerrors.XError) {
	return New(0, decimals)
}

func One(decimals int32) (FxNum, xerrors.XError) {
	return FromInt(1, decimals)
}

// Max returns the largest representable value at the given decimal places.
func Max(decimals int32) (FxNum, xerrors.XError) {
	return FromRaw(false, maxAbs, decimals)
}

// MinPositive returns one unit of least precision.
func MinPositive(decimals int32) (FxNum, xerrors.XError) {
	return New(1, decimals)
}

func (x FxNum) Decimals() int32 {
	return x.decimals
}

// Raw returns the sign and a copy of the raw scaled magnitude.
func (x FxNum) Raw() (bool, *uint256.Int) {
	return x.neg, new(uint256.Int).Set(&x.abs)
}

func (x FxNum) IsZero() bool {
	return x.abs.IsZero()
}

func (x FxNum) IsNeg() bool {
	return x.neg
}

// Sign returns -1, 0, or 1.
func (x FxNum) Sign() int {
	if x.abs.IsZero() {
		return 0
	}
	if x.neg {
		return -1
	}
	return 1
}

func (x FxNum) Neg() FxNum {
	return mk(!x.neg, &x.abs, x.decimals)
}

func (x FxNum) Abs() FxNum {
	return mk(false, &x.abs, x.decimals)
}

// Equal reports exact equality; values at different decimal places are
// never equal.
func (x FxNum) Equal(o FxNum) bool {
	return x.decimals == o.decimals && x.neg == o.neg && x.abs.Eq(&o.abs)
}

// Cmp compares two values of the same decimal places; mixing scales
// requires an explicit Rescale first.
func (x FxNum) Cmp(o FxNum) (int, xerrors.XError) {
	if x.decimals != o.decimals {
		return 0, xerrors.ErrDecimalsMismatch.Wrapf("%d vs %d", x.decimals, o.decimals)
	}
	if x.neg != o.neg {
		if x.Sign() < o.Sign() {
			return -1, nil
		}
		return 1, nil
	}
	c := x.abs.Cmp(&o.abs)
	if x.neg {
		c = -c
	}
	return c, nil
}

// Add returns x+o, failing with ErrOverflow when the exact sum exceeds the
// 128-bit raw range.
func (x FxNum) Add(o FxNum) (FxNum, xerrors.XError) {
	if x.decimals != o.decimals {
		return FxNum{}, xerrors.ErrDecimalsMismatch.Wrapf("%d vs %d", x.decimals, o.decimals)
	}
	if x.neg == o.neg {
		// magnitudes are below 2^127 each; the 256-bit add cannot wrap
		abs := new(uint256.Int).Add(&x.abs, &o.abs)
		if abs.Cmp(maxAbs) > 0 {
			return FxNum{}, xerrors.ErrOverflow.Wrapf("add %s + %s", x.String(), o.String())
		}
		return mk(x.neg, abs, x.decimals), nil
	}
	switch x.abs.Cmp(&o.abs) {
	case 0:
		return mk(false, uint256.NewInt(0), x.decimals), nil
	case 1:
		return mk(x.neg, new(uint256.Int).Sub(&x.abs, &o.abs), x.decimals), nil
	default:
		return mk(o.neg, new(uint256.Int).Sub(&o.abs, &x.abs), x.decimals), nil
	}
}

func (x FxNum) Sub(o FxNum) (FxNum, xerrors.XError) {
	return x.Add(o.Neg())
}

// Mul returns x*o rounded half-to-even back to the shared scale. The
// 256-bit intermediate product cannot overflow for in-range operands.
func (x FxNum) Mul(o FxNum) (FxNum, xerrors.XError) {
	if x.decimals != o.decimals {
		return FxNum{}, xerrors.ErrDecimalsMismatch.Wrapf("%d vs %d", x.decimals, o.decimals)
	}
	prod := new(uint256.Int).Mul(&x.abs, &o.abs)
	abs, xerr := RoundDiv(prod, pow10s[x.decimals])
	if xerr != nil {
		return FxNum{}, xerr
	}
	if abs.Cmp(maxAbs) > 0 {
		return FxNum{}, xerrors.ErrOverflow.Wrapf("mul %s * %s", x.String(), o.String())
	}
	return mk(x.neg != o.neg, abs, x.decimals), nil
}

// Div returns x/o rounded half-to-even.
func (x FxNum) Div(o FxNum) (FxNum, xerrors.XError) {
	if x.decimals != o.decimals {
		return FxNum{}, xerrors.ErrDecimalsMismatch.Wrapf("%d vs %d", x.decimals, o.decimals)
	}
	if o.abs.IsZero() {
		return FxNum{}, xerrors.ErrDivisByZero.Wrapf("%s / 0", x.String())
	}
	num := new(uint256.Int).Mul(&x.abs, pow10s[x.decimals])
	abs, xerr := RoundDiv(num, &o.abs)
	if xerr != nil {
		return FxNum{}, xerr
	}
	if abs.Cmp(maxAbs) > 0 {
		return FxNum{}, xerrors.ErrOverflow.Wrapf("div %s / %s", x.String(), o.String())
	}
	return mk(x.neg != o.neg, abs, x.decimals), nil
}

// MulInt returns x*n exactly, failing with ErrOverflow when out of range.
func (x FxNum) MulInt(n int64) (FxNum, xerrors.XError) {
	neg := x.neg
	mag := uint64(n)
	if n < 0 {
		neg = !neg
		mag = uint64(-n)
	}
	abs := new(uint256.Int).Mul(&x.abs, uint256.NewInt(mag))
	if abs.Cmp(maxAbs) > 0 {
		return FxNum{}, xerrors.ErrOverflow.Wrapf("mulint %s * %d", x.String(), n)
	}
	return mk(neg, abs, x.decimals), nil
}

// DivInt returns x/n rounded half-to-even.
func (x FxNum) DivInt(n int64) (FxNum, xerrors.XError) {
	if n == 0 {
		return FxNum{}, xerrors.ErrDivisByZero.Wrapf("%s / 0", x.String())
	}
	neg := x.neg
	mag := uint64(n)
	if n < 0 {
		neg = !neg
		mag = uint64(-n)
	}
	abs, xerr := RoundDiv(&x.abs, uint256.NewInt(mag))
	if xerr != nil {
		return FxNum{}, xerr
	}
	return mk(neg, abs, x.decimals), nil
}

// MulPow2 scales x by 2^n: an exact overflow-checked shift for n >= 0 and a
// half-to-even halving for n < 0.
func (x FxNum) MulPow2(n int32) (FxNum, xerrors.XError) {
	if x.abs.IsZero() {
		return x, nil
	}
	if n >= 0 {
		if n > 127 || x.abs.BitLen()+int(n) > 128 {
			return FxNum{}, xerrors.ErrOverflow.Wrapf("mulpow2 %s << %d", x.String(), n)
		}
		abs := new(uint256.Int).Lsh(&x.abs, uint(n))
		if abs.Cmp(maxAbs) > 0 {
			return FxNum{}, xerrors.ErrOverflow.Wrapf("mulpow2 %s << %d", x.String(), n)
		}
		return mk(x.neg, abs, x.decimals), nil
	}
	if n <= -255 {
		return mk(false, uint256.NewInt(0), x.decimals), nil
	}
	den := new(uint256.Int).Lsh(uint256.NewInt(1), uint(-n))
	abs, xerr := RoundDiv(&x.abs, den)
	if xerr != nil {
		return FxNum{}, xerr
	}
	return mk(x.neg, abs, x.decimals), nil
}

// Rescale converts x to another decimal-place count: the only sanctioned
// way to mix scales. Narrowing rounds half-to-even, widening is exact or
// fails with ErrOverflow.
func (x FxNum) Rescale(decimals int32) (FxNum, xerrors.XError) {
	if !validDecimals(decimals) {
		return FxNum{}, xerrors.ErrInvalidDecimals.Wrapf("decimals=%d", decimals)
	}
	switch {
	case decimals == x.decimals:
		return x, nil
	case decimals > x.decimals:
		abs := new(uint256.Int).Mul(&x.abs, pow10s[decimals-x.decimals])
		if abs.Cmp(maxAbs) > 0 {
			return FxNum{}, xerrors.ErrOverflow.Wrapf("rescale %s to %d decimals", x.String(), decimals)
		}
		return mk(x.neg, abs, decimals), nil
	default:
		abs, xerr := RoundDiv(&x.abs, pow10s[x.decimals-decimals])
		if xerr != nil {
			return FxNum{}, xerr
		}
		return mk(x.neg, abs, decimals), nil
	}
}

// Int64 returns the integer part truncated toward zero.
func (x FxNum) Int64() (int64, xerrors.XError) {
	q := new(uint256.Int).Div(&x.abs, pow10s[x.decimals])
	if !q.IsUint64() || q.Uint64() > 1<<63-1 {
		return 0, xerrors.ErrOverflow.Wrapf("integer part of %s does not fit int64", x.String())
	}
	v := int64(q.Uint64())
	if x.neg {
		v = -v
	}
	return v, nil
}
