package fxmath

import (
	fxnum "github.com/beatoz/fxnum-go"
	"github.com/beatoz/fxnum-go/types/xerrors"
)

// PowInt raises x to an integer power by squaring, on exact checked
// fixed-point multiplications. 0^0 is 1; 0^negative is a domain error;
// negative exponents go through one final reciprocal.
func PowInt(x fxnum.FxNum, n int64) (fxnum.FxNum, xerrors.XError) {
	d := x.Decimals()
	one, xerr := fxnum.One(d)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	if n == 0 {
		return one, nil
	}
	if x.IsZero() {
		if n < 0 {
			return fxnum.FxNum{}, xerrors.ErrDomain.Wrapf("0 raised to %d", n)
		}
		return fxnum.Zero(d)
	}

	neg := n < 0
	m := uint64(n)
	if neg {
		m = uint64(-n)
	}

	res, base := one, x
	for m > 0 {
		if m&1 == 1 {
			if res, xerr = res.Mul(base); xerr != nil {
				return fxnum.FxNum{}, xerr
			}
		}
		m >>= 1
		if m > 0 {
			if base, xerr = base.Mul(base); xerr != nil {
				return fxnum.FxNum{}, xerr
			}
		}
	}

	if neg {
		if res.IsZero() {
			// x^|n| underflowed, so the reciprocal is out of range
			return fxnum.FxNum{}, xerrors.ErrOverflow.Wrapf("%s raised to %d", x.String(), n)
		}
		return one.Div(res)
	}
	return res, nil
}

// Pow raises a positive x to a fixed-point exponent via exp(y*ln x). The
// intermediate y*ln(x) stays at the working scale so the guard digits are
// not rounded away between the two steps.
func Pow(x, y fxnum.FxNum) (fxnum.FxNum, xerrors.XError) {
	if x.Decimals() != y.Decimals() {
		return fxnum.FxNum{}, xerrors.ErrDecimalsMismatch.Wrapf("%d vs %d", x.Decimals(), y.Decimals())
	}
	if x.Sign() <= 0 {
		return fxnum.FxNum{}, xerrors.ErrDomain.Wrapf("pow of non-positive base %s", x.String())
	}
	d := x.Decimals()

	lnx, xerr := lnAt(x)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	yw, xerr := y.Rescale(lnx.Decimals())
	if xerr != nil {
		// y is too large for the guarded scale; the exponent magnitude then
		// dwarfs the guard digits, so the caller-scale product decides
		lnd, xerr := lnx.Rescale(d)
		if xerr != nil {
			return fxnum.FxNum{}, xerr
		}
		arg, xerr := y.Mul(lnd)
		if xerr != nil {
			return powArgOverflow(xerr, y, lnd, d)
		}
		return expTo(arg, d)
	}

	arg, xerr := yw.Mul(lnx)
	if xerr != nil {
		return powArgOverflow(xerr, yw, lnx, d)
	}
	return expTo(arg, d)
}

// powArgOverflow resolves an overflowing y*ln(x): a negative product that
// big means the power underflows to zero, a positive one is a true overflow.
func powArgOverflow(xerr xerrors.XError, y, lnx fxnum.FxNum, d int32) (fxnum.FxNum, xerrors.XError) {
	if xerr.Contains(xerrors.ErrOverflow) &&
		!y.IsZero() && !lnx.IsZero() && y.IsNeg() != lnx.IsNeg() {
		return fxnum.Zero(d)
	}
	return fxnum.FxNum{}, xerr
}
