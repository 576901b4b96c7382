package fxmath

import (
	fxnum "github.com/beatoz/fxnum-go"
	"github.com/beatoz/fxnum-go/types/xerrors"
)

// distTailBound is the |x| beyond which the standard normal tail is below
// half a unit at any supported scale.
const distTailBound = 14

// distScale caps the working scale lower than ln/exp do, leaving headroom
// for the cubic term of the CDF approximation.
func distScale(d int32) int32 {
	w := d + guardDigits
	if w > 30 {
		w = 30
	}
	return w
}

// NormCDF returns the standard normal CDF via Bowling's logistic
// approximation 1/(1+exp(-1.5976x - 0.07056x^3)), with the negative half
// mirrored through 1-CDF(-x) so the exponential never grows.
func NormCDF(x fxnum.FxNum) (fxnum.FxNum, xerrors.XError) {
	d := x.Decimals()
	if mag, xerr := x.Abs().Int64(); xerr != nil || mag >= distTailBound {
		if x.IsNeg() {
			return fxnum.Zero(d)
		}
		return fxnum.One(d)
	}

	w := distScale(d)
	t, xerr := tableFor(w)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	xa, xerr := x.Abs().Rescale(w)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	cube, xerr := xa.Mul(xa)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	if cube, xerr = cube.Mul(xa); xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	lin, xerr := t.cdfC1.Mul(xa)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	if cube, xerr = t.cdfC3.Mul(cube); xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	arg, xerr := lin.Add(cube)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	e, xerr := Exp(arg.Neg())
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	one, xerr := fxnum.One(w)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	den, xerr := one.Add(e)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	p, xerr := one.Div(den)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	if x.IsNeg() {
		if p, xerr = one.Sub(p); xerr != nil {
			return fxnum.FxNum{}, xerr
		}
	}
	return p.Rescale(d)
}

// NormPDF returns the standard normal density exp(-x^2/2)/sqrt(2*pi).
func NormPDF(x fxnum.FxNum) (fxnum.FxNum, xerrors.XError) {
	d := x.Decimals()
	if mag, xerr := x.Abs().Int64(); xerr != nil || mag >= distTailBound {
		return fxnum.Zero(d)
	}

	w := distScale(d)
	t, xerr := tableFor(w)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	xw, xerr := x.Rescale(w)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	sq, xerr := xw.Mul(xw)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	if sq, xerr = sq.DivInt(2); xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	e, xerr := Exp(sq.Neg())
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	res, xerr := t.invSqrt2Pi.Mul(e)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	return res.Rescale(d)
}
