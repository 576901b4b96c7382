package fxmath

import (
	fxnum "github.com/beatoz/fxnum-go"
	"github.com/beatoz/fxnum-go/types/xerrors"
	"github.com/holiman/uint256"
)

// Ln returns the natural logarithm of x, rounded half-to-even to the
// decimal places of x. Internally it evaluates at a guarded working scale:
// x is reduced to m*2^e with m in [1,2), the enclosing table segment
// supplies ln(a_k) and 1/a_k, and the residual ln(m/a_k) comes from the
// bounded odd series 2*(u + u^3/3 + u^5/5 + ...) with u derived from the
// stored slope.
func Ln(x fxnum.FxNum) (fxnum.FxNum, xerrors.XError) {
	res, xerr := lnAt(x)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	return res.Rescale(x.Decimals())
}

// lnAt evaluates ln(x) at the working scale of x, keeping the guard digits
// for callers that compose further before the final rounding.
func lnAt(x fxnum.FxNum) (fxnum.FxNum, xerrors.XError) {
	if x.Sign() <= 0 {
		return fxnum.FxNum{}, xerrors.ErrDomain.Wrapf("ln of non-positive %s", x.String())
	}
	w := workScale(x.Decimals())
	t, xerr := tableFor(w)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	m, e, xerr := reduceToOctave(x, w)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	lnm, xerr := t.lnOctave(m)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	// ln x = e*ln2 + ln m
	eTerm, xerr := t.ln2.MulInt(int64(e))
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	return eTerm.Add(lnm)
}

// reduceToOctave rewrites positive x as m * 2^e with m in [1,2) at the
// working scale, which may sit below the scale of x. The mantissa comes
// from one combined half-to-even division, so the reduction costs a single
// rounding regardless of the two scales.
func reduceToOctave(x fxnum.FxNum, w int32) (fxnum.FxNum, int32, xerrors.XError) {
	d := x.Decimals()
	_, abs := x.Raw()

	den := fxnum.Pow10(d)
	twoDen := new(uint256.Int).Lsh(den, 1)

	var e int32
	switch {
	case abs.Cmp(twoDen) >= 0:
		e = int32(abs.BitLen() - twoDen.BitLen())
		for new(uint256.Int).Rsh(abs, uint(e)).Cmp(twoDen) >= 0 {
			e++
		}
	case abs.Cmp(den) < 0:
		for new(uint256.Int).Lsh(abs, uint(-e)).Cmp(den) < 0 {
			e--
		}
	}

	// m = abs * 10^w / (10^d * 2^e); both sides stay well inside 256 bits
	// for any representable x and w <= maxWorkScale
	num := new(uint256.Int).Mul(abs, fxnum.Pow10(w))
	if e < 0 {
		num.Lsh(num, uint(-e))
	}
	div := den
	if e > 0 {
		div = new(uint256.Int).Lsh(den, uint(e))
	}
	mRaw, xerr := fxnum.RoundDiv(num, div)
	if xerr != nil {
		return fxnum.FxNum{}, 0, xerr
	}

	// the rounding may land exactly on 2; fold it into the exponent
	unit := fxnum.Pow10(w)
	twoUnit := new(uint256.Int).Lsh(unit, 1)
	if mRaw.Cmp(twoUnit) == 0 {
		mRaw.Set(unit)
		e++
	}

	m, xerr := fxnum.FromRaw(false, mRaw, w)
	if xerr != nil {
		return fxnum.FxNum{}, 0, xerr
	}
	return m, e, nil
}

// lnOctave evaluates ln(m) for m in [1,2) at the table's working scale.
func (t *lookupTable) lnOctave(m fxnum.FxNum) (fxnum.FxNum, xerrors.XError) {
	w := t.scale
	unit := fxnum.Pow10(w)
	_, mRaw := m.Raw()

	// segment index: floor((m-1) * 256)
	off := new(uint256.Int).Sub(mRaw, unit)
	idx := off.Mul(off, uint256.NewInt(segments))
	idx.Div(idx, unit)
	k := int(idx.Uint64())

	anchor, slope, xerr := t.segment(k)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	aRaw, xerr := segmentAbscissa(k, w)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	a, xerr := fxnum.FromRaw(false, aRaw, w)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	// u = (m-a)/(m+a), via the stored slope: u = t0/(2+t0) with t0 = (m-a)/a
	delta, xerr := m.Sub(a)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	t0, xerr := delta.Mul(slope)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	two, xerr := fxnum.FromInt(2, w)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	den, xerr := two.Add(t0)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	u, xerr := t0.Div(den)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	// ln(m/a) = 2*(u + u^3/3 + u^5/5 + ...), |u| <= 1/1024 so the tail
	// vanishes within the fixed term count
	u2, xerr := u.Mul(u)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	sum, term := u, u
	for j := 1; j <= lnSeriesTerms; j++ {
		if term, xerr = term.Mul(u2); xerr != nil {
			return fxnum.FxNum{}, xerr
		}
		if term.IsZero() {
			break
		}
		q, xerr := term.DivInt(int64(2*j + 1))
		if xerr != nil {
			return fxnum.FxNum{}, xerr
		}
		if sum, xerr = sum.Add(q); xerr != nil {
			return fxnum.FxNum{}, xerr
		}
	}
	corr, xerr := sum.MulInt(2)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	return anchor.Add(corr)
}
