package fxmath

import (
	fxnum "github.com/beatoz/fxnum-go"
	"github.com/beatoz/fxnum-go/types/xerrors"
	"github.com/holiman/uint256"
)

// expUnderflowBound is the |x| beyond which exp(-x) rounds to zero at any
// supported scale (exp(-95) < half a unit at 38 decimal places).
const expUnderflowBound = 95

// Exp returns e^x rounded half-to-even to the decimal places of x. The
// argument is split on ln2 into an integer exponent n and a fraction
// f in [0,1); 2^f comes from the table anchor 2^(k/256) times a bounded
// Taylor residual, and 2^n is applied as a shift in the raw domain.
func Exp(x fxnum.FxNum) (fxnum.FxNum, xerrors.XError) {
	return expTo(x, x.Decimals())
}

// expTo evaluates e^x rounded to d decimal places. The argument may carry
// more places than d; Pow uses that to keep its intermediate guarded.
func expTo(x fxnum.FxNum, d int32) (fxnum.FxNum, xerrors.XError) {
	w := workScale(d)
	t, xerr := tableFor(w)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	// bound the argument before any table work
	if !x.IsNeg() {
		if xerr = t.checkExpBound(x, d); xerr != nil {
			return fxnum.FxNum{}, xerr
		}
	} else {
		mag, xerr := x.Abs().Int64()
		if xerr != nil || mag >= expUnderflowBound {
			return fxnum.Zero(d)
		}
	}

	xw, xerr := x.Rescale(w)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	n, fRaw, xerr := splitOnLn2(xw, t)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	y, xerr := t.exp2Fraction(fRaw)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	return composePow2(y, n, d)
}

// checkExpBound fails with ErrOverflow when exp(x) cannot fit at the
// target scale d: the threshold is ln(2^127) - d*ln10.
func (t *lookupTable) checkExpBound(x fxnum.FxNum, d int32) xerrors.XError {
	bound, xerr := t.ln2.MulInt(127)
	if xerr != nil {
		return xerr
	}
	dTerm, xerr := t.ln10.MulInt(int64(d))
	if xerr != nil {
		return xerr
	}
	if bound, xerr = bound.Sub(dTerm); xerr != nil {
		return xerr
	}
	boundD, xerr := bound.Rescale(x.Decimals())
	if xerr != nil {
		// the bound itself is not representable at this scale, so no
		// representable argument can reach it
		return nil
	}
	if c, xerr := x.Cmp(boundD); xerr != nil {
		return xerr
	} else if c > 0 {
		return xerrors.ErrOverflow.Wrapf("exp(%s) exceeds the representable range", x.String())
	}
	return nil
}

// splitOnLn2 decomposes x = (n + f)*ln2 with f in [0,1), returning n and
// the raw working-scale value of f.
func splitOnLn2(x fxnum.FxNum, t *lookupTable) (int32, *uint256.Int, xerrors.XError) {
	neg, abs := x.Raw()
	_, ln2Raw := t.ln2.Raw()

	q := new(uint256.Int).Div(abs, ln2Raw)
	var n int64
	r := new(uint256.Int)
	if !neg {
		n = int64(q.Uint64())
		r.Mul(q, ln2Raw)
		r.Sub(abs, r)
	} else {
		// floor division for negative arguments
		n = -int64(q.Uint64())
		r.Mul(q, ln2Raw)
		r.Sub(abs, r)
		if !r.IsZero() {
			n--
			r.Sub(ln2Raw, r)
		}
	}

	// f = r/ln2, a single half-to-even rounding
	unit := fxnum.Pow10(t.scale)
	fRaw, xerr := fxnum.RoundDiv(new(uint256.Int).Mul(r, unit), ln2Raw)
	if xerr != nil {
		return 0, nil, xerr
	}
	// rounding may land exactly on 1; fold it into the exponent
	if fRaw.Cmp(unit) == 0 {
		fRaw.Clear()
		n++
	}
	return int32(n), fRaw, nil
}

// exp2Fraction evaluates 2^f for f in [0,1) at the working scale: the
// segment anchor 2^(k/256) times e^(g*ln2) for the residual g < 1/256,
// with the Taylor factor evaluated by the bounded Horner recurrence.
func (t *lookupTable) exp2Fraction(fRaw *uint256.Int) (fxnum.FxNum, xerrors.XError) {
	w := t.scale
	unit := fxnum.Pow10(w)

	idx := new(uint256.Int).Mul(fRaw, uint256.NewInt(segments))
	idx.Div(idx, unit)
	k := int(idx.Uint64())

	anchor, xerr := t.exp2At(k)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	// residual g = f - k/256, at most half a unit below zero after the
	// abscissa rounding
	num := new(uint256.Int).Mul(unit, uint256.NewInt(uint64(k)))
	kOff, xerr := fxnum.RoundDiv(num, uint256.NewInt(segments))
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	gNeg := fRaw.Cmp(kOff) < 0
	gAbs := new(uint256.Int)
	if gNeg {
		gAbs.Sub(kOff, fRaw)
	} else {
		gAbs.Sub(fRaw, kOff)
	}
	g, xerr := fxnum.FromRaw(gNeg, gAbs, w)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	z, xerr := g.Mul(t.ln2)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	// e^z = 1 + z/1*(1 + z/2*(1 + ... (1 + z/N)))
	one, xerr := fxnum.One(w)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	s := one
	for j := expTaylorTerms; j > 0; j-- {
		q, xerr := z.DivInt(int64(j))
		if xerr != nil {
			return fxnum.FxNum{}, xerr
		}
		if q, xerr = q.Mul(s); xerr != nil {
			return fxnum.FxNum{}, xerr
		}
		if s, xerr = one.Add(q); xerr != nil {
			return fxnum.FxNum{}, xerr
		}
	}
	return anchor.Mul(s)
}

// composePow2 computes y * 2^n rounded half-to-even directly to the target
// scale, so the shift costs at most a single rounding. The target scale may
// exceed the working scale of y; widening is exact.
func composePow2(y fxnum.FxNum, n int32, d int32) (fxnum.FxNum, xerrors.XError) {
	w := y.Decimals()
	_, yRaw := y.Raw()

	if n >= 0 {
		if yRaw.BitLen()+int(n) > 250 {
			return fxnum.FxNum{}, xerrors.ErrOverflow.Wrapf("exp result exceeds the raw range")
		}
		num := new(uint256.Int).Lsh(yRaw, uint(n))
		var raw *uint256.Int
		if w >= d {
			var xerr xerrors.XError
			raw, xerr = fxnum.RoundDiv(num, fxnum.Pow10(w-d))
			if xerr != nil {
				return fxnum.FxNum{}, xerr
			}
		} else {
			if num.BitLen() > 135 {
				return fxnum.FxNum{}, xerrors.ErrOverflow.Wrapf("exp result exceeds the raw range")
			}
			raw = num.Mul(num, fxnum.Pow10(d-w))
		}
		res, xerr := fxnum.FromRaw(false, raw, d)
		if xerr != nil {
			return fxnum.FxNum{}, xerrors.ErrOverflow.Wrapf("exp result exceeds the raw range")
		}
		return res, nil
	}

	if n < -200 {
		return fxnum.Zero(d)
	}
	num := yRaw
	den := new(uint256.Int).Lsh(uint256.NewInt(1), uint(-n))
	if w >= d {
		den.Mul(den, fxnum.Pow10(w-d))
	} else {
		num = new(uint256.Int).Mul(yRaw, fxnum.Pow10(d-w))
	}
	raw, xerr := fxnum.RoundDiv(num, den)
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}
	return fxnum.FromRaw(false, raw, d)
}
