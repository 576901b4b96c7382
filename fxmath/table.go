// Package fxmath provides deterministic transcendental functions (ln, exp,
// sqrt, pow, and the normal distribution) over fxnum values. Every function
// is a pure composition of integer fixed-point steps: range reduction, a
// precomputed lookup-table anchor, and a bounded refinement series. No
// floating-point instruction is involved anywhere, so results are bit-exact
// across platforms.
package fxmath

import (
	"sync"

	fxnum "github.com/beatoz/fxnum-go"
	"github.com/beatoz/fxnum-go/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	// segments per octave of the normalized domain [1,2)
	segments = 256

	// guard digits carried by the internal working scale
	guardDigits = 8

	// ceiling on the working scale so that magnitudes up to |ln(2^127)|
	// and the table constants (ln10, the upper 2^(k/256) anchors) stay
	// representable during evaluation
	maxWorkScale = 36

	// extra reference precision used when generating table constants
	genGuard = 16

	lnSeriesTerms  = 6
	expTaylorTerms = 12
	sqrtMaxIter    = 32
)

// workScale returns the internal evaluation scale for a caller scale d.
// Above the ceiling it sits below d: evaluation then happens at 36 places
// and only the final rescale widens back, exactly.
func workScale(d int32) int32 {
	w := d + guardDigits
	if w > maxWorkScale {
		w = maxWorkScale
	}
	return w
}

// lookupTable holds the precomputed constants for one working scale. Built
// once, then immutable; shared by every concurrent caller.
type lookupTable struct {
	scale int32

	ln2  fxnum.FxNum
	ln10 fxnum.FxNum

	// ln anchors and slopes over [1,2): lnAnchor[k] = ln(a_k) and
	// lnSlope[k] = 1/a_k, with a_k the representable rounding of 1+k/256
	lnAnchor [segments]fxnum.FxNum
	lnSlope  [segments]fxnum.FxNum

	// exp2[k] = 2^(k/256), the range-expansion factors for exp
	exp2 [segments]fxnum.FxNum

	// Newton seeds for integer sqrt keyed by radicand bit length;
	// sqrtSeed[b] = 2^((b+1)/2) >= sqrt of any b-bit integer
	sqrtSeed [257]*uint256.Int

	// normal distribution constants
	invSqrt2Pi fxnum.FxNum
	cdfC1      fxnum.FxNum
	cdfC3      fxnum.FxNum
}

var (
	tblMtx sync.RWMutex
	tbls   = make(map[int32]*lookupTable)
)

// tableFor returns the table for a working scale, building it on first use.
// At most one table is ever built per scale and no caller can observe a
// partially built one.
func tableFor(scale int32) (*lookupTable, xerrors.XError) {
	tblMtx.RLock()
	t, ok := tbls[scale]
	tblMtx.RUnlock()
	if ok {
		return t, nil
	}

	tblMtx.Lock()
	defer tblMtx.Unlock()
	if t, ok = tbls[scale]; ok {
		return t, nil
	}
	t, xerr := buildTable(scale)
	if xerr != nil {
		return nil, xerr
	}
	tbls[scale] = t
	return t, nil
}

// buildTable generates every constant with shopspring/decimal as the
// arbitrary-precision reference, rounded half-to-even to the working scale.
func buildTable(scale int32) (*lookupTable, xerrors.XError) {
	t := &lookupTable{scale: scale}

	two := decimal.New(2, 0)
	refPrec := scale + genGuard

	ln2, err := two.Ln(refPrec)
	if err != nil {
		return nil, xerrors.From(err)
	}
	var xerr xerrors.XError
	if t.ln2, xerr = fxFromDecimal(ln2, scale); xerr != nil {
		return nil, xerr
	}
	ln10, err := decimal.New(10, 0).Ln(refPrec)
	if err != nil {
		return nil, xerrors.From(err)
	}
	if t.ln10, xerr = fxFromDecimal(ln10, scale); xerr != nil {
		return nil, xerr
	}

	unit := fxnum.Pow10(scale)
	for k := 0; k < segments; k++ {
		aRaw, xerr := segmentAbscissa(k, scale)
		if xerr != nil {
			return nil, xerr
		}
		aDec := decimal.NewFromBigInt(aRaw.ToBig(), -scale)

		lnA, err := aDec.Ln(refPrec)
		if err != nil {
			return nil, xerrors.From(err)
		}
		if t.lnAnchor[k], xerr = fxFromDecimal(lnA, scale); xerr != nil {
			return nil, xerr
		}

		// slope = 1/a_k at the working scale
		num := new(uint256.Int).Mul(unit, unit)
		recip, xerr := fxnum.RoundDiv(num, aRaw)
		if xerr != nil {
			return nil, xerr
		}
		if t.lnSlope[k], xerr = fxnum.FromRaw(false, recip, scale); xerr != nil {
			return nil, xerr
		}

		// 2^(k/256); k/256 = k*390625/10^8 is decimal-exact
		frac := decimal.New(int64(k)*390625, -8)
		p, err := two.PowWithPrecision(frac, refPrec)
		if err != nil {
			return nil, xerrors.From(err)
		}
		if t.exp2[k], xerr = fxFromDecimal(p, scale); xerr != nil {
			return nil, xerr
		}
	}

	for b := 0; b <= 256; b++ {
		t.sqrtSeed[b] = new(uint256.Int).Lsh(uint256.NewInt(1), uint((b+1)/2))
	}

	if t.invSqrt2Pi, xerr = fxnum.Parse(invSqrt2PiDigits, scale); xerr != nil {
		return nil, xerr
	}
	if t.cdfC1, xerr = fxnum.Parse(cdfC1Digits, scale); xerr != nil {
		return nil, xerr
	}
	if t.cdfC3, xerr = fxnum.Parse(cdfC3Digits, scale); xerr != nil {
		return nil, xerr
	}
	return t, nil
}

// segmentAbscissa returns the raw working-scale value of 1 + k/256, the
// representable anchor point of segment k.
func segmentAbscissa(k int, scale int32) (*uint256.Int, xerrors.XError) {
	unit := fxnum.Pow10(scale)
	num := new(uint256.Int).Mul(unit, uint256.NewInt(uint64(k)))
	off, xerr := fxnum.RoundDiv(num, uint256.NewInt(segments))
	if xerr != nil {
		return nil, xerr
	}
	return off.Add(off, unit), nil
}

// segment returns the ln anchor and slope of segment k, range-checked.
// A violation means the range reduction above it is defective.
func (t *lookupTable) segment(k int) (fxnum.FxNum, fxnum.FxNum, xerrors.XError) {
	if k < 0 || k >= segments {
		return fxnum.FxNum{}, fxnum.FxNum{}, xerrors.ErrIndexOutOfRange.Wrapf("ln segment %d", k)
	}
	return t.lnAnchor[k], t.lnSlope[k], nil
}

// exp2At returns 2^(k/256), range-checked.
func (t *lookupTable) exp2At(k int) (fxnum.FxNum, xerrors.XError) {
	if k < 0 || k >= segments {
		return fxnum.FxNum{}, xerrors.ErrIndexOutOfRange.Wrapf("exp segment %d", k)
	}
	return t.exp2[k], nil
}

// seedFor returns the sqrt Newton seed for a radicand of the given bit
// length, range-checked.
func (t *lookupTable) seedFor(bits int) (*uint256.Int, xerrors.XError) {
	if bits < 0 || bits > 256 {
		return nil, xerrors.ErrIndexOutOfRange.Wrapf("sqrt seed %d", bits)
	}
	return new(uint256.Int).Set(t.sqrtSeed[bits]), nil
}

// fxFromDecimal rounds a reference decimal half-to-even to a scaled value.
func fxFromDecimal(d decimal.Decimal, scale int32) (fxnum.FxNum, xerrors.XError) {
	i := d.Shift(scale).RoundBank(0).BigInt()
	neg := i.Sign() < 0
	if neg {
		i.Neg(i)
	}
	abs, overflow := uint256.FromBig(i)
	if overflow {
		return fxnum.FxNum{}, xerrors.ErrOverflow.Wrapf("table constant at scale %d", scale)
	}
	return fxnum.FromRaw(neg, abs, scale)
}

const (
	// 1/sqrt(2*pi), reference digits beyond any supported scale
	invSqrt2PiDigits = "0.3989422804014326779399460599343818684759"

	// Bowling's logistic approximation of the standard normal CDF
	cdfC1Digits = "1.5976"
	cdfC3Digits = "0.07056"
)
