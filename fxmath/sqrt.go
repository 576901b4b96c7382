package fxmath

import (
	fxnum "github.com/beatoz/fxnum-go"
	"github.com/beatoz/fxnum-go/types/xerrors"
	"github.com/holiman/uint256"
)

// Sqrt returns the square root of x, correctly rounded to the decimal
// places of x. The root of raw*10^d is taken in the integer domain: a
// Newton iteration seeded from the bit-length table, capped at a fixed
// iteration count with an early convergence exit, then a final
// nearest-rounding step. Midpoints cannot occur ((2s+1)^2 is odd), so the
// result agrees with half-to-even.
func Sqrt(x fxnum.FxNum) (fxnum.FxNum, xerrors.XError) {
	if x.IsNeg() {
		return fxnum.FxNum{}, xerrors.ErrDomain.Wrapf("sqrt of negative %s", x.String())
	}
	d := x.Decimals()
	if x.IsZero() {
		return fxnum.Zero(d)
	}
	t, xerr := tableFor(workScale(d))
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	// V = raw*10^d, so that floor/round sqrt(V) is the result raw
	_, raw := x.Raw()
	v := new(uint256.Int).Mul(raw, fxnum.Pow10(d))

	g, xerr := t.seedFor(v.BitLen())
	if xerr != nil {
		return fxnum.FxNum{}, xerr
	}

	// the seed is >= sqrt(V), so the sequence decreases monotonically to
	// floor(sqrt(V)); the first non-decreasing step is convergence
	for i := 0; i < sqrtMaxIter; i++ {
		y := new(uint256.Int).Div(v, g)
		y.Add(y, g)
		y.Rsh(y, 1)
		if y.Cmp(g) >= 0 {
			break
		}
		g = y
	}

	// round to nearest: V > (s+1/2)^2 iff V-s^2 > s
	rem := new(uint256.Int).Mul(g, g)
	rem.Sub(v, rem)
	if rem.Cmp(g) > 0 {
		g.AddUint64(g, 1)
	}
	return fxnum.FromRaw(false, g, d)
}
