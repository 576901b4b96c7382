package fxnum

import (
	"github.com/beatoz/fxnum-go/types/xerrors"
	"github.com/robaho/fixed"
	"github.com/shopspring/decimal"
)

// fixedScaleDigits is the scale hard-wired into robaho/fixed.
const fixedScaleDigits = int32(7)

// ToDecimal converts the value to a shopspring/decimal.Decimal exactly.
func (x FxNum) ToDecimal() decimal.Decimal {
	_, abs := x.Raw()
	big := abs.ToBig()
	if x.neg {
		big.Neg(big)
	}
	return decimal.NewFromBigInt(big, -x.decimals)
}

// FromDecimal converts a shopspring/decimal.Decimal to the given decimal
// places, rounding half-to-even like every other narrowing.
func FromDecimal(d decimal.Decimal, decimals int32) (FxNum, xerrors.XError) {
	// shopspring renders without exponent notation, so the canonical
	// parser covers the whole domain
	return Parse(d.String(), decimals)
}

// ToFixed converts the value to a robaho/fixed.Fixed (7-place scale).
func (x FxNum) ToFixed() (fixed.Fixed, xerrors.XError) {
	at7, xerr := x.Rescale(fixedScaleDigits)
	if xerr != nil {
		return fixed.ZERO, xerr
	}
	f, err := fixed.NewSErr(at7.String())
	if err != nil {
		return fixed.ZERO, xerrors.ErrOverflow.Wrap(err)
	}
	return f, nil
}

// FromFixed converts a robaho/fixed.Fixed to the given decimal places.
func FromFixed(f fixed.Fixed, decimals int32) (FxNum, xerrors.XError) {
	if f.IsNaN() {
		return FxNum{}, xerrors.ErrParse.Wrapf("NaN has no fixed-point form")
	}
	return Parse(f.String(), decimals)
}
