package fxmath

import (
	"testing"

	fxnum "github.com/beatoz/fxnum-go"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

// requireWithinUlps asserts |got-want| <= ulps at the operands' scale.
func requireWithinUlps(t *testing.T, want, got fxnum.FxNum, ulps uint64, msgArgs ...interface{}) {
	t.Helper()
	diff, xerr := want.Sub(got)
	require.Nil(t, xerr, msgArgs...)
	_, abs := diff.Abs().Raw()
	require.True(t, abs.Cmp(uint256.NewInt(ulps)) <= 0,
		"want %s got %s: off by %s raw units", want, got, abs.Dec())
}

func mustFx(t *testing.T, s string, d int32) fxnum.FxNum {
	t.Helper()
	v, xerr := fxnum.Parse(s, d)
	require.Nil(t, xerr)
	return v
}
