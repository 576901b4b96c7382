package fxmath

import (
	"testing"

	fxnum "github.com/beatoz/fxnum-go"
	"github.com/beatoz/fxnum-go/types/xerrors"
	"github.com/stretchr/testify/require"
)

func Test_Exp(t *testing.T) {
	cases := []struct {
		in, out string
		d       int32
	}{
		{"0.0000000", "1.0000000", 7},
		{"1.0000000", "2.7182818", 7},
		{"-1.0000000", "0.3678794", 7},
		{"0.6931472", "2.0000000", 7}, // ln2 rounded at 7 places
		{"2.0000", "7.3891", 4},
		{"10.0000", "22026.4658", 4},
	}
	for _, c := range cases {
		got, xerr := Exp(mustFx(t, c.in, c.d))
		require.Nil(t, xerr, c.in)
		require.Equal(t, c.out, got.String(), "exp(%s)", c.in)
	}
}

func Test_ExpOverflow(t *testing.T) {
	// at 4 places the ceiling is ln(2^127) - 4*ln(10), about 78.8
	_, xerr := Exp(mustFx(t, "100.0000", 4))
	require.NotNil(t, xerr)
	require.True(t, xerr.Contains(xerrors.ErrOverflow))

	_, xerr = Exp(mustFx(t, "79.0000", 4))
	require.NotNil(t, xerr)
	require.True(t, xerr.Contains(xerrors.ErrOverflow))

	// just under the ceiling still evaluates
	big, xerr := Exp(mustFx(t, "78.0000", 4))
	require.Nil(t, xerr)
	require.False(t, big.IsZero())
}

func Test_ExpUnderflow(t *testing.T) {
	for _, s := range []string{"-100.0000", "-95.0000", "-50.0000"} {
		got, xerr := Exp(mustFx(t, s, 4))
		require.Nil(t, xerr, s)
		require.True(t, got.IsZero(), "exp(%s) = %s", s, got)
		require.False(t, got.IsNeg())
	}

	// the smallest positive result before underflow
	tiny, xerr := Exp(mustFx(t, "-9.0000", 4))
	require.Nil(t, xerr)
	require.Equal(t, "0.0001", tiny.String())
}

func Test_ExpMonotone(t *testing.T) {
	prev, xerr := Exp(mustFx(t, "-3.0000000", 7))
	require.Nil(t, xerr)
	for i := -29; i <= 30; i++ {
		x, xerr := fxnum.New(int64(i)*1_000_000, 7) // steps of 0.1
		require.Nil(t, xerr)
		cur, xerr := Exp(x)
		require.Nil(t, xerr)
		c, xerr := prev.Cmp(cur)
		require.Nil(t, xerr)
		require.True(t, c < 0, "exp not increasing at %s", x)
		prev = cur
	}
}

// exp(x+y) = exp(x)*exp(y) within a couple of units
func Test_ExpSumRule(t *testing.T) {
	x := mustFx(t, "1.2500000", 7)
	y := mustFx(t, "0.7300000", 7)

	sum, xerr := x.Add(y)
	require.Nil(t, xerr)
	whole, xerr := Exp(sum)
	require.Nil(t, xerr)

	ex, xerr := Exp(x)
	require.Nil(t, xerr)
	ey, xerr := Exp(y)
	require.Nil(t, xerr)
	prod, xerr := ex.Mul(ey)
	require.Nil(t, xerr)

	requireWithinUlps(t, whole, prod, 5)
}

// ln(exp(x)) must land within a couple of units of x. The bound holds when
// exp(x) >= 1, where the rounding of the intermediate stays small relative
// to its magnitude.
func Test_LnExpRoundTrip(t *testing.T) {
	for _, s := range []string{
		"-0.0000001", "0.0000000", "0.5000000", "3.1415927", "20.0000000",
	} {
		x := mustFx(t, s, 7)
		ex, xerr := Exp(x)
		require.Nil(t, xerr, s)
		back, xerr := Ln(ex)
		require.Nil(t, xerr, s)
		requireWithinUlps(t, x, back, 2, "ln(exp(%s))", s)
	}
}

func Benchmark_Exp(b *testing.B) {
	x := fxnum.MustParse("12.3456789012345", 13)
	for i := 0; i < b.N; i++ {
		_, _ = Exp(x)
	}
}
