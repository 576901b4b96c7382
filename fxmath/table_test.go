package fxmath

import (
	"sync"
	"testing"

	fxnum "github.com/beatoz/fxnum-go"
	"github.com/beatoz/fxnum-go/types/xerrors"
	"github.com/stretchr/testify/require"
)

func Test_WorkScale(t *testing.T) {
	cases := []struct {
		d, w int32
	}{
		{0, 8},
		{4, 12},
		{7, 15},
		{18, 26},
		{28, 36},
		{30, 36}, // capped
		{36, 36},
		{37, 36}, // capped below the caller scale; rescaling back is exact
		{38, 36},
	}
	for _, c := range cases {
		require.Equal(t, c.w, workScale(c.d), "d=%d", c.d)
	}
}

func Test_TableConstants(t *testing.T) {
	tbl, xerr := tableFor(12)
	require.Nil(t, xerr)

	// reference digits: ln 2 = 0.693147180559945..., ln 10 = 2.302585092994045...
	require.Equal(t, "0.693147180560", tbl.ln2.String())
	require.Equal(t, "2.302585092994", tbl.ln10.String())

	// segment 0 anchors the exact point 1.0
	a0, s0, xerr := tbl.segment(0)
	require.Nil(t, xerr)
	require.True(t, a0.IsZero())
	one, _ := fxnum.One(12)
	require.True(t, s0.Equal(one))

	// segment 128 anchors 1.5 exactly; ln 1.5 = 0.405465108108164...
	a128, s128, xerr := tbl.segment(128)
	require.Nil(t, xerr)
	require.Equal(t, "0.405465108108", a128.String())
	// 1/1.5 = 0.666...667 rounded
	require.Equal(t, "0.666666666667", s128.String())

	// exp2[0] = 1, and the factors grow strictly toward 2
	e0, xerr := tbl.exp2At(0)
	require.Nil(t, xerr)
	require.True(t, e0.Equal(one))
	prev := e0
	for k := 1; k < segments; k++ {
		ek, xerr := tbl.exp2At(k)
		require.Nil(t, xerr)
		c, xerr := prev.Cmp(ek)
		require.Nil(t, xerr)
		require.Equal(t, -1, c, "exp2 not increasing at %d", k)
		prev = ek
	}
	// exp2[128] = sqrt(2) = 1.414213562373095...
	e128, xerr := tbl.exp2At(128)
	require.Nil(t, xerr)
	require.Equal(t, "1.414213562373", e128.String())
}

func Test_TableRangeChecks(t *testing.T) {
	tbl, xerr := tableFor(12)
	require.Nil(t, xerr)

	for _, k := range []int{-1, segments} {
		_, _, xerr := tbl.segment(k)
		require.NotNil(t, xerr)
		require.True(t, xerr.Contains(xerrors.ErrIndexOutOfRange))

		_, xerr = tbl.exp2At(k)
		require.NotNil(t, xerr)
		require.True(t, xerr.Contains(xerrors.ErrIndexOutOfRange))
	}

	_, xerr = tbl.seedFor(257)
	require.NotNil(t, xerr)
	require.True(t, xerr.Contains(xerrors.ErrIndexOutOfRange))

	seed, xerr := tbl.seedFor(0)
	require.Nil(t, xerr)
	require.Equal(t, uint64(1), seed.Uint64())

	seed, xerr = tbl.seedFor(4)
	require.Nil(t, xerr)
	// 2^((4+1)/2) = 4 covers sqrt of any 4-bit integer
	require.Equal(t, uint64(4), seed.Uint64())
}

// every function must stay usable at the top caller scales, where the
// working scale sits below the caller's: a 38-place table cannot exist
// (ln10 and the upper 2^(k/256) anchors would exceed 2^127-1)
func Test_TopScaleEvaluation(t *testing.T) {
	for _, d := range []int32{37, 38} {
		one, xerr := fxnum.One(d)
		require.Nil(t, xerr)

		s, xerr := Sqrt(one)
		require.Nil(t, xerr, "d=%d", d)
		require.True(t, s.Equal(one), "d=%d", d)

		lnv, xerr := Ln(one)
		require.Nil(t, xerr, "d=%d", d)
		require.True(t, lnv.IsZero(), "d=%d", d)

		zero, _ := fxnum.Zero(d)
		e, xerr := Exp(zero)
		require.Nil(t, xerr, "d=%d", d)
		require.True(t, e.Equal(one), "d=%d", d)
	}

	// values beyond one unit still reduce and evaluate
	lnv, xerr := Ln(mustFx(t, "1.5", 38))
	require.Nil(t, xerr)
	ref, xerr := Ln(mustFx(t, "1.5000000", 7))
	require.Nil(t, xerr)
	at7, xerr := lnv.Rescale(7)
	require.Nil(t, xerr)
	requireWithinUlps(t, ref, at7, 1)

	// exp agrees with the lower-scale evaluation after rescaling back
	hi, xerr := Exp(mustFx(t, "0.5", 38))
	require.Nil(t, xerr)
	lo, xerr := Exp(mustFx(t, "0.5000000", 7))
	require.Nil(t, xerr)
	hi7, xerr := hi.Rescale(7)
	require.Nil(t, xerr)
	requireWithinUlps(t, lo, hi7, 1)

	// sqrt(2) at 38 places fills most of the raw range without overflowing
	r, xerr := Sqrt(mustFx(t, "1.69", 38))
	require.Nil(t, xerr)
	require.Equal(t, "1.3", r.String()[:3])

	p, xerr := NormCDF(fxnum.MustParse("0", 38))
	require.Nil(t, xerr)
	half, xerr := fxnum.Parse("0.5", 38)
	require.Nil(t, xerr)
	require.True(t, p.Equal(half))
}

func Test_TableConcurrentFirstUse(t *testing.T) {
	const scale = int32(23) // a scale nothing else requests

	var wg sync.WaitGroup
	got := make([]*lookupTable, 32)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tbl, xerr := tableFor(scale)
			require.Nil(t, xerr)
			got[i] = tbl
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(got); i++ {
		require.Same(t, got[0], got[i])
	}
}
