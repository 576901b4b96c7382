package jsonx

import (
	"testing"

	fxnum "github.com/beatoz/fxnum-go"
	"github.com/stretchr/testify/require"
)

func Test_MarshalFxNum(t *testing.T) {
	v := fxnum.MustParse("-12.3450", 4)

	data, err := Marshal(v)
	require.NoError(t, err)
	require.Equal(t, `"-12.3450"`, string(data))

	var back fxnum.FxNum
	require.NoError(t, Unmarshal(data, &back))
	require.True(t, v.Equal(back))
}

func Test_MarshalStruct(t *testing.T) {
	type result struct {
		Op     string      `json:"op"`
		Result fxnum.FxNum `json:"result"`
	}

	data, err := Marshal(result{Op: "sqrt", Result: fxnum.MustParse("2.0000", 4)})
	require.NoError(t, err)
	require.Equal(t, `{"op":"sqrt","result":"2.0000"}`, string(data))
}

// Marshal is compact; only MarshalIndent spreads the output
func Test_MarshalIndent(t *testing.T) {
	v := map[string]string{"op": "sqrt"}

	flat, err := Marshal(v)
	require.NoError(t, err)
	require.NotContains(t, string(flat), "\n")

	wide, err := MarshalIndent(v, "", "  ")
	require.NoError(t, err)
	require.Contains(t, string(wide), "\n")
}
