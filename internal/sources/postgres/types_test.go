package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONColumn_ValueMarshalsToJSONString(t *testing.T) {
	col := JSONColumn[[]string]{Value: []string{"a", "b"}}
	v, err := col.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, v)
}

func TestJSONColumn_ScanFromBytesAndString(t *testing.T) {
	var fromBytes JSONColumn[[]string]
	require.NoError(t, fromBytes.Scan([]byte(`["x","y"]`)))
	assert.Equal(t, []string{"x", "y"}, fromBytes.Value)

	var fromString JSONColumn[[]string]
	require.NoError(t, fromString.Scan(`["z"]`))
	assert.Equal(t, []string{"z"}, fromString.Value)
}

func TestJSONColumn_ScanNilLeavesZeroValue(t *testing.T) {
	var col JSONColumn[[]string]
	require.NoError(t, col.Scan(nil))
	assert.Nil(t, col.Value)
}

func TestJSONColumn_ScanUnsupportedTypeErrors(t *testing.T) {
	var col JSONColumn[[]string]
	err := col.Scan(42)
	assert.Error(t, err)
}

func TestJSONColumn_RoundTripsThroughValueAndScan(t *testing.T) {
	col := JSONColumn[map[string]float64]{Value: map[string]float64{"a": 1.5}}
	v, err := col.Value()
	require.NoError(t, err)

	var out JSONColumn[map[string]float64]
	require.NoError(t, out.Scan(v))
	assert.Equal(t, col.Value, out.Value)
}

func TestStrSlice_WrapsValueDirectly(t *testing.T) {
	s := strSlice([]string{"brassica", "legume"})
	assert.Equal(t, []string{"brassica", "legume"}, s.Value)
}
