package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix_RejectsWrongLength(t *testing.T) {
	var _, err = NewMatrix([]float64{1, 2, 3}, 2, 2)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedMatrix)
}

func TestNewMatrix_Row(t *testing.T) {
	var m, err = NewMatrix([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3}, m.Row(0))
	assert.Equal(t, []float64{4, 5, 6}, m.Row(1))
}

func TestMatrix_Slice(t *testing.T) {
	var m, err = NewMatrix([]float64{1, 2, 3, 4, 5, 6}, 3, 2)
	require.NoError(t, err)

	var tail = m.Slice(1)

	assert.Equal(t, 2, tail.Rows())
	assert.Equal(t, []float64{3, 4}, tail.Row(0))
	assert.Equal(t, []float64{5, 6}, tail.Row(1))
}

func TestMatrix_Slice_PastEnd(t *testing.T) {
	var m, err = NewMatrix([]float64{1, 2, 3, 4}, 2, 2)
	require.NoError(t, err)

	var tail = m.Slice(5)

	assert.Equal(t, 0, tail.Rows())
	assert.Equal(t, 2, tail.Cols())
}

func TestMatrix_Slice_Zero(t *testing.T) {
	var m, err = NewMatrix([]float64{1, 2, 3, 4}, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, m, m.Slice(0))
}

func TestMatrix_DropLeadingColumn(t *testing.T) {
	var m, err = NewMatrix([]float64{
		10, 1, 2,
		10, 3, 4,
	}, 2, 3)
	require.NoError(t, err)

	var dropped, dropErr = m.DropLeadingColumn()
	require.NoError(t, dropErr)

	assert.Equal(t, 2, dropped.Cols())
	assert.Equal(t, []float64{1, 2}, dropped.Row(0))
	assert.Equal(t, []float64{3, 4}, dropped.Row(1))
}

func TestMatrix_DropLeadingColumn_TooFewColumns(t *testing.T) {
	var m, err = NewMatrix([]float64{1, 2}, 2, 1)
	require.NoError(t, err)

	var _, dropErr = m.DropLeadingColumn()

	require.Error(t, dropErr)
	assert.ErrorIs(t, dropErr, ErrMalformedMatrix)
}

func TestMatrix_downsample_EvenRows(t *testing.T) {
	var m, err = NewMatrix([]float64{0, 0, 2, 2, 4, 4, 6, 6}, 4, 2)
	require.NoError(t, err)

	var down = m.downsample()

	assert.Equal(t, 2, down.Rows())
	assert.Equal(t, []float64{1, 1}, down.Row(0))
	assert.Equal(t, []float64{5, 5}, down.Row(1))
}

func TestMatrix_downsample_OddRows(t *testing.T) {
	var m, err = NewMatrix([]float64{0, 0, 2, 2, 9, 9}, 3, 2)
	require.NoError(t, err)

	var down = m.downsample()

	assert.Equal(t, 2, down.Rows())
	assert.Equal(t, []float64{1, 1}, down.Row(0))
	assert.Equal(t, []float64{9, 9}, down.Row(1))
}

func TestEuclidean(t *testing.T) {
	assert.InDelta(t, 5.0, euclidean([]float64{0, 0}, []float64{3, 4}), 1e-9)
	assert.InDelta(t, 0.0, euclidean([]float64{1, 1}, []float64{1, 1}), 1e-9)
}
