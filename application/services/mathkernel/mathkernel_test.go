package mathkernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mnemosyne/application/services/mathkernel"
)

func TestCosine_IdenticalVectorsIsOne(t *testing.T) {
	v := []float32{1, 2, 3}
	assert.InDelta(t, 1.0, mathkernel.Cosine(v, v), 1e-9)
}

func TestCosine_OrthogonalVectorsIsZero(t *testing.T) {
	assert.InDelta(t, 0.0, mathkernel.Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
}

func TestCosine_MismatchedLengthIsZero(t *testing.T) {
	assert.Equal(t, 0.0, mathkernel.Cosine([]float32{1, 2}, []float32{1}))
}

func TestCosine_ZeroMagnitudeIsZero(t *testing.T) {
	assert.Equal(t, 0.0, mathkernel.Cosine([]float32{0, 0}, []float32{1, 1}))
}

func TestMinMaxNormalize_SpreadsAcrossUnitInterval(t *testing.T) {
	out := mathkernel.MinMaxNormalize([]float64{10, 20, 30})
	assert.Equal(t, []float64{0, 0.5, 1}, out)
}

func TestMinMaxNormalize_AllEqualIsAllZero(t *testing.T) {
	out := mathkernel.MinMaxNormalize([]float64{5, 5, 5})
	assert.Equal(t, []float64{0, 0, 0}, out)
}

func TestMinMaxNormalize_SingleElement(t *testing.T) {
	assert.Equal(t, []float64{1}, mathkernel.MinMaxNormalize([]float64{7}))
	assert.Equal(t, []float64{0}, mathkernel.MinMaxNormalize([]float64{-7}))
}

func TestMinMaxNormalize_Empty(t *testing.T) {
	assert.Empty(t, mathkernel.MinMaxNormalize(nil))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, mathkernel.Clamp01(-1))
	assert.Equal(t, 1.0, mathkernel.Clamp01(2))
	assert.Equal(t, 0.4, mathkernel.Clamp01(0.4))
}

func TestClampRange(t *testing.T) {
	assert.Equal(t, 2.0, mathkernel.ClampRange(1, 2, 5))
	assert.Equal(t, 5.0, mathkernel.ClampRange(9, 2, 5))
	assert.Equal(t, 3.0, mathkernel.ClampRange(3, 2, 5))
}
