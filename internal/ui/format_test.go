package ui

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormattersDegradeOnNonFiniteInput(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.Equal(t, placeholder, fmtFloat(v, 2))
		assert.Equal(t, placeholder, fmtSignedPct(v))
		assert.Equal(t, placeholder, fmtPct(v))
		assert.Equal(t, placeholder, fmtLatency(v))
		assert.Equal(t, placeholder, fmtPrice(v))
		assert.Equal(t, placeholder, fmtSize(v))
	}
}

func TestFmtSignedPct(t *testing.T) {
	assert.Equal(t, "+0.1200%", fmtSignedPct(0.12))
	assert.Equal(t, "-0.4500%", fmtSignedPct(-0.45))
	assert.Equal(t, "+0.0000%", fmtSignedPct(0))
}

func TestFmtLatency(t *testing.T) {
	assert.Equal(t, "12ms", fmtLatency(12.3))
	assert.Equal(t, "13ms", fmtLatency(12.6))
	assert.Equal(t, "0ms", fmtLatency(0))
}

func TestFmtRuntime(t *testing.T) {
	assert.Equal(t, "42s", fmtRuntime(42))
	assert.Equal(t, "5m12s", fmtRuntime(312))
	assert.Equal(t, "2h05m", fmtRuntime(7500))
	assert.Equal(t, placeholder, fmtRuntime(-1))
}

func TestFmtPrice(t *testing.T) {
	assert.Equal(t, "50123.45", fmtPrice(50123.449))
	assert.Equal(t, "0.0421", fmtPrice(0.04211))
}
