package analysis

import (
	"math"
	"testing"
)

func TestFFTConstant(t *testing.T) {
	fft := FFT([]float64{1, 1, 1, 1})
	if real(fft[0]) != 4 {
		t.Errorf("expected DC component 4, got %v", fft[0])
	}
	for i := 1; i < len(fft); i++ {
		if math.Abs(real(fft[i])) > 1e-12 || math.Abs(imag(fft[i])) > 1e-12 {
			t.Errorf("expected zero at bin %d, got %v", i, fft[i])
		}
	}
}

func TestPowerSpectrumPeak(t *testing.T) {
	const (
		n  = 256
		dt = 0.01
		f  = 12.5 // 32 cycles over the window, an exact bin
	)
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * f * float64(i) * dt)
	}

	ps := PowerSpectrum(data)
	got := DominantFrequency(ps, dt)
	if math.Abs(got-f) > 1e-9 {
		t.Errorf("expected dominant frequency %g, got %g", f, got)
	}
}

func TestPowerSpectrumIgnoresOffset(t *testing.T) {
	const n = 128
	data := make([]float64, n)
	for i := range data {
		data[i] = 100 + math.Sin(2*math.Pi*float64(i)*8/n)
	}

	ps := PowerSpectrum(data)
	maxIdx := 0
	for i := range ps {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}
	if maxIdx != 8 {
		t.Errorf("expected peak at bin 8, got %d", maxIdx)
	}
}

func TestDominantFrequencyDegenerate(t *testing.T) {
	if f := DominantFrequency(nil, 0.01); f != 0 {
		t.Errorf("expected 0 for empty spectrum, got %g", f)
	}
	if f := DominantFrequency([]float64{1, 2}, 0); f != 0 {
		t.Errorf("expected 0 for zero interval, got %g", f)
	}
}
