package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of a power-of-two length
// series by radix-2 decimation.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum pads the series to a power of two, removes its mean and
// returns the magnitude of the positive-frequency half of its transform.
// Removing the mean keeps the zero-frequency bin from swamping the signal
// when the input is a nearly conserved energy trace.
func PowerSpectrum(data []float64) []float64 {
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	if len(data) > 0 {
		mean /= float64(len(data))
	}

	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	fft := FFT(padded)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// DominantFrequency locates the strongest nonzero bin of a power spectrum
// and converts it to a frequency, given the sampling interval of the
// original series and its padded length (twice the spectrum length).
func DominantFrequency(ps []float64, sampleInterval float64) float64 {
	if len(ps) < 2 || sampleInterval <= 0 {
		return 0
	}
	maxIdx := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}
	n := 2 * len(ps)
	return float64(maxIdx) / (float64(n) * sampleInterval)
}
