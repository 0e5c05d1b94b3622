package analysis

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoPeriod is returned when a signal carries no oscillation.
var ErrNoPeriod = errors.New("no dominant period")

// PowerSpectrum returns the magnitude of the first half of the spectrum of
// the mean-removed signal. Bin k corresponds to frequency k/(len*dt).
func PowerSpectrum(signal []float64) []float64 {
	if len(signal) == 0 {
		return nil
	}
	mean := stat.Mean(signal, nil)
	centered := make([]float64, len(signal))
	for i, v := range signal {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	ps := make([]float64, len(coeffs)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantPeriod returns the period of the strongest non-constant component
// of a signal sampled every dt.
func DominantPeriod(signal []float64, dt float64) (float64, error) {
	if len(signal) < 4 {
		return 0, fmt.Errorf("%w: need at least 4 samples, got %d", ErrNoPeriod, len(signal))
	}
	if !(dt > 0) {
		return 0, fmt.Errorf("sample spacing must be positive, got %g", dt)
	}

	ps := PowerSpectrum(signal)
	k := floats.MaxIdx(ps[1:]) + 1
	if ps[k] <= 1e-12*floats.Norm(signal, 2) {
		return 0, ErrNoPeriod
	}
	return float64(len(signal)) * dt / float64(k), nil
}
