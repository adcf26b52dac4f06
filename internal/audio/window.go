package audio

import "math"

// WindowFn names a tapering function applied to each STFT frame.
type WindowFn string

const (
	WindowHann    WindowFn = "hann"
	WindowHamming WindowFn = "hamming"
	WindowRect    WindowFn = "rect"
)

// window materializes the taper as n coefficients.
func (w WindowFn) window(n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = 1
		return out
	}
	switch w {
	case WindowHamming:
		for i := range out {
			out[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		}
	case WindowRect:
		for i := range out {
			out[i] = 1
		}
	default: // hann
		for i := range out {
			out[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		}
	}
	return out
}
