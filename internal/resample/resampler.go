// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Brings arbitrary input rates to an Opus-supported rate
package resample

// Resampler performs linear interpolation between sample rates. It is
// good enough for bringing 44.1kHz material to 48kHz ahead of the
// encoder; it is not a brick-wall resampler.
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
}

// New creates a resampler converting interleaved int16 audio from
// inputRate to outputRate.
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample converts the whole input to the output rate and returns the
// converted samples.
func (r *Resampler) Resample(input []int16) []int16 {
	if len(input) == 0 {
		return nil
	}

	inputFrames := len(input) / r.channels
	outputFrames := int(float64(inputFrames) / r.ratio)
	output := make([]int16, 0, outputFrames*r.channels)

	pos := r.position
	for {
		inputIdx := int(pos)
		if inputIdx >= inputFrames-1 {
			break
		}
		frac := pos - float64(inputIdx)

		for ch := 0; ch < r.channels; ch++ {
			s1 := float64(input[inputIdx*r.channels+ch])
			s2 := float64(input[(inputIdx+1)*r.channels+ch])
			output = append(output, int16(s1*(1.0-frac)+s2*frac))
		}
		pos += r.ratio
	}

	// Carry the fractional position into the next chunk
	r.position = pos - float64(inputFrames-1)
	if r.position < 0 {
		r.position = 0
	}
	return output
}

// Reset clears the inter-chunk position state.
func (r *Resampler) Reset() {
	r.position = 0
}
