// ABOUTME: Tests for the linear resampler
// ABOUTME: Covers upsampling, downsampling, and the identity case
package resample

import "testing"

func TestResampleUpsampling(t *testing.T) {
	r := New(44100, 48000, 2)

	input := make([]int16, 200)
	for i := range input {
		input[i] = int16(i * 100)
	}

	output := r.Resample(input)
	if len(output) == 0 {
		t.Fatal("resampler produced no output")
	}

	expected := int(float64(len(input)) * 48000 / 44100)
	if len(output) < expected-20 || len(output) > expected+20 {
		t.Errorf("expected ~%d samples, got %d", expected, len(output))
	}

	allZero := true
	for _, s := range output {
		if s != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Error("output contains only zeros")
	}
}

func TestResampleDownsampling(t *testing.T) {
	r := New(48000, 44100, 2)

	input := make([]int16, 200)
	for i := range input {
		input[i] = int16(i * 100)
	}

	output := r.Resample(input)
	expected := int(float64(len(input)) * 44100 / 48000)
	if len(output) < expected-20 || len(output) > expected+20 {
		t.Errorf("expected ~%d samples, got %d", expected, len(output))
	}
}

func TestResampleSameRate(t *testing.T) {
	r := New(48000, 48000, 1)

	input := make([]int16, 100)
	for i := range input {
		input[i] = int16(i * 50)
	}

	output := r.Resample(input)
	if len(output) < len(input)-5 || len(output) > len(input)+5 {
		t.Errorf("expected ~%d samples, got %d", len(input), len(output))
	}
	for i := 0; i < len(output) && i < len(input); i++ {
		diff := int(output[i]) - int(input[i])
		if diff < -100 || diff > 100 {
			t.Errorf("sample %d: expected ~%d, got %d", i, input[i], output[i])
		}
	}
}

func TestResampleEmptyInput(t *testing.T) {
	r := New(44100, 48000, 2)
	if out := r.Resample(nil); out != nil {
		t.Errorf("expected nil output for empty input, got %d samples", len(out))
	}
}

func TestResampleReset(t *testing.T) {
	r := New(44100, 48000, 1)
	r.Resample(make([]int16, 100))
	r.Reset()
	if r.position != 0 {
		t.Errorf("expected position 0 after reset, got %f", r.position)
	}
}
