// ABOUTME: WAV file reading and writing helpers for the CLI tools
// ABOUTME: Converts between WAV files and interleaved int16 sample slices
package wavio

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Audio is a fully-read PCM clip with interleaved samples.
type Audio struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

// Duration in whole milliseconds.
func (a *Audio) DurationMs() int {
	if a.SampleRate == 0 || a.Channels == 0 {
		return 0
	}
	return len(a.Samples) / a.Channels * 1000 / a.SampleRate
}

// ReadFile loads a 16-bit PCM WAV file.
func ReadFile(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, errors.New("wavio: not a valid WAV file")
	}
	if dec.BitDepth != 16 {
		return nil, fmt.Errorf("wavio: unsupported bit depth %d, expected 16", dec.BitDepth)
	}
	if dec.NumChans != 1 && dec.NumChans != 2 {
		return nil, fmt.Errorf("wavio: unsupported channel count %d", dec.NumChans)
	}

	out := &Audio{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
	}

	buf := &audio.IntBuffer{
		Data:   make([]int, 48000*int(dec.NumChans)),
		Format: &audio.Format{SampleRate: int(dec.SampleRate), NumChannels: int(dec.NumChans)},
	}
	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return nil, fmt.Errorf("wavio: reading samples: %w", err)
		}
		if n == 0 {
			break
		}
		for _, s := range buf.Data[:n] {
			out.Samples = append(out.Samples, int16(s))
		}
	}
	return out, nil
}

// WriteFile saves a clip as a 16-bit PCM WAV file.
func WriteFile(path string, a *Audio) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, a.SampleRate, 16, a.Channels, 1)

	buf := &audio.IntBuffer{
		Data:           make([]int, len(a.Samples)),
		Format:         &audio.Format{SampleRate: a.SampleRate, NumChannels: a.Channels},
		SourceBitDepth: 16,
	}
	for i, s := range a.Samples {
		buf.Data[i] = int(s)
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: writing samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio: finalizing file: %w", err)
	}
	return nil
}
