// ABOUTME: Stateless Opus packet inspection helpers
// ABOUTME: Reads bandwidth, channel count, and frame layout from packet headers
package opus

/*
#cgo pkg-config: opus
#include <opus.h>
*/
import "C"

import "time"

// PacketBandwidth returns the coded bandwidth of a packet.
func PacketBandwidth(data []byte) (Bandwidth, error) {
	if len(data) == 0 {
		return 0, ErrInvalidPacket
	}
	v := C.opus_packet_get_bandwidth((*C.uchar)(&data[0]))
	if v < 0 {
		return 0, Error(v)
	}
	return Bandwidth(v), nil
}

// PacketChannels returns the channel count a packet was coded with.
func PacketChannels(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, ErrInvalidPacket
	}
	v := C.opus_packet_get_nb_channels((*C.uchar)(&data[0]))
	if v < 0 {
		return 0, Error(v)
	}
	return int(v), nil
}

// PacketSamplesPerFrame returns the samples per frame a packet carries
// when decoded at the given sample rate.
func PacketSamplesPerFrame(data []byte, sampleRate int) (int, error) {
	if len(data) == 0 {
		return 0, ErrInvalidPacket
	}
	if !validSampleRate(sampleRate) {
		return 0, ErrUnsupportedSampleRate
	}
	v := C.opus_packet_get_samples_per_frame((*C.uchar)(&data[0]), C.opus_int32(sampleRate))
	if v < 0 {
		return 0, Error(v)
	}
	return int(v), nil
}

// PacketFrameCount returns the number of frames in a packet.
func PacketFrameCount(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, ErrInvalidPacket
	}
	v := C.opus_packet_get_nb_frames((*C.uchar)(&data[0]), C.opus_int32(len(data)))
	if v < 0 {
		return 0, Error(v)
	}
	return int(v), nil
}

// PacketSampleCount returns the total samples per channel a packet
// decodes to at the given sample rate.
func PacketSampleCount(data []byte, sampleRate int) (int, error) {
	if len(data) == 0 {
		return 0, ErrInvalidPacket
	}
	if !validSampleRate(sampleRate) {
		return 0, ErrUnsupportedSampleRate
	}
	v := C.opus_packet_get_nb_samples((*C.uchar)(&data[0]), C.opus_int32(len(data)), C.opus_int32(sampleRate))
	if v < 0 {
		return 0, Error(v)
	}
	return int(v), nil
}

// PacketDuration returns the playback duration of a packet.
func PacketDuration(data []byte) (time.Duration, error) {
	// Sample count at 48kHz is duration-exact for every packet.
	n, err := PacketSampleCount(data, 48000)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Second / 48000, nil
}

// SoftClipper smoothly limits float PCM to [-1, 1], avoiding the hard
// clipping distortion that plain truncation to int16 would produce. It
// carries a little state per channel, so use one per stream.
type SoftClipper struct {
	channels int
	mem      []float32
}

// NewSoftClipper creates a soft clipper for the given channel count.
func NewSoftClipper(channels int) (*SoftClipper, error) {
	if !validChannels(channels) {
		return nil, ErrUnsupportedChannels
	}
	return &SoftClipper{
		channels: channels,
		mem:      make([]float32, channels),
	}, nil
}

// Apply soft-clips one interleaved frame in place.
func (s *SoftClipper) Apply(pcm []float32) error {
	if len(pcm) == 0 || len(pcm)%s.channels != 0 {
		return ErrInvalidFrameSize
	}
	C.opus_pcm_soft_clip(
		(*C.float)(&pcm[0]), C.int(len(pcm)/s.channels),
		C.int(s.channels), (*C.float)(&s.mem[0]))
	return nil
}

// Reset clears the clipper's inter-frame state.
func (s *SoftClipper) Reset() {
	for i := range s.mem {
		s.mem[i] = 0
	}
}
