// ABOUTME: Opus decoder wrapper owning one native decoder state
// ABOUTME: Handles packet decoding, PLC, FEC, and decoder CTLs
package opus

/*
#cgo pkg-config: opus
#include <opus.h>

static int goopus_dec_set(OpusDecoder *st, int request, opus_int32 value) {
	return opus_decoder_ctl(st, request, value);
}
static int goopus_dec_get(OpusDecoder *st, int request, opus_int32 *value) {
	return opus_decoder_ctl(st, request, value);
}
static int goopus_dec_get_uint(OpusDecoder *st, int request, opus_uint32 *value) {
	return opus_decoder_ctl(st, request, value);
}
static int goopus_dec_reset(OpusDecoder *st) {
	return opus_decoder_ctl(st, OPUS_RESET_STATE);
}
*/
import "C"

import (
	"sync"
	"unsafe"
)

// Decoder turns Opus packets back into PCM frames. Create one with
// NewDecoder; the zero value is not usable.
type Decoder struct {
	mu       sync.Mutex
	st       *C.OpusDecoder
	mem      []byte
	rate     int
	channels int
	pcm      []int16   // scratch buffer sized for a 60ms frame
	pcmFloat []float32 // allocated on first float decode
}

// NewDecoder creates a decoder for the given sample rate (Hz) and
// channel count. Configuration is validated locally before the native
// state is initialized.
func NewDecoder(sampleRate, channels int) (*Decoder, error) {
	if !validSampleRate(sampleRate) {
		return nil, ErrUnsupportedSampleRate
	}
	if !validChannels(channels) {
		return nil, ErrUnsupportedChannels
	}

	d := &Decoder{
		mem:      make([]byte, C.opus_decoder_get_size(C.int(channels))),
		rate:     sampleRate,
		channels: channels,
		pcm:      make([]int16, maxFrameSize(sampleRate)*channels),
	}
	d.st = (*C.OpusDecoder)(unsafe.Pointer(&d.mem[0]))

	rc := C.opus_decoder_init(d.st, C.opus_int32(sampleRate), C.int(channels))
	if rc != C.OPUS_OK {
		return nil, Error(rc)
	}
	return d, nil
}

// SampleRate returns the rate the decoder was created with.
func (d *Decoder) SampleRate() int { return d.rate }

// Channels returns the channel count the decoder was created with.
func (d *Decoder) Channels() int { return d.channels }

// Decode decompresses one packet and returns the interleaved int16 PCM
// frame it carried.
func (d *Decoder) Decode(data []byte) ([]int16, error) {
	if len(data) == 0 {
		return nil, ErrInvalidPacket
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.decodeLocked(data, maxFrameSize(d.rate), false)
}

// DecodeFloat32 is Decode with float32 output in the range [-1, 1].
func (d *Decoder) DecodeFloat32(data []byte) ([]float32, error) {
	if len(data) == 0 {
		return nil, ErrInvalidPacket
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.decodeFloatLocked(data, maxFrameSize(d.rate), false)
}

// DecodePLC conceals one lost frame and returns frameSize samples per
// channel of synthesized audio. frameSize must match the duration of
// the missing packet.
func (d *Decoder) DecodePLC(frameSize int) ([]int16, error) {
	if !validFrameSize(frameSize, d.rate) {
		return nil, ErrInvalidFrameSize
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.decodeLocked(nil, frameSize, false)
}

// DecodeFEC recovers the previous (lost) frame from the redundancy
// embedded in data. frameSize must match the duration of the lost
// frame. The encoder must have had in-band FEC enabled for this to
// return anything better than concealment.
func (d *Decoder) DecodeFEC(data []byte, frameSize int) ([]int16, error) {
	if len(data) == 0 {
		return nil, ErrInvalidPacket
	}
	if !validFrameSize(frameSize, d.rate) {
		return nil, ErrInvalidFrameSize
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.decodeLocked(data, frameSize, true)
}

func (d *Decoder) decodeLocked(data []byte, frameSize int, fec bool) ([]int16, error) {
	if d.st == nil {
		return nil, ErrClosed
	}

	var in *C.uchar
	if len(data) > 0 {
		in = (*C.uchar)(&data[0])
	}
	var fecFlag C.int
	if fec {
		fecFlag = 1
	}

	n := C.opus_decode(d.st,
		in, C.opus_int32(len(data)),
		(*C.opus_int16)(&d.pcm[0]), C.int(frameSize), fecFlag)
	if n < 0 {
		return nil, Error(n)
	}

	out := make([]int16, int(n)*d.channels)
	copy(out, d.pcm)
	return out, nil
}

func (d *Decoder) decodeFloatLocked(data []byte, frameSize int, fec bool) ([]float32, error) {
	if d.st == nil {
		return nil, ErrClosed
	}
	if d.pcmFloat == nil {
		d.pcmFloat = make([]float32, maxFrameSize(d.rate)*d.channels)
	}

	var in *C.uchar
	if len(data) > 0 {
		in = (*C.uchar)(&data[0])
	}
	var fecFlag C.int
	if fec {
		fecFlag = 1
	}

	n := C.opus_decode_float(d.st,
		in, C.opus_int32(len(data)),
		(*C.float)(&d.pcmFloat[0]), C.int(frameSize), fecFlag)
	if n < 0 {
		return nil, Error(n)
	}

	out := make([]float32, int(n)*d.channels)
	copy(out, d.pcmFloat)
	return out, nil
}

// PacketSampleCount returns the number of samples per channel this
// decoder would produce for the packet, without decoding it.
func (d *Decoder) PacketSampleCount(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, ErrInvalidPacket
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.st == nil {
		return 0, ErrClosed
	}

	n := C.opus_decoder_get_nb_samples(d.st, (*C.uchar)(&data[0]), C.opus_int32(len(data)))
	if n < 0 {
		return 0, Error(n)
	}
	return int(n), nil
}

// Close releases the decoder. Further calls fail with ErrClosed.
// Closing twice is a no-op.
func (d *Decoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.st = nil
	d.mem = nil
	d.pcm = nil
	d.pcmFloat = nil
	return nil
}

// ResetState forgets all inter-frame decoder state.
func (d *Decoder) ResetState() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.st == nil {
		return ErrClosed
	}
	if rc := C.goopus_dec_reset(d.st); rc != C.OPUS_OK {
		return Error(rc)
	}
	return nil
}

// SetGain applies a playback gain to all decoded output, in Q8 dB
// units (256 = +1 dB).
func (d *Decoder) SetGain(gainQ8 int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.st == nil {
		return ErrClosed
	}
	if rc := C.goopus_dec_set(d.st, C.OPUS_SET_GAIN_REQUEST, C.opus_int32(gainQ8)); rc != C.OPUS_OK {
		return Error(rc)
	}
	return nil
}

// Gain returns the configured playback gain in Q8 dB units.
func (d *Decoder) Gain() (int, error) {
	v, err := d.get(C.OPUS_GET_GAIN_REQUEST)
	return int(v), err
}

// Bandwidth returns the bandwidth of the most recently decoded packet.
func (d *Decoder) Bandwidth() (Bandwidth, error) {
	v, err := d.get(C.OPUS_GET_BANDWIDTH_REQUEST)
	return Bandwidth(v), err
}

// Pitch returns the pitch period of the last decoded frame, or 0 for
// unvoiced content.
func (d *Decoder) Pitch() (int, error) {
	v, err := d.get(C.OPUS_GET_PITCH_REQUEST)
	return int(v), err
}

// LastPacketDuration returns the duration, in samples, of the last
// decoded packet.
func (d *Decoder) LastPacketDuration() (int, error) {
	v, err := d.get(C.OPUS_GET_LAST_PACKET_DURATION_REQUEST)
	return int(v), err
}

// FinalRange returns the entropy coder's final range for the last
// decoded packet.
func (d *Decoder) FinalRange() (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.st == nil {
		return 0, ErrClosed
	}
	var value C.opus_uint32
	if rc := C.goopus_dec_get_uint(d.st, C.OPUS_GET_FINAL_RANGE_REQUEST, &value); rc != C.OPUS_OK {
		return 0, Error(rc)
	}
	return uint32(value), nil
}

func (d *Decoder) get(request C.int) (int32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.st == nil {
		return 0, ErrClosed
	}
	var value C.opus_int32
	if rc := C.goopus_dec_get(d.st, request, &value); rc != C.OPUS_OK {
		return 0, Error(rc)
	}
	return int32(value), nil
}
