// ABOUTME: Opus encoder wrapper owning one native encoder state
// ABOUTME: Handles PCM framing, packet buffers, and encoder CTLs
package opus

/*
#cgo pkg-config: opus
#include <opus.h>

// opus_encoder_ctl is variadic; these fixed-arity shims let Go drive
// every integer-valued CTL through two entry points.
static int goopus_enc_set(OpusEncoder *st, int request, opus_int32 value) {
	return opus_encoder_ctl(st, request, value);
}
static int goopus_enc_get(OpusEncoder *st, int request, opus_int32 *value) {
	return opus_encoder_ctl(st, request, value);
}
static int goopus_enc_get_uint(OpusEncoder *st, int request, opus_uint32 *value) {
	return opus_encoder_ctl(st, request, value);
}
static int goopus_enc_reset(OpusEncoder *st) {
	return opus_encoder_ctl(st, OPUS_RESET_STATE);
}
*/
import "C"

import (
	"sync"
	"unsafe"
)

// Encoder turns PCM frames into Opus packets. Create one with
// NewEncoder; the zero value is not usable.
type Encoder struct {
	mu       sync.Mutex
	st       *C.OpusEncoder
	mem      []byte // backing storage for st; kept alive until Close
	rate     int
	channels int
	out      []byte // scratch packet buffer, reused across calls
}

// NewEncoder creates an encoder for the given sample rate (Hz), channel
// count and application profile. Configuration is validated locally
// before the native state is initialized.
func NewEncoder(sampleRate, channels int, app Application) (*Encoder, error) {
	if !validSampleRate(sampleRate) {
		return nil, ErrUnsupportedSampleRate
	}
	if !validChannels(channels) {
		return nil, ErrUnsupportedChannels
	}
	if !validApplication(app) {
		return nil, ErrUnsupportedApp
	}

	e := &Encoder{
		mem:      make([]byte, C.opus_encoder_get_size(C.int(channels))),
		rate:     sampleRate,
		channels: channels,
		out:      make([]byte, maxPacketBytes),
	}
	e.st = (*C.OpusEncoder)(unsafe.Pointer(&e.mem[0]))

	rc := C.opus_encoder_init(e.st, C.opus_int32(sampleRate), C.int(channels), C.int(app))
	if rc != C.OPUS_OK {
		// State memory is Go-managed; nothing to release.
		return nil, Error(rc)
	}
	return e, nil
}

// SampleRate returns the rate the encoder was created with.
func (e *Encoder) SampleRate() int { return e.rate }

// Channels returns the channel count the encoder was created with.
func (e *Encoder) Channels() int { return e.channels }

// Encode compresses one frame of interleaved int16 PCM and returns the
// resulting packet. The frame must hold a whole number of samples per
// channel matching an accepted Opus duration.
func (e *Encoder) Encode(pcm []int16) ([]byte, error) {
	frameSize, err := e.checkFrame(len(pcm))
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st == nil {
		return nil, ErrClosed
	}

	n := C.opus_encode(e.st,
		(*C.opus_int16)(&pcm[0]), C.int(frameSize),
		(*C.uchar)(&e.out[0]), C.opus_int32(len(e.out)))
	if n < 0 {
		return nil, Error(n)
	}

	packet := make([]byte, int(n))
	copy(packet, e.out)
	return packet, nil
}

// EncodeFloat32 is Encode for float32 PCM in the range [-1, 1].
func (e *Encoder) EncodeFloat32(pcm []float32) ([]byte, error) {
	frameSize, err := e.checkFrame(len(pcm))
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st == nil {
		return nil, ErrClosed
	}

	n := C.opus_encode_float(e.st,
		(*C.float)(&pcm[0]), C.int(frameSize),
		(*C.uchar)(&e.out[0]), C.opus_int32(len(e.out)))
	if n < 0 {
		return nil, Error(n)
	}

	packet := make([]byte, int(n))
	copy(packet, e.out)
	return packet, nil
}

// checkFrame validates an interleaved sample count and returns the
// per-channel frame size.
func (e *Encoder) checkFrame(samples int) (int, error) {
	if samples == 0 || samples%e.channels != 0 {
		return 0, ErrInvalidFrameSize
	}
	frameSize := samples / e.channels
	if !validFrameSize(frameSize, e.rate) {
		return 0, ErrInvalidFrameSize
	}
	return frameSize, nil
}

// Close releases the encoder. Further calls fail with ErrClosed.
// Closing twice is a no-op.
func (e *Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.st = nil
	e.mem = nil
	e.out = nil
	return nil
}

// ResetState forgets all inter-frame encoder state, as if the encoder
// had just been created with the same configuration.
func (e *Encoder) ResetState() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st == nil {
		return ErrClosed
	}
	if rc := C.goopus_enc_reset(e.st); rc != C.OPUS_OK {
		return Error(rc)
	}
	return nil
}

func (e *Encoder) set(request C.int, value int32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st == nil {
		return ErrClosed
	}
	if rc := C.goopus_enc_set(e.st, request, C.opus_int32(value)); rc != C.OPUS_OK {
		return Error(rc)
	}
	return nil
}

func (e *Encoder) get(request C.int) (int32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st == nil {
		return 0, ErrClosed
	}
	var value C.opus_int32
	if rc := C.goopus_enc_get(e.st, request, &value); rc != C.OPUS_OK {
		return 0, Error(rc)
	}
	return int32(value), nil
}

func (e *Encoder) setBool(request C.int, on bool) error {
	var v int32
	if on {
		v = 1
	}
	return e.set(request, v)
}

func (e *Encoder) getBool(request C.int) (bool, error) {
	v, err := e.get(request)
	return v != 0, err
}

// SetBitrate sets the target bitrate in bits per second. Auto and
// BitrateMax are accepted.
func (e *Encoder) SetBitrate(bps int) error {
	return e.set(C.OPUS_SET_BITRATE_REQUEST, int32(bps))
}

// Bitrate returns the target bitrate in bits per second.
func (e *Encoder) Bitrate() (int, error) {
	v, err := e.get(C.OPUS_GET_BITRATE_REQUEST)
	return int(v), err
}

// SetComplexity sets the computational complexity, 0 (fastest) to 10 (best).
func (e *Encoder) SetComplexity(complexity int) error {
	return e.set(C.OPUS_SET_COMPLEXITY_REQUEST, int32(complexity))
}

// Complexity returns the computational complexity setting.
func (e *Encoder) Complexity() (int, error) {
	v, err := e.get(C.OPUS_GET_COMPLEXITY_REQUEST)
	return int(v), err
}

// SetVBR toggles variable bitrate coding. Off means hard CBR.
func (e *Encoder) SetVBR(on bool) error {
	return e.setBool(C.OPUS_SET_VBR_REQUEST, on)
}

// VBR reports whether variable bitrate coding is enabled.
func (e *Encoder) VBR() (bool, error) {
	return e.getBool(C.OPUS_GET_VBR_REQUEST)
}

// SetVBRConstraint toggles constrained VBR.
func (e *Encoder) SetVBRConstraint(on bool) error {
	return e.setBool(C.OPUS_SET_VBR_CONSTRAINT_REQUEST, on)
}

// VBRConstraint reports whether constrained VBR is enabled.
func (e *Encoder) VBRConstraint() (bool, error) {
	return e.getBool(C.OPUS_GET_VBR_CONSTRAINT_REQUEST)
}

// SetForceChannels forces mono (1) or stereo (2) coding, or Auto.
func (e *Encoder) SetForceChannels(channels int) error {
	return e.set(C.OPUS_SET_FORCE_CHANNELS_REQUEST, int32(channels))
}

// ForceChannels returns the forced channel setting.
func (e *Encoder) ForceChannels() (int, error) {
	v, err := e.get(C.OPUS_GET_FORCE_CHANNELS_REQUEST)
	return int(v), err
}

// SetMaxBandwidth caps the bandwidth the encoder may select.
func (e *Encoder) SetMaxBandwidth(bw Bandwidth) error {
	return e.set(C.OPUS_SET_MAX_BANDWIDTH_REQUEST, int32(bw))
}

// MaxBandwidth returns the configured bandwidth cap.
func (e *Encoder) MaxBandwidth() (Bandwidth, error) {
	v, err := e.get(C.OPUS_GET_MAX_BANDWIDTH_REQUEST)
	return Bandwidth(v), err
}

// SetBandwidth pins the coded bandwidth. BandwidthAuto restores the default.
func (e *Encoder) SetBandwidth(bw Bandwidth) error {
	return e.set(C.OPUS_SET_BANDWIDTH_REQUEST, int32(bw))
}

// Bandwidth returns the bandwidth the encoder is currently using.
func (e *Encoder) Bandwidth() (Bandwidth, error) {
	v, err := e.get(C.OPUS_GET_BANDWIDTH_REQUEST)
	return Bandwidth(v), err
}

// SetSignal hints the signal type being encoded.
func (e *Encoder) SetSignal(signal Signal) error {
	return e.set(C.OPUS_SET_SIGNAL_REQUEST, int32(signal))
}

// Signal returns the configured signal hint.
func (e *Encoder) Signal() (Signal, error) {
	v, err := e.get(C.OPUS_GET_SIGNAL_REQUEST)
	return Signal(v), err
}

// SetApplication switches the tuning profile on a live encoder.
func (e *Encoder) SetApplication(app Application) error {
	return e.set(C.OPUS_SET_APPLICATION_REQUEST, int32(app))
}

// Application returns the current tuning profile.
func (e *Encoder) Application() (Application, error) {
	v, err := e.get(C.OPUS_GET_APPLICATION_REQUEST)
	return Application(v), err
}

// Lookahead returns the encoder's algorithmic delay in samples.
func (e *Encoder) Lookahead() (int, error) {
	v, err := e.get(C.OPUS_GET_LOOKAHEAD_REQUEST)
	return int(v), err
}

// SetInbandFEC toggles in-band forward error correction.
func (e *Encoder) SetInbandFEC(on bool) error {
	return e.setBool(C.OPUS_SET_INBAND_FEC_REQUEST, on)
}

// InbandFEC reports whether in-band FEC is enabled.
func (e *Encoder) InbandFEC() (bool, error) {
	return e.getBool(C.OPUS_GET_INBAND_FEC_REQUEST)
}

// SetPacketLossPerc sets the expected packet loss percentage (0-100);
// higher values spend more bits on redundancy.
func (e *Encoder) SetPacketLossPerc(percent int) error {
	return e.set(C.OPUS_SET_PACKET_LOSS_PERC_REQUEST, int32(percent))
}

// PacketLossPerc returns the expected packet loss percentage.
func (e *Encoder) PacketLossPerc() (int, error) {
	v, err := e.get(C.OPUS_GET_PACKET_LOSS_PERC_REQUEST)
	return int(v), err
}

// SetDTX toggles discontinuous transmission (near-silent packets during
// silence).
func (e *Encoder) SetDTX(on bool) error {
	return e.setBool(C.OPUS_SET_DTX_REQUEST, on)
}

// DTX reports whether discontinuous transmission is enabled.
func (e *Encoder) DTX() (bool, error) {
	return e.getBool(C.OPUS_GET_DTX_REQUEST)
}

// SetLSBDepth tells the encoder the significant bit depth of the input
// signal (8-24).
func (e *Encoder) SetLSBDepth(depth int) error {
	return e.set(C.OPUS_SET_LSB_DEPTH_REQUEST, int32(depth))
}

// LSBDepth returns the configured input bit depth.
func (e *Encoder) LSBDepth() (int, error) {
	v, err := e.get(C.OPUS_GET_LSB_DEPTH_REQUEST)
	return int(v), err
}

// LastPacketDuration returns the duration, in samples, of the last
// packet the encoder produced.
func (e *Encoder) LastPacketDuration() (int, error) {
	v, err := e.get(C.OPUS_GET_LAST_PACKET_DURATION_REQUEST)
	return int(v), err
}

// SetExpertFrameDuration overrides the frame duration the encoder uses
// internally.
func (e *Encoder) SetExpertFrameDuration(d FrameDuration) error {
	return e.set(C.OPUS_SET_EXPERT_FRAME_DURATION_REQUEST, int32(d))
}

// ExpertFrameDuration returns the configured frame duration override.
func (e *Encoder) ExpertFrameDuration() (FrameDuration, error) {
	v, err := e.get(C.OPUS_GET_EXPERT_FRAME_DURATION_REQUEST)
	return FrameDuration(v), err
}

// SetPredictionDisabled toggles inter-frame prediction. Disabling it
// makes every packet independently decodable at a bitrate cost.
func (e *Encoder) SetPredictionDisabled(disabled bool) error {
	return e.setBool(C.OPUS_SET_PREDICTION_DISABLED_REQUEST, disabled)
}

// PredictionDisabled reports whether inter-frame prediction is disabled.
func (e *Encoder) PredictionDisabled() (bool, error) {
	return e.getBool(C.OPUS_GET_PREDICTION_DISABLED_REQUEST)
}

// Pitch returns the pitch period of the last analyzed frame, or 0 for
// unvoiced content.
func (e *Encoder) Pitch() (int, error) {
	v, err := e.get(C.OPUS_GET_PITCH_REQUEST)
	return int(v), err
}

// FinalRange returns the entropy coder's final range, for bit-exact
// cross-implementation testing.
func (e *Encoder) FinalRange() (uint32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st == nil {
		return 0, ErrClosed
	}
	var value C.opus_uint32
	if rc := C.goopus_enc_get_uint(e.st, C.OPUS_GET_FINAL_RANGE_REQUEST, &value); rc != C.OPUS_OK {
		return 0, Error(rc)
	}
	return uint32(value), nil
}
