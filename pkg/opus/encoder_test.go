// ABOUTME: Tests for the Opus encoder wrapper
// ABOUTME: Covers creation, validation, encoding, CTLs, and close semantics
package opus

import (
	"errors"
	"testing"
)

func TestNewEncoder(t *testing.T) {
	enc, err := NewEncoder(48000, 2, AppAudio)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}

	if enc.SampleRate() != 48000 {
		t.Errorf("expected sample rate 48000, got %d", enc.SampleRate())
	}
	if enc.Channels() != 2 {
		t.Errorf("expected 2 channels, got %d", enc.Channels())
	}
}

func TestNewEncoderAllSupportedRates(t *testing.T) {
	rates := []int{8000, 12000, 16000, 24000, 48000}
	for _, rate := range rates {
		for channels := 1; channels <= 2; channels++ {
			if _, err := NewEncoder(rate, channels, AppVoIP); err != nil {
				t.Errorf("encoder at %dHz/%dch failed: %v", rate, channels, err)
			}
		}
	}
}

func TestNewEncoderInvalidSampleRate(t *testing.T) {
	_, err := NewEncoder(44100, 2, AppAudio)
	if !errors.Is(err, ErrUnsupportedSampleRate) {
		t.Fatalf("expected ErrUnsupportedSampleRate for 44100, got %v", err)
	}
}

func TestNewEncoderInvalidChannels(t *testing.T) {
	// 3 channels is rejected locally, before any native call
	_, err := NewEncoder(48000, 3, AppAudio)
	if !errors.Is(err, ErrUnsupportedChannels) {
		t.Fatalf("expected ErrUnsupportedChannels for 3 channels, got %v", err)
	}
}

func TestNewEncoderInvalidApplication(t *testing.T) {
	_, err := NewEncoder(48000, 2, Application(12345))
	if !errors.Is(err, ErrUnsupportedApp) {
		t.Fatalf("expected ErrUnsupportedApp, got %v", err)
	}
}

func TestEncodeSilence(t *testing.T) {
	enc, err := NewEncoder(48000, 1, AppVoIP)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}

	// 20ms of silence at 48kHz mono
	pcm := make([]int16, 960)
	packet, err := enc.Encode(pcm)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if len(packet) == 0 {
		t.Fatal("expected non-empty packet for silence")
	}
}

func TestEncodeAllFrameDurations(t *testing.T) {
	enc, err := NewEncoder(48000, 2, AppAudio)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}

	// Samples per channel for 2.5/5/10/20/40/60 ms at 48kHz
	frameSizes := []int{120, 240, 480, 960, 1920, 2880}
	for _, size := range frameSizes {
		pcm := make([]int16, size*2)
		for i := range pcm {
			pcm[i] = int16(i % 500)
		}
		packet, err := enc.Encode(pcm)
		if err != nil {
			t.Errorf("frame size %d failed: %v", size, err)
			continue
		}
		if len(packet) == 0 {
			t.Errorf("frame size %d produced empty packet", size)
		}
	}
}

func TestEncodeInvalidFrameSize(t *testing.T) {
	enc, err := NewEncoder(48000, 1, AppVoIP)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}

	for _, n := range []int{0, 1, 100, 959, 961, 5000} {
		if _, err := enc.Encode(make([]int16, n)); !errors.Is(err, ErrInvalidFrameSize) {
			t.Errorf("expected ErrInvalidFrameSize for %d samples, got %v", n, err)
		}
	}
}

func TestEncodeOddStereoLength(t *testing.T) {
	enc, err := NewEncoder(48000, 2, AppAudio)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}

	// 961 int16 values cannot be an interleaved stereo frame
	if _, err := enc.Encode(make([]int16, 961)); !errors.Is(err, ErrInvalidFrameSize) {
		t.Fatalf("expected ErrInvalidFrameSize for odd stereo input, got %v", err)
	}
}

func TestEncodeFloat32(t *testing.T) {
	enc, err := NewEncoder(48000, 1, AppAudio)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}

	pcm := make([]float32, 960)
	for i := range pcm {
		pcm[i] = float32(i%100) / 200.0
	}
	packet, err := enc.EncodeFloat32(pcm)
	if err != nil {
		t.Fatalf("float encode failed: %v", err)
	}
	if len(packet) == 0 {
		t.Fatal("expected non-empty packet")
	}
}

func TestEncodeAfterClose(t *testing.T) {
	enc, err := NewEncoder(48000, 1, AppVoIP)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}

	if _, err := enc.Encode(make([]int16, 960)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from Encode, got %v", err)
	}
	if err := enc.SetBitrate(64000); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from SetBitrate, got %v", err)
	}
	if _, err := enc.Bitrate(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from Bitrate, got %v", err)
	}
}

func TestEncoderBitrate(t *testing.T) {
	enc, err := NewEncoder(48000, 2, AppAudio)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}

	if err := enc.SetBitrate(96000); err != nil {
		t.Fatalf("set bitrate failed: %v", err)
	}
	got, err := enc.Bitrate()
	if err != nil {
		t.Fatalf("get bitrate failed: %v", err)
	}
	if got != 96000 {
		t.Errorf("expected bitrate 96000, got %d", got)
	}

	if err := enc.SetBitrate(-42); err == nil {
		t.Error("expected error for nonsense bitrate")
	}
}

func TestEncoderComplexity(t *testing.T) {
	enc, err := NewEncoder(48000, 1, AppVoIP)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}

	if err := enc.SetComplexity(3); err != nil {
		t.Fatalf("set complexity failed: %v", err)
	}
	got, err := enc.Complexity()
	if err != nil {
		t.Fatalf("get complexity failed: %v", err)
	}
	if got != 3 {
		t.Errorf("expected complexity 3, got %d", got)
	}

	if err := enc.SetComplexity(11); err == nil {
		t.Error("expected error for complexity out of range")
	}
}

func TestEncoderBoolCTLs(t *testing.T) {
	enc, err := NewEncoder(48000, 1, AppVoIP)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}

	cases := []struct {
		name string
		set  func(bool) error
		get  func() (bool, error)
	}{
		{"vbr", enc.SetVBR, enc.VBR},
		{"vbr constraint", enc.SetVBRConstraint, enc.VBRConstraint},
		{"inband fec", enc.SetInbandFEC, enc.InbandFEC},
		{"dtx", enc.SetDTX, enc.DTX},
		{"prediction disabled", enc.SetPredictionDisabled, enc.PredictionDisabled},
	}

	for _, c := range cases {
		for _, want := range []bool{true, false} {
			if err := c.set(want); err != nil {
				t.Errorf("%s: set %v failed: %v", c.name, want, err)
				continue
			}
			got, err := c.get()
			if err != nil {
				t.Errorf("%s: get failed: %v", c.name, err)
				continue
			}
			if got != want {
				t.Errorf("%s: expected %v, got %v", c.name, want, got)
			}
		}
	}
}

func TestEncoderPacketLossPerc(t *testing.T) {
	enc, err := NewEncoder(48000, 1, AppVoIP)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}

	if err := enc.SetPacketLossPerc(20); err != nil {
		t.Fatalf("set packet loss failed: %v", err)
	}
	got, err := enc.PacketLossPerc()
	if err != nil {
		t.Fatalf("get packet loss failed: %v", err)
	}
	if got != 20 {
		t.Errorf("expected 20, got %d", got)
	}
}

func TestEncoderApplicationAndSignal(t *testing.T) {
	enc, err := NewEncoder(48000, 2, AppVoIP)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}

	app, err := enc.Application()
	if err != nil {
		t.Fatalf("get application failed: %v", err)
	}
	if app != AppVoIP {
		t.Errorf("expected %v, got %v", AppVoIP, app)
	}

	if err := enc.SetApplication(AppAudio); err != nil {
		t.Fatalf("set application failed: %v", err)
	}
	app, err = enc.Application()
	if err != nil {
		t.Fatalf("get application failed: %v", err)
	}
	if app != AppAudio {
		t.Errorf("expected %v after set, got %v", AppAudio, app)
	}

	if err := enc.SetSignal(SignalMusic); err != nil {
		t.Fatalf("set signal failed: %v", err)
	}
	sig, err := enc.Signal()
	if err != nil {
		t.Fatalf("get signal failed: %v", err)
	}
	if sig != SignalMusic {
		t.Errorf("expected music signal, got %v", sig)
	}
}

func TestEncoderLookahead(t *testing.T) {
	enc, err := NewEncoder(48000, 1, AppVoIP)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}

	lookahead, err := enc.Lookahead()
	if err != nil {
		t.Fatalf("get lookahead failed: %v", err)
	}
	if lookahead <= 0 {
		t.Errorf("expected positive lookahead, got %d", lookahead)
	}
}

func TestEncoderLastPacketDuration(t *testing.T) {
	enc, err := NewEncoder(48000, 1, AppVoIP)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}

	if _, err := enc.Encode(make([]int16, 960)); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	dur, err := enc.LastPacketDuration()
	if err != nil {
		t.Fatalf("get last packet duration failed: %v", err)
	}
	if dur != 960 {
		t.Errorf("expected last packet duration 960, got %d", dur)
	}
}

func TestEncoderResetState(t *testing.T) {
	enc, err := NewEncoder(48000, 1, AppVoIP)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}

	if _, err := enc.Encode(make([]int16, 960)); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if err := enc.ResetState(); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if _, err := enc.Encode(make([]int16, 960)); err != nil {
		t.Fatalf("encode after reset failed: %v", err)
	}
}

func TestEncoderFinalRange(t *testing.T) {
	enc, err := NewEncoder(48000, 1, AppVoIP)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}

	pcm := make([]int16, 960)
	for i := range pcm {
		pcm[i] = int16(i * 13)
	}
	if _, err := enc.Encode(pcm); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	fr, err := enc.FinalRange()
	if err != nil {
		t.Fatalf("get final range failed: %v", err)
	}
	if fr == 0 {
		t.Error("expected non-zero final range after encoding")
	}
}
