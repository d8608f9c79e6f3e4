// ABOUTME: Package documentation for the Opus codec binding
// ABOUTME: Describes the encoder/decoder lifecycle and error model
// Package opus is a cgo binding of the reference Opus codec library
// (libopus). It exposes the native encode/decode surface through two
// high-level types:
//   - Encoder: PCM frames in, Opus packets out
//   - Decoder: Opus packets in, PCM frames out (with PLC and FEC)
//
// plus packet inspection helpers and a Repacketizer for merging and
// splitting packets without re-encoding.
//
// Each Encoder and Decoder owns exactly one native codec state. The
// state lives in Go-managed memory and is initialized in place, so a
// failed constructor never leaks a native resource. After Close, every
// operation fails with ErrClosed; Close itself is idempotent.
//
// Frames must match one of the durations Opus accepts: 2.5, 5, 10, 20,
// 40 or 60 ms at the configured sample rate. Sample rates are limited
// to 8, 12, 16, 24 and 48 kHz and channel counts to 1 or 2. These are
// checked locally and rejected before any native call is made.
//
// Methods on a single Encoder or Decoder are safe for concurrent use
// (calls are serialized internally); distinct instances are fully
// independent.
//
// Example:
//
//	enc, err := opus.NewEncoder(48000, 1, opus.AppVoIP)
//	pcm := make([]int16, 960) // 20ms at 48kHz mono
//	packet, err := enc.Encode(pcm)
//
//	dec, err := opus.NewDecoder(48000, 1)
//	samples, err := dec.Decode(packet)
//
// Building requires libopus and its headers (pkg-config name "opus").
package opus
