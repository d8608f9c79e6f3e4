// ABOUTME: Opus repacketizer wrapper for merging and splitting packets
// ABOUTME: Re-frames encoded packets without decoding or re-encoding
package opus

/*
#cgo pkg-config: opus
#include <opus.h>
*/
import "C"

import (
	"sync"
	"unsafe"
)

// Repacketizer merges consecutive Opus packets into one, or splits a
// multi-frame packet apart, without touching the audio itself. All
// input packets must share mode, bandwidth, frame size and channel
// count, and a merged packet may not exceed 120 ms.
type Repacketizer struct {
	mu      sync.Mutex
	rp      *C.OpusRepacketizer
	mem     []byte
	packets [][]byte // native state references input packets until Out
}

// NewRepacketizer creates an empty repacketizer.
func NewRepacketizer() *Repacketizer {
	r := &Repacketizer{
		mem: make([]byte, C.opus_repacketizer_get_size()),
	}
	r.rp = C.opus_repacketizer_init((*C.OpusRepacketizer)(unsafe.Pointer(&r.mem[0])))
	return r
}

// Add appends a packet to the current assembly. The packet is copied,
// so the caller may reuse its buffer.
func (r *Repacketizer) Add(packet []byte) error {
	if len(packet) == 0 {
		return ErrInvalidPacket
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rp == nil {
		return ErrClosed
	}

	// The native state keeps pointers into the packet until the next
	// init, so hold our copy alive alongside it.
	p := make([]byte, len(packet))
	copy(p, packet)

	rc := C.opus_repacketizer_cat(r.rp, (*C.uchar)(&p[0]), C.opus_int32(len(p)))
	if rc != C.OPUS_OK {
		return Error(rc)
	}
	r.packets = append(r.packets, p)
	return nil
}

// FrameCount returns the number of frames accumulated so far.
func (r *Repacketizer) FrameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rp == nil {
		return 0
	}
	return int(C.opus_repacketizer_get_nb_frames(r.rp))
}

// Out assembles everything added so far into a single packet.
func (r *Repacketizer) Out() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rp == nil {
		return nil, ErrClosed
	}

	out := make([]byte, r.outCapLocked())
	n := C.opus_repacketizer_out(r.rp, (*C.uchar)(&out[0]), C.opus_int32(len(out)))
	if n < 0 {
		return nil, Error(n)
	}
	return out[:int(n)], nil
}

// OutRange assembles frames [begin, end) into a single packet.
func (r *Repacketizer) OutRange(begin, end int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rp == nil {
		return nil, ErrClosed
	}

	out := make([]byte, r.outCapLocked())
	n := C.opus_repacketizer_out_range(r.rp, C.int(begin), C.int(end),
		(*C.uchar)(&out[0]), C.opus_int32(len(out)))
	if n < 0 {
		return nil, Error(n)
	}
	return out[:int(n)], nil
}

// outCapLocked sizes the output buffer: the merged packet can never
// exceed the input bytes plus per-frame TOC overhead.
func (r *Repacketizer) outCapLocked() int {
	total := 256
	for _, p := range r.packets {
		total += len(p) + 2
	}
	return total
}

// Reset discards all accumulated packets.
func (r *Repacketizer) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rp == nil {
		return ErrClosed
	}
	C.opus_repacketizer_init(r.rp)
	r.packets = nil
	return nil
}

// Close releases the repacketizer. Further calls fail with ErrClosed.
func (r *Repacketizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rp = nil
	r.mem = nil
	r.packets = nil
	return nil
}
