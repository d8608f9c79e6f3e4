// ABOUTME: Ogg Opus stream writer
// ABOUTME: Emits header pages and audio pages with lacing, granules, and CRC
package oggopus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	flagContinued = 0x01
	flagBOS       = 0x02
	flagEOS       = 0x04

	// One packet per page keeps the writer simple; Opus packets top out
	// around 4000 bytes, far under the 255*255 page payload limit.
	maxPagePayload = 255 * 255
)

// Ogg uses CRC-32 with polynomial 0x04C11DB7 in forward (non-reflected)
// form, which is not the IEEE CRC from hash/crc32.
var crcTable [256]uint32

func init() {
	for i := range crcTable {
		r := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if r&0x80000000 != 0 {
				r = (r << 1) ^ 0x04C11DB7
			} else {
				r <<= 1
			}
		}
		crcTable[i] = r
	}
}

func oggCRC(data []byte) uint32 {
	var crc uint32
	for _, b := range data {
		crc = (crc << 8) ^ crcTable[byte(crc>>24)^b]
	}
	return crc
}

// Writer emits an Ogg Opus stream: an OpusHead page, an OpusTags page,
// then one audio page per packet. Close must be called to flag the
// final page end-of-stream.
type Writer struct {
	w       io.Writer
	serial  uint32
	seq     uint32
	granule uint64
	pending []byte // last packet, held back so Close can mark it EOS
	pendingSamples uint64
	closed  bool
}

// NewWriter starts an Ogg Opus stream on w, writing the two header
// pages immediately. Tags defaults to a bare vendor string when nil.
func NewWriter(w io.Writer, head Head, tags *Tags) (*Writer, error) {
	hd, err := head.marshal()
	if err != nil {
		return nil, err
	}

	ow := &Writer{w: w, serial: 0x6f707573} // "opus"
	if err := ow.writePage(hd, flagBOS, 0); err != nil {
		return nil, fmt.Errorf("oggopus: writing OpusHead: %w", err)
	}

	t := Tags{Vendor: "go-opus"}
	if tags != nil {
		t = *tags
	}
	if err := ow.writePage(t.marshal(), 0, 0); err != nil {
		return nil, fmt.Errorf("oggopus: writing OpusTags: %w", err)
	}
	return ow, nil
}

// WritePacket appends one Opus packet carrying the given number of
// samples per channel at 48kHz (e.g. 960 for a 20ms packet).
func (ow *Writer) WritePacket(packet []byte, samples int) error {
	if ow.closed {
		return errors.New("oggopus: writer is closed")
	}
	if len(packet) == 0 || len(packet) > maxPagePayload {
		return fmt.Errorf("oggopus: invalid packet length %d", len(packet))
	}
	if samples <= 0 {
		return fmt.Errorf("oggopus: invalid sample count %d", samples)
	}

	if err := ow.flushPending(0); err != nil {
		return err
	}
	ow.pending = append([]byte(nil), packet...)
	ow.pendingSamples = uint64(samples)
	return nil
}

// Close writes the final audio page with the end-of-stream flag set.
// A stream with no packets gets an empty EOS page so readers still see
// a well-formed stream end.
func (ow *Writer) Close() error {
	if ow.closed {
		return nil
	}
	ow.closed = true

	if ow.pending == nil {
		return ow.writePage(nil, flagEOS, ow.granule)
	}
	return ow.flushPending(flagEOS)
}

func (ow *Writer) flushPending(extraFlags byte) error {
	if ow.pending == nil {
		return nil
	}
	ow.granule += ow.pendingSamples
	err := ow.writePage(ow.pending, extraFlags, ow.granule)
	ow.pending = nil
	ow.pendingSamples = 0
	return err
}

func (ow *Writer) writePage(payload []byte, headerType byte, granule uint64) error {
	// Lacing: 255-byte segments, with a final short (possibly zero)
	// segment terminating the packet.
	nsegs := len(payload)/255 + 1
	page := make([]byte, 0, 27+nsegs+len(payload))

	page = append(page, 'O', 'g', 'g', 'S')
	page = append(page, 0, headerType)
	page = binary.LittleEndian.AppendUint64(page, granule)
	page = binary.LittleEndian.AppendUint32(page, ow.serial)
	page = binary.LittleEndian.AppendUint32(page, ow.seq)
	page = append(page, 0, 0, 0, 0) // CRC placeholder
	page = append(page, byte(nsegs))

	remaining := len(payload)
	for i := 0; i < nsegs; i++ {
		if remaining >= 255 {
			page = append(page, 255)
			remaining -= 255
		} else {
			page = append(page, byte(remaining))
			remaining = 0
		}
	}
	page = append(page, payload...)

	binary.LittleEndian.PutUint32(page[22:], oggCRC(page))
	ow.seq++

	if _, err := ow.w.Write(page); err != nil {
		return fmt.Errorf("oggopus: writing page: %w", err)
	}
	return nil
}
