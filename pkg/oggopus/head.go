// ABOUTME: OpusHead and OpusTags header marshalling
// ABOUTME: Implements the RFC 7845 identification and comment headers
package oggopus

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	headMagic = []byte("OpusHead")
	tagsMagic = []byte("OpusTags")
)

// ErrNotOpus is returned when a stream's first packet is not an
// OpusHead header.
var ErrNotOpus = errors.New("oggopus: stream is not Ogg Opus")

// Head is the OpusHead identification header (RFC 7845 section 5.1).
type Head struct {
	Channels        int    // output channel count, 1 or 2 (mapping family 0)
	PreSkip         uint16 // samples (at 48kHz) to discard at stream start
	InputSampleRate uint32 // original input rate, informational only
	OutputGain      int16  // Q7.8 dB gain to apply on playback
}

// marshal encodes the header as a mapping family 0 OpusHead packet.
func (h Head) marshal() ([]byte, error) {
	if h.Channels < 1 || h.Channels > 2 {
		return nil, fmt.Errorf("oggopus: mapping family 0 supports 1 or 2 channels, got %d", h.Channels)
	}

	buf := make([]byte, 19)
	copy(buf, headMagic)
	buf[8] = 1 // version
	buf[9] = byte(h.Channels)
	binary.LittleEndian.PutUint16(buf[10:], h.PreSkip)
	binary.LittleEndian.PutUint32(buf[12:], h.InputSampleRate)
	binary.LittleEndian.PutUint16(buf[16:], uint16(h.OutputGain))
	buf[18] = 0 // mapping family
	return buf, nil
}

// ParseHead decodes an OpusHead packet.
func ParseHead(data []byte) (Head, error) {
	if len(data) < 19 || string(data[:8]) != string(headMagic) {
		return Head{}, ErrNotOpus
	}
	if data[8] != 1 {
		return Head{}, fmt.Errorf("oggopus: unsupported OpusHead version %d", data[8])
	}
	if data[18] != 0 {
		return Head{}, fmt.Errorf("oggopus: unsupported channel mapping family %d", data[18])
	}

	h := Head{
		Channels:        int(data[9]),
		PreSkip:         binary.LittleEndian.Uint16(data[10:]),
		InputSampleRate: binary.LittleEndian.Uint32(data[12:]),
		OutputGain:      int16(binary.LittleEndian.Uint16(data[16:])),
	}
	if h.Channels < 1 || h.Channels > 2 {
		return Head{}, fmt.Errorf("oggopus: invalid channel count %d for mapping family 0", h.Channels)
	}
	return h, nil
}

// Tags is the OpusTags comment header (RFC 7845 section 5.2).
type Tags struct {
	Vendor   string
	Comments []string // "FIELD=value" pairs
}

func (t Tags) marshal() []byte {
	size := 8 + 4 + len(t.Vendor) + 4
	for _, c := range t.Comments {
		size += 4 + len(c)
	}

	buf := make([]byte, 0, size)
	buf = append(buf, tagsMagic...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(t.Vendor)))
	buf = append(buf, t.Vendor...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(t.Comments)))
	for _, c := range t.Comments {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(c)))
		buf = append(buf, c...)
	}
	return buf
}

// ParseTags decodes an OpusTags packet.
func ParseTags(data []byte) (Tags, error) {
	if len(data) < 12 || string(data[:8]) != string(tagsMagic) {
		return Tags{}, errors.New("oggopus: not an OpusTags packet")
	}
	pos := 8

	vendorLen := int(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4
	if pos+vendorLen > len(data) {
		return Tags{}, errors.New("oggopus: truncated OpusTags vendor string")
	}
	tags := Tags{Vendor: string(data[pos : pos+vendorLen])}
	pos += vendorLen

	if pos+4 > len(data) {
		return Tags{}, errors.New("oggopus: truncated OpusTags comment count")
	}
	count := int(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4

	for i := 0; i < count; i++ {
		if pos+4 > len(data) {
			return Tags{}, errors.New("oggopus: truncated OpusTags comment length")
		}
		n := int(binary.LittleEndian.Uint32(data[pos:]))
		pos += 4
		if pos+n > len(data) {
			return Tags{}, errors.New("oggopus: truncated OpusTags comment")
		}
		tags.Comments = append(tags.Comments, string(data[pos:pos+n]))
		pos += n
	}
	return tags, nil
}
