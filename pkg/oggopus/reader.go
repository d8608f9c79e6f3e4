// ABOUTME: Ogg Opus stream reader built on the jonas747/ogg page decoder
// ABOUTME: Parses headers and hands out raw Opus packets
package oggopus

import (
	"fmt"
	"io"

	"github.com/jonas747/ogg"
)

// Reader extracts Opus packets from an Ogg stream. The OpusHead and
// OpusTags headers are consumed during construction; ReadPacket then
// returns audio packets until io.EOF.
type Reader struct {
	dec  *ogg.PacketDecoder
	head Head
	tags Tags
}

// NewReader reads the stream headers from r.
func NewReader(r io.Reader) (*Reader, error) {
	dec := ogg.NewPacketDecoder(ogg.NewDecoder(r))

	packet, _, err := dec.Decode()
	if err != nil {
		return nil, fmt.Errorf("oggopus: reading OpusHead packet: %w", err)
	}
	head, err := ParseHead(packet)
	if err != nil {
		return nil, err
	}

	packet, _, err = dec.Decode()
	if err != nil {
		return nil, fmt.Errorf("oggopus: reading OpusTags packet: %w", err)
	}
	tags, err := ParseTags(packet)
	if err != nil {
		return nil, err
	}

	return &Reader{dec: dec, head: head, tags: tags}, nil
}

// Head returns the stream's identification header.
func (r *Reader) Head() Head { return r.head }

// Tags returns the stream's comment header.
func (r *Reader) Tags() Tags { return r.tags }

// ReadPacket returns the next Opus packet, or io.EOF at end of stream.
func (r *Reader) ReadPacket() ([]byte, error) {
	packet, _, err := r.dec.Decode()
	if err != nil {
		return nil, err
	}
	// The closing page of an empty stream carries a zero-length packet.
	if len(packet) == 0 {
		return nil, io.EOF
	}
	return packet, nil
}
