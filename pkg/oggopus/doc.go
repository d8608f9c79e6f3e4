// ABOUTME: Package documentation for Ogg Opus container support
// ABOUTME: Describes the Reader/Writer pair and the RFC 7845 framing
// Package oggopus reads and writes Opus audio in Ogg containers as
// specified by RFC 7845.
//
// Reader pulls raw Opus packets out of an Ogg stream, parsing the
// OpusHead identification header and skipping the OpusTags comment
// header. Writer does the reverse: it emits the two header pages and
// then one audio page per packet, maintaining granule positions and
// the Ogg CRC.
//
// Only channel mapping family 0 (mono and stereo) is supported, which
// matches what the opus package can encode.
//
// Example:
//
//	w, err := oggopus.NewWriter(f, oggopus.Head{Channels: 1, InputSampleRate: 48000})
//	err = w.WritePacket(packet, 960) // 20ms at 48kHz
//	err = w.Close()
//
//	r, err := oggopus.NewReader(f)
//	for {
//	    packet, err := r.ReadPacket()
//	    if err == io.EOF {
//	        break
//	    }
//	}
package oggopus
