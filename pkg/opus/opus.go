// ABOUTME: Library-wide constants and helpers for the Opus binding
// ABOUTME: Covers version info, tuning enums, and frame validation
package opus

/*
#cgo pkg-config: opus
#include <opus.h>
*/
import "C"

import "fmt"

// Application selects the encoder tuning profile.
type Application int

const (
	// AppVoIP favors speech intelligibility
	AppVoIP = Application(C.OPUS_APPLICATION_VOIP)
	// AppAudio favors faithful reproduction of music and mixed content
	AppAudio = Application(C.OPUS_APPLICATION_AUDIO)
	// AppRestrictedLowDelay disables the speech-optimized modes for minimal latency
	AppRestrictedLowDelay = Application(C.OPUS_APPLICATION_RESTRICTED_LOWDELAY)
)

func (a Application) String() string {
	switch a {
	case AppVoIP:
		return "voip"
	case AppAudio:
		return "audio"
	case AppRestrictedLowDelay:
		return "lowdelay"
	default:
		return fmt.Sprintf("application(%d)", int(a))
	}
}

// Signal hints the encoder about the content type.
type Signal int

const (
	SignalAuto  = Signal(C.OPUS_AUTO)
	SignalVoice = Signal(C.OPUS_SIGNAL_VOICE)
	SignalMusic = Signal(C.OPUS_SIGNAL_MUSIC)
)

// Bandwidth is the coded audio bandwidth.
type Bandwidth int

const (
	BandwidthAuto          = Bandwidth(C.OPUS_AUTO)
	BandwidthNarrowband    = Bandwidth(C.OPUS_BANDWIDTH_NARROWBAND)    // 4 kHz
	BandwidthMediumband    = Bandwidth(C.OPUS_BANDWIDTH_MEDIUMBAND)    // 6 kHz
	BandwidthWideband      = Bandwidth(C.OPUS_BANDWIDTH_WIDEBAND)      // 8 kHz
	BandwidthSuperwideband = Bandwidth(C.OPUS_BANDWIDTH_SUPERWIDEBAND) // 12 kHz
	BandwidthFullband      = Bandwidth(C.OPUS_BANDWIDTH_FULLBAND)      // 20 kHz
)

func (b Bandwidth) String() string {
	switch b {
	case BandwidthNarrowband:
		return "narrowband"
	case BandwidthMediumband:
		return "mediumband"
	case BandwidthWideband:
		return "wideband"
	case BandwidthSuperwideband:
		return "superwideband"
	case BandwidthFullband:
		return "fullband"
	case BandwidthAuto:
		return "auto"
	default:
		return fmt.Sprintf("bandwidth(%d)", int(b))
	}
}

// FrameDuration values for Encoder.SetExpertFrameDuration.
type FrameDuration int

const (
	FrameDurationArg  = FrameDuration(C.OPUS_FRAMESIZE_ARG)
	FrameDuration2_5  = FrameDuration(C.OPUS_FRAMESIZE_2_5_MS)
	FrameDuration5    = FrameDuration(C.OPUS_FRAMESIZE_5_MS)
	FrameDuration10   = FrameDuration(C.OPUS_FRAMESIZE_10_MS)
	FrameDuration20   = FrameDuration(C.OPUS_FRAMESIZE_20_MS)
	FrameDuration40   = FrameDuration(C.OPUS_FRAMESIZE_40_MS)
	FrameDuration60   = FrameDuration(C.OPUS_FRAMESIZE_60_MS)
)

const (
	// Auto stands in for any CTL value the encoder should pick itself
	Auto = int(C.OPUS_AUTO)
	// BitrateMax requests as much bitrate as framing allows
	BitrateMax = int(C.OPUS_BITRATE_MAX)
)

const (
	// Recommended ceiling for a single encoded packet
	maxPacketBytes = 4000
	// Longest frame is 60ms; at 48kHz that is 2880 samples per channel
	maxFrameDurationMs = 60
)

// Version reports the libopus version string, e.g. "libopus 1.4".
func Version() string {
	return C.GoString(C.opus_get_version_string())
}

func validSampleRate(rate int) bool {
	switch rate {
	case 8000, 12000, 16000, 24000, 48000:
		return true
	}
	return false
}

func validChannels(channels int) bool {
	return channels == 1 || channels == 2
}

func validApplication(app Application) bool {
	switch app {
	case AppVoIP, AppAudio, AppRestrictedLowDelay:
		return true
	}
	return false
}

// validFrameSize reports whether samples-per-channel corresponds to one
// of the accepted frame durations (2.5, 5, 10, 20, 40, 60 ms) at rate.
func validFrameSize(frameSize, rate int) bool {
	switch frameSize {
	case rate / 400, rate / 200, rate / 100, rate / 50, rate / 25, 3 * rate / 50:
		return true
	}
	return false
}

func maxFrameSize(rate int) int {
	return rate * maxFrameDurationMs / 1000
}
