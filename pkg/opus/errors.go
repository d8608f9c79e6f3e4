// ABOUTME: Error translation for the Opus binding
// ABOUTME: Maps native status codes to Go errors and defines local sentinels
package opus

/*
#cgo pkg-config: opus
#include <opus.h>
*/
import "C"

import (
	"errors"
	"fmt"
)

// Error is a status code returned by libopus. The message comes from
// opus_strerror, so it matches the native library verbatim.
type Error int

// Native error codes. Values are the libopus constants.
const (
	ErrBadArg         = Error(C.OPUS_BAD_ARG)
	ErrBufferTooSmall = Error(C.OPUS_BUFFER_TOO_SMALL)
	ErrInternal       = Error(C.OPUS_INTERNAL_ERROR)
	ErrInvalidPacket  = Error(C.OPUS_INVALID_PACKET)
	ErrUnimplemented  = Error(C.OPUS_UNIMPLEMENTED)
	ErrInvalidState   = Error(C.OPUS_INVALID_STATE)
	ErrAllocFail      = Error(C.OPUS_ALLOC_FAIL)
)

func (e Error) Error() string {
	return fmt.Sprintf("opus: %s", C.GoString(C.opus_strerror(C.int(e))))
}

// Errors detected locally, before any native call is made.
var (
	ErrClosed                = errors.New("opus: use of closed codec state")
	ErrUnsupportedSampleRate = errors.New("opus: sample rate must be one of 8000, 12000, 16000, 24000, 48000")
	ErrUnsupportedChannels   = errors.New("opus: channel count must be 1 or 2")
	ErrUnsupportedApp        = errors.New("opus: unknown application mode")
	ErrInvalidFrameSize      = errors.New("opus: frame must be 2.5, 5, 10, 20, 40 or 60 ms of samples")
)
