// ABOUTME: Command-line converter between WAV/MP3 and Ogg Opus
// ABOUTME: Provides encode, decode, and info modes over the opus binding
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/Resonate-Protocol/go-opus/internal/resample"
	"github.com/Resonate-Protocol/go-opus/internal/wavio"
	"github.com/Resonate-Protocol/go-opus/pkg/oggopus"
	"github.com/Resonate-Protocol/go-opus/pkg/opus"
	"github.com/hajimehoshi/go-mp3"
)

var (
	mode        = flag.String("mode", "", "Operation: encode, decode, or info")
	inPath      = flag.String("in", "", "Input file (.wav or .mp3 for encode, .opus/.ogg otherwise)")
	outPath     = flag.String("out", "", "Output file")
	bitrate     = flag.Int("bitrate", 0, "Target bitrate in bits/s (0 = encoder default)")
	application = flag.String("application", "audio", "Encoder tuning: voip, audio, or lowdelay")
	frameMs     = flag.Float64("frame-ms", 20, "Frame duration in ms (2.5, 5, 10, 20, 40, 60)")
	complexity  = flag.Int("complexity", -1, "Encoder complexity 0-10 (-1 = default)")
)

func main() {
	flag.Parse()

	var err error
	switch *mode {
	case "encode":
		err = runEncode()
	case "decode":
		err = runDecode()
	case "info":
		err = runInfo()
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", *mode, err)
	}
}

func parseApplication(s string) (opus.Application, error) {
	switch s {
	case "voip":
		return opus.AppVoIP, nil
	case "audio":
		return opus.AppAudio, nil
	case "lowdelay":
		return opus.AppRestrictedLowDelay, nil
	}
	return 0, fmt.Errorf("unknown application %q", s)
}

// readInput loads WAV directly or decodes MP3 to PCM, then brings the
// result to an Opus-supported rate if needed.
func readInput(path string) (*wavio.Audio, error) {
	var clip *wavio.Audio
	var err error

	if strings.HasSuffix(strings.ToLower(path), ".mp3") {
		clip, err = readMP3(path)
	} else {
		clip, err = wavio.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	switch clip.SampleRate {
	case 8000, 12000, 16000, 24000, 48000:
		return clip, nil
	}

	log.Printf("Resampling %dHz input to 48000Hz", clip.SampleRate)
	r := resample.New(clip.SampleRate, 48000, clip.Channels)
	return &wavio.Audio{
		SampleRate: 48000,
		Channels:   clip.Channels,
		Samples:    r.Resample(clip.Samples),
	}, nil
}

// readMP3 decodes an MP3 file; go-mp3 always yields 16-bit stereo.
func readMP3(path string) (*wavio.Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("opening mp3: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("decoding mp3: %w", err)
	}

	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(uint16(raw[i*2]) | uint16(raw[i*2+1])<<8)
	}
	return &wavio.Audio{
		SampleRate: dec.SampleRate(),
		Channels:   2,
		Samples:    samples,
	}, nil
}

func runEncode() error {
	if *inPath == "" || *outPath == "" {
		return errors.New("encode requires -in and -out")
	}
	app, err := parseApplication(*application)
	if err != nil {
		return err
	}

	clip, err := readInput(*inPath)
	if err != nil {
		return err
	}

	enc, err := opus.NewEncoder(clip.SampleRate, clip.Channels, app)
	if err != nil {
		return err
	}
	defer enc.Close()

	if *bitrate > 0 {
		if err := enc.SetBitrate(*bitrate); err != nil {
			return fmt.Errorf("setting bitrate: %w", err)
		}
	}
	if *complexity >= 0 {
		if err := enc.SetComplexity(*complexity); err != nil {
			return fmt.Errorf("setting complexity: %w", err)
		}
	}

	frameSize := int(float64(clip.SampleRate) * *frameMs / 1000)
	lookahead, err := enc.Lookahead()
	if err != nil {
		return err
	}

	out, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	// Pre-skip is expressed at 48kHz regardless of the coding rate
	head := oggopus.Head{
		Channels:        clip.Channels,
		PreSkip:         uint16(lookahead * 48000 / clip.SampleRate),
		InputSampleRate: uint32(clip.SampleRate),
	}
	w, err := oggopus.NewWriter(out, head, &oggopus.Tags{Vendor: "go-opus " + opus.Version()})
	if err != nil {
		return err
	}

	frameValues := frameSize * clip.Channels
	granulePerFrame := frameSize * 48000 / clip.SampleRate
	packets, bytes := 0, 0

	for off := 0; off < len(clip.Samples); off += frameValues {
		frame := make([]int16, frameValues)
		copy(frame, clip.Samples[off:min(off+frameValues, len(clip.Samples))])

		packet, err := enc.Encode(frame)
		if err != nil {
			return fmt.Errorf("encoding frame at sample %d: %w", off, err)
		}
		if err := w.WritePacket(packet, granulePerFrame); err != nil {
			return err
		}
		packets++
		bytes += len(packet)
	}
	if err := w.Close(); err != nil {
		return err
	}

	log.Printf("Encoded %dms (%d packets, %d bytes) to %s",
		clip.DurationMs(), packets, bytes, *outPath)
	return nil
}

func runDecode() error {
	if *inPath == "" || *outPath == "" {
		return errors.New("decode requires -in and -out")
	}

	f, err := os.Open(*inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := oggopus.NewReader(f)
	if err != nil {
		return err
	}
	head := r.Head()

	// Ogg Opus playback is always at 48kHz
	dec, err := opus.NewDecoder(48000, head.Channels)
	if err != nil {
		return err
	}
	defer dec.Close()

	clip := &wavio.Audio{SampleRate: 48000, Channels: head.Channels}
	for {
		packet, err := r.ReadPacket()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading packet: %w", err)
		}
		pcm, err := dec.Decode(packet)
		if err != nil {
			return fmt.Errorf("decoding packet: %w", err)
		}
		clip.Samples = append(clip.Samples, pcm...)
	}

	// Drop the encoder lookahead the header asks us to skip
	skip := int(head.PreSkip) * head.Channels
	if skip < len(clip.Samples) {
		clip.Samples = clip.Samples[skip:]
	}

	if err := wavio.WriteFile(*outPath, clip); err != nil {
		return err
	}
	log.Printf("Decoded %dms to %s", clip.DurationMs(), *outPath)
	return nil
}

func runInfo() error {
	if *inPath == "" {
		return errors.New("info requires -in")
	}

	f, err := os.Open(*inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := oggopus.NewReader(f)
	if err != nil {
		return err
	}
	head := r.Head()

	fmt.Printf("library:      %s\n", opus.Version())
	fmt.Printf("channels:     %d\n", head.Channels)
	fmt.Printf("pre-skip:     %d\n", head.PreSkip)
	fmt.Printf("input rate:   %d Hz\n", head.InputSampleRate)
	fmt.Printf("output gain:  %d (Q8 dB)\n", head.OutputGain)
	if v := r.Tags().Vendor; v != "" {
		fmt.Printf("vendor:       %s\n", v)
	}

	packets, bytes, samples := 0, 0, 0
	var bw opus.Bandwidth
	for {
		packet, err := r.ReadPacket()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading packet: %w", err)
		}
		n, err := opus.PacketSampleCount(packet, 48000)
		if err != nil {
			return fmt.Errorf("inspecting packet %d: %w", packets, err)
		}
		if bw == 0 {
			bw, _ = opus.PacketBandwidth(packet)
		}
		packets++
		bytes += len(packet)
		samples += n
	}

	fmt.Printf("packets:      %d\n", packets)
	fmt.Printf("duration:     %dms\n", samples*1000/48000)
	fmt.Printf("bandwidth:    %s\n", bw)
	if samples > 0 {
		fmt.Printf("avg bitrate:  %d bits/s\n", bytes*8*48000/samples)
	}
	return nil
}
