// ABOUTME: Plays an Ogg Opus file through the default audio device
// ABOUTME: Decodes with the opus binding and streams PCM via oto
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/Resonate-Protocol/go-opus/pkg/oggopus"
	"github.com/Resonate-Protocol/go-opus/pkg/opus"
	"github.com/ebitengine/oto/v3"
)

var (
	inPath = flag.String("in", "", "Ogg Opus file to play")
	gain   = flag.Int("gain", 0, "Extra decoder gain in Q8 dB (256 = +1dB)")
)

func main() {
	flag.Parse()
	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := play(*inPath); err != nil {
		log.Fatalf("Playback failed: %v", err)
	}
}

func play(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := oggopus.NewReader(f)
	if err != nil {
		return err
	}
	head := r.Head()

	dec, err := opus.NewDecoder(48000, head.Channels)
	if err != nil {
		return err
	}
	defer dec.Close()

	// Fold the header's output gain and any extra gain into the decoder
	if g := int(head.OutputGain) + *gain; g != 0 {
		if err := dec.SetGain(g); err != nil {
			return fmt.Errorf("setting gain: %w", err)
		}
	}

	var pcm bytes.Buffer
	for {
		packet, err := r.ReadPacket()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading packet: %w", err)
		}
		samples, err := dec.Decode(packet)
		if err != nil {
			return fmt.Errorf("decoding packet: %w", err)
		}
		for _, s := range samples {
			pcm.WriteByte(byte(s))
			pcm.WriteByte(byte(s >> 8))
		}
	}

	skip := int(head.PreSkip) * head.Channels * 2
	if skip < pcm.Len() {
		pcm.Next(skip)
	}
	durationMs := pcm.Len() / 2 / head.Channels * 1000 / 48000

	op := &oto.NewContextOptions{
		SampleRate:   48000,
		ChannelCount: head.Channels,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("initializing audio device: %w", err)
	}
	<-readyChan

	log.Printf("Playing %s (%dms, %d channel(s))", path, durationMs, head.Channels)
	player := ctx.NewPlayer(&pcm)
	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return player.Close()
}
